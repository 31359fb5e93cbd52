package agents

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingStage struct {
	name  string
	runs  atomic.Int32
	fail  bool
	block chan struct{}
}

func (s *countingStage) Name() string { return s.name }

func (s *countingStage) Execute(ctx context.Context) error {
	s.runs.Add(1)
	if s.block != nil {
		<-s.block
	}
	if s.fail {
		return errors.New("stage failure")
	}
	return nil
}

func TestOrchestratorRunsStagesInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Stage {
		return stageFunc{name: name, fn: func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	o := NewOrchestrator([]Stage{mk("intake"), mk("triage"), mk("bundler"), mk("optimizer"), mk("coverage")}, time.Hour, testLogger())
	o.RunCycle(context.Background())

	want := []string{"intake", "triage", "bundler", "optimizer", "coverage"}
	if len(order) != len(want) {
		t.Fatalf("ran %d stages, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("stage order %v, want %v", order, want)
		}
	}
}

type stageFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (s stageFunc) Name() string                      { return s.name }
func (s stageFunc) Execute(ctx context.Context) error { return s.fn(ctx) }

func TestOrchestratorStageFailureSkipsRemainder(t *testing.T) {
	first := &countingStage{name: "first", fail: true}
	second := &countingStage{name: "second"}

	o := NewOrchestrator([]Stage{first, second}, time.Hour, testLogger())

	o.RunCycle(context.Background())
	if second.runs.Load() != 0 {
		t.Fatal("stage after failure still ran")
	}

	// The next cycle retries the full pipeline.
	first.fail = false
	o.RunCycle(context.Background())
	if first.runs.Load() != 2 || second.runs.Load() != 1 {
		t.Fatalf("retry cycle wrong: first=%d second=%d", first.runs.Load(), second.runs.Load())
	}
}

func TestOrchestratorStartIsIdempotent(t *testing.T) {
	stage := &countingStage{name: "only"}
	o := NewOrchestrator([]Stage{stage}, time.Hour, testLogger())

	ctx := context.Background()
	o.Start(ctx)
	defer o.Stop()

	runsAfterStart := stage.runs.Load()
	if runsAfterStart != 1 {
		t.Fatalf("initial cycle ran %d times, want 1", runsAfterStart)
	}

	// Second Start must not spawn a second timer loop or extra cycle.
	o.Start(ctx)
	if got := stage.runs.Load(); got != runsAfterStart {
		t.Fatalf("second Start ran %d extra cycles", got-runsAfterStart)
	}
	if !o.Running() {
		t.Fatal("orchestrator not running after Start")
	}
}

func TestOrchestratorStopPreventsNewCycles(t *testing.T) {
	stage := &countingStage{name: "only"}
	o := NewOrchestrator([]Stage{stage}, 10*time.Millisecond, testLogger())

	o.Start(context.Background())
	o.Stop()

	if o.Running() {
		t.Fatal("orchestrator still running after Stop")
	}

	runs := stage.runs.Load()
	time.Sleep(50 * time.Millisecond)
	if got := stage.runs.Load(); got != runs {
		t.Fatalf("cycles continued after Stop: %d -> %d", runs, got)
	}
}

func TestOrchestratorDropsOverlappingTick(t *testing.T) {
	blocked := &countingStage{name: "slow", block: make(chan struct{})}
	o := NewOrchestrator([]Stage{blocked}, time.Hour, testLogger())

	go o.RunCycle(context.Background())

	// Wait for the first cycle to be in flight.
	deadline := time.After(time.Second)
	for blocked.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first cycle never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// A second cycle while the first is blocked must be dropped.
	o.RunCycle(context.Background())
	if blocked.runs.Load() != 1 {
		t.Fatalf("overlapping cycle ran: %d", blocked.runs.Load())
	}

	close(blocked.block)
}

func TestOrchestratorLastRunAdvances(t *testing.T) {
	stage := &countingStage{name: "only"}
	o := NewOrchestrator([]Stage{stage}, time.Hour, testLogger())

	if !o.LastRun().IsZero() {
		t.Fatal("LastRun set before any cycle")
	}
	o.RunCycle(context.Background())
	if o.LastRun().IsZero() {
		t.Fatal("LastRun not recorded")
	}
}
