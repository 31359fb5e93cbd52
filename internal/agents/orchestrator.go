package agents

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Stage is a single step of the dispatch pipeline. Execute reads and
// writes through the data access facade and returns the first error it
// cannot recover from locally.
type Stage interface {
	Name() string
	Execute(ctx context.Context) error
}

// Orchestrator drives the five-stage dispatch pipeline on a fixed
// wall-clock interval. Stages run strictly in order within one cycle;
// a stage failure aborts the remainder of that cycle and the next tick
// retries the full pipeline (fixed-interval retry, no backoff).
type Orchestrator struct {
	stages   []Stage
	interval time.Duration
	log      logrus.FieldLogger

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	inFlight bool

	lastRun time.Time
}

func NewOrchestrator(stages []Stage, interval time.Duration, log logrus.FieldLogger) *Orchestrator {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Orchestrator{
		stages:   stages,
		interval: interval,
		log:      log,
	}
}

// Start activates the cycle timer and runs one cycle immediately
// before returning. Calling Start on a running orchestrator is a no-op;
// only one timer loop ever exists.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return
	}
	o.running = true
	o.stopCh = make(chan struct{})
	o.doneCh = make(chan struct{})
	o.mu.Unlock()

	o.log.WithField("interval", o.interval).Info("orchestrator starting")

	go o.loop(ctx)

	o.RunCycle(ctx)
}

func (o *Orchestrator) loop(ctx context.Context) {
	defer close(o.doneCh)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.RunCycle(ctx)
		case <-o.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the timer and clears the running flag. A cycle already
// in flight finishes; no new cycle starts.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	close(o.stopCh)
	done := o.doneCh
	o.mu.Unlock()

	<-done
	o.log.Info("orchestrator stopped")
}

func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

func (o *Orchestrator) LastRun() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRun
}

// RunCycle executes the stages in order. If any stage fails, the
// remaining stages are skipped for this iteration; the next scheduled
// cycle runs all stages again. Cycles never overlap: a tick arriving
// while a cycle is still running is dropped.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		o.log.Warn("cycle still in flight, skipping tick")
		return
	}
	o.inFlight = true
	o.lastRun = time.Now()
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	start := time.Now()
	o.log.Debug("orchestration cycle starting")

	for _, stage := range o.stages {
		if err := ctx.Err(); err != nil {
			return
		}

		if err := stage.Execute(ctx); err != nil {
			o.log.WithError(err).WithField("stage", stage.Name()).Error("stage failed, aborting cycle")
			return
		}
	}

	o.log.WithField("dur_ms", time.Since(start).Milliseconds()).Debug("orchestration cycle complete")
}
