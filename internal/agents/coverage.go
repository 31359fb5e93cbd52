package agents

import (
	"context"
	"fmt"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// CoverageStage is the backstop of the pipeline: every open request
// left unmatched at the end of a cycle produces some actionable task,
// never a silent drop. SLA-overdue items additionally get a critical
// emergency task. Failures during synthesis are converted into
// error_recovery tasks instead of propagating.
type CoverageStage struct {
	Facade ports.Facade
	Log    logrus.FieldLogger
}

func (s *CoverageStage) Name() string { return "coverage" }

// Execute never returns an error: coverage is the guaranteed-output
// backstop, so internal failures are logged (or converted to
// error_recovery tasks) rather than aborting the cycle tail.
func (s *CoverageStage) Execute(ctx context.Context) error {
	report, err := s.Facade.CheckCoverage(ctx)
	if err != nil {
		s.Log.WithError(err).Error("coverage check failed")
		return nil
	}

	if report.SLARisks > 0 {
		if err := s.handleSLARisks(ctx, report.Risks); err != nil {
			s.Log.WithError(err).Error("sla risk handling failed")
		}
	}

	unmatched, err := s.findUnmatchedRequests(ctx)
	if err != nil {
		s.Log.WithError(err).Error("unmatched request scan failed")
		return nil
	}

	for _, req := range unmatched {
		task := s.fallbackTask(ctx, req)
		if _, err := s.Facade.CreateTask(ctx, task); err != nil {
			s.Log.WithError(err).WithField("request_id", req.ID).Error("fallback task creation failed")
		}
	}

	return nil
}

func (s *CoverageStage) handleSLARisks(ctx context.Context, risks []ports.CoverageRisk) error {
	for _, risk := range risks {
		s.Log.WithField("type", risk.Type).
			WithField("id", risk.ID).
			WithField("hours_overdue", risk.HoursOverdue).
			Warn("SLA risk detected")

		task := &domain.Task{
			Type:         domain.TaskEmergencyDelivery,
			RequestID:    risk.ID,
			UrgencyScore: 100,
			Priority:     domain.PriorityCritical,
			Status:       domain.TaskPending,
		}
		if _, err := s.Facade.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("create emergency task for %s: %w", risk.ID, err)
		}
	}
	return nil
}

// findUnmatchedRequests returns open requests not referenced by any
// assigned task.
func (s *CoverageStage) findUnmatchedRequests(ctx context.Context) ([]*domain.Request, error) {
	open, err := s.Facade.GetOpenRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open requests: %w", err)
	}

	assigned, err := s.Facade.GetAssignedTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}

	covered := make(map[string]struct{}, len(assigned))
	for _, t := range assigned {
		covered[t.RequestID] = struct{}{}
	}

	var unmatched []*domain.Request
	for _, r := range open {
		if _, ok := covered[r.ID]; !ok {
			unmatched = append(unmatched, r)
		}
	}
	return unmatched, nil
}

// fallbackTask synthesizes the best available fallback for one
// unmatched request: an emergency pickup-delivery against the first
// available donation, a community outreach task when no donation
// exists, or an error_recovery task if synthesis itself fails. It never
// returns an error; coverage must not throw past its own boundary.
func (s *CoverageStage) fallbackTask(ctx context.Context, req *domain.Request) *domain.Task {
	task, err := s.emergencyTask(ctx, req)
	if err != nil {
		s.Log.WithError(err).WithField("request_id", req.ID).Error("emergency task synthesis failed")
		return &domain.Task{
			Type:      domain.TaskErrorRecovery,
			RequestID: req.ID,
			Status:    domain.TaskFailed,
			Message:   err.Error(),
		}
	}
	return task
}

func (s *CoverageStage) emergencyTask(ctx context.Context, req *domain.Request) (*domain.Task, error) {
	donations, err := s.Facade.GetOpenDonations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available donations: %w", err)
	}

	var available []*domain.Donation
	for _, d := range donations {
		if d.Status == domain.DonationAvailable {
			available = append(available, d)
		}
	}

	if len(available) == 0 {
		s.Log.WithField("request_id", req.ID).Info("no donations available, creating outreach task")
		return &domain.Task{
			Type:         domain.TaskCommunityOutreach,
			RequestID:    req.ID,
			UrgencyScore: 85,
			Priority:     domain.PriorityHigh,
			Status:       domain.TaskPending,
			Message:      "Seeking community resources for emergency request",
		}, nil
	}

	// First available wins; no further scoring at the backstop.
	matched := available[0]

	return &domain.Task{
		Type:           domain.TaskEmergencyPickupDelivery,
		DonationID:     matched.ID,
		RequestID:      req.ID,
		PickupCoords:   matched.Coords,
		DeliveryCoords: req.Coords,
		UrgencyScore:   95,
		Priority:       domain.PriorityEmergency,
		Status:         domain.TaskPending,
	}, nil
}
