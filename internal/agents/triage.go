package agents

import (
	"context"
	"fmt"
	"time"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// TriageStage recomputes the urgency score of every open donation and
// open request each cycle. Scores are full recomputes from current
// attributes, never incremental.
type TriageStage struct {
	Facade ports.Facade
	Log    logrus.FieldLogger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *TriageStage) Name() string { return "triage" }

func (s *TriageStage) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TriageStage) Execute(ctx context.Context) error {
	donations, err := s.Facade.GetOpenDonations(ctx)
	if err != nil {
		return fmt.Errorf("triage: list open donations: %w", err)
	}

	now := s.now()

	for _, d := range donations {
		d.UrgencyScore = DonationUrgency(d, now)
		if err := s.Facade.UpdateDonation(ctx, d.ID, d); err != nil {
			return fmt.Errorf("triage: update donation %s: %w", d.ID, err)
		}
	}

	requests, err := s.Facade.GetOpenRequests(ctx)
	if err != nil {
		return fmt.Errorf("triage: list open requests: %w", err)
	}

	for _, r := range requests {
		r.UrgencyScore = RequestUrgency(r, now)
		if err := s.Facade.UpdateRequest(ctx, r.ID, r); err != nil {
			return fmt.Errorf("triage: update request %s: %w", r.ID, err)
		}
	}

	return nil
}

// DonationUrgency scores a donation 0-100 as the unweighted sum of
// perishability, pickup-window pressure, and category priority. Exactly
// one time bucket applies (coarsest bucket wins).
func DonationUrgency(d *domain.Donation, now time.Time) int {
	score := 0

	switch d.Perishability {
	case domain.PerishabilityHigh:
		score += 10
	case domain.PerishabilityMedium:
		score += 5
	}

	hoursLeft := d.PickupWindowEnd.Sub(now).Hours()
	switch {
	case hoursLeft < 2:
		score += 15
	case hoursLeft < 6:
		score += 10
	case hoursLeft < 12:
		score += 5
	}

	switch d.Category {
	case domain.CategoryWater:
		score += 20
	case domain.CategoryProduce:
		score += 8
	}

	return clampScore(score)
}

// RequestUrgency scores a request 0-100 from special needs, household
// size, and wait time. The wait term alone is capped at 20; the
// household term is uncapped before the final clamp, so score never
// decreases as wait time grows.
func RequestUrgency(r *domain.Request, now time.Time) int {
	score := 0

	if r.NeedsTag(domain.NeedWater) {
		score += 25
	}

	household := r.HouseholdSize
	if household < 1 {
		household = 1
	}
	score += household * 2

	hoursWaiting := now.Sub(r.CreatedAt).Hours()
	if hoursWaiting < 0 {
		hoursWaiting = 0
	}
	wait := hoursWaiting * 2
	if wait > 20 {
		wait = 20
	}
	score += int(wait)

	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
