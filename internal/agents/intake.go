package agents

import (
	"context"
	"fmt"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// IntakeStage normalizes newly submitted donations and requests:
// geocoding missing coordinates from postal addresses and estimating
// donation weight from category, quantity, and unit.
type IntakeStage struct {
	Facade   ports.Facade
	Geocoder ports.Geocoder
	Log      logrus.FieldLogger
}

func (s *IntakeStage) Name() string { return "intake" }

func (s *IntakeStage) Execute(ctx context.Context) error {
	donations, err := s.Facade.GetNewDonations(ctx)
	if err != nil {
		return fmt.Errorf("intake: list new donations: %w", err)
	}

	for _, d := range donations {
		if err := s.processDonation(ctx, d); err != nil {
			return fmt.Errorf("intake: donation %s: %w", d.ID, err)
		}
	}

	requests, err := s.Facade.GetNewRequests(ctx)
	if err != nil {
		return fmt.Errorf("intake: list new requests: %w", err)
	}

	for _, r := range requests {
		if err := s.processRequest(ctx, r); err != nil {
			return fmt.Errorf("intake: request %s: %w", r.ID, err)
		}
	}

	return nil
}

func (s *IntakeStage) processDonation(ctx context.Context, d *domain.Donation) error {
	if d.Coords == nil && d.Address != "" {
		d.Coords = s.geocode(ctx, d.Address)
	}

	if d.EstWeightKg == 0 {
		d.EstWeightKg = EstimateWeightKg(d.Category, d.Qty, d.Unit)
	}

	// Write back unconditionally; the facade upsert is idempotent.
	if err := s.Facade.UpdateDonation(ctx, d.ID, d); err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	return nil
}

func (s *IntakeStage) processRequest(ctx context.Context, r *domain.Request) error {
	if r.Coords == nil && r.Address != "" {
		r.Coords = s.geocode(ctx, r.Address)
	}

	if err := s.Facade.UpdateRequest(ctx, r.ID, r); err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	return nil
}

// geocode resolves an address, treating failure as "still unresolved"
// rather than an error: the record simply stays out of distance-based
// steps until a later cycle succeeds.
func (s *IntakeStage) geocode(ctx context.Context, address string) *domain.Coordinates {
	// No geocoder configured; records stay unresolved and bundling
	// skips them.
	if s.Geocoder == nil {
		return nil
	}

	coords, err := s.Geocoder.GeocodeAddress(ctx, address)
	if err != nil {
		s.Log.WithError(err).WithField("address", address).Warn("geocode failed, leaving coordinates unset")
		return nil
	}
	return coords
}

// Per-unit weight multipliers by category. Unknown categories fall back
// to the packaged table; unknown units are treated as already being in
// kilograms (quantity x 1).
var weightTable = map[string]map[string]float64{
	domain.CategoryProduce:  {"lbs": 1, "kg": 2.2, "items": 0.2},
	domain.CategoryPrepared: {"lbs": 1, "kg": 2.2, "servings": 0.3},
	domain.CategoryPackaged: {"lbs": 1, "kg": 2.2, "items": 0.4},
	domain.CategoryBakery:   {"lbs": 1, "kg": 2.2, "items": 0.15},
}

// EstimateWeightKg derives a deterministic weight estimate from
// category, quantity, and unit.
func EstimateWeightKg(category string, qty float64, unit string) float64 {
	table, ok := weightTable[category]
	if !ok {
		table = weightTable[domain.CategoryPackaged]
	}

	mult, ok := table[unit]
	if !ok {
		mult = 1
	}

	// Floor at 1kg so a zero quantity never produces a weightless task.
	if w := qty * mult; w > 0 {
		return w
	}
	return 1
}
