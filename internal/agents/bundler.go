package agents

import (
	"context"
	"fmt"
	"sort"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/geo"
	"food-dispatch-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// Candidate donations are searched within this radius of a request.
const bundleRadiusKm = 10

// BundlerStage pairs open requests with nearby open donations into
// pickup-delivery task proposals. Requests are served in descending
// urgency order; each request receives at most one proposal per cycle,
// and a donation matched to one request is withheld from every later
// request in the same pass.
type BundlerStage struct {
	Facade ports.Facade
	Log    logrus.FieldLogger
}

func (s *BundlerStage) Name() string { return "bundler" }

func (s *BundlerStage) Execute(ctx context.Context) error {
	donations, err := s.Facade.GetOpenDonations(ctx)
	if err != nil {
		return fmt.Errorf("bundler: list open donations: %w", err)
	}

	requests, err := s.Facade.GetOpenRequests(ctx)
	if err != nil {
		return fmt.Errorf("bundler: list open requests: %w", err)
	}

	bundles := BuildBundles(donations, requests)

	for _, b := range bundles {
		if _, err := s.Facade.CreateTask(ctx, b); err != nil {
			return fmt.Errorf("bundler: create task for request %s: %w", b.RequestID, err)
		}
		s.Log.WithField("request_id", b.RequestID).
			WithField("donation_id", b.DonationID).
			Debug("bundle created")
	}

	return nil
}

// BuildBundles produces at most one pickup-delivery proposal per
// request. Matched donations are pruned from the candidate pool so a
// donation is never proposed to two requests in one pass.
func BuildBundles(donations []*domain.Donation, requests []*domain.Request) []*domain.Task {
	// Stable sort preserves input order for equal urgency.
	sorted := make([]*domain.Request, len(requests))
	copy(sorted, requests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UrgencyScore > sorted[j].UrgencyScore
	})

	pool := make([]*domain.Donation, len(donations))
	copy(pool, donations)

	var bundles []*domain.Task

	for _, req := range sorted {
		nearby := nearbyDonations(req, pool, bundleRadiusKm)
		if len(nearby) == 0 {
			continue
		}

		best := selectBestMatch(req, nearby)
		if best == nil {
			continue
		}

		dist := geo.DistanceKm(best.Coords.Lat, best.Coords.Lon, req.Coords.Lat, req.Coords.Lon)

		bundles = append(bundles, &domain.Task{
			Type:           domain.TaskPickupDelivery,
			DonationID:     best.ID,
			RequestID:      req.ID,
			PickupCoords:   best.Coords,
			DeliveryCoords: req.Coords,
			EstWeightKg:    best.EstWeightKg,
			RequiresRefrig: best.RequiresRefrig,
			UrgencyScore:   maxInt(best.UrgencyScore, req.UrgencyScore),
			Priority:       domain.PriorityNormal,
			Status:         domain.TaskPending,
			EstDistanceKm:  dist,
		})

		pool = removeDonation(pool, best.ID)
	}

	return bundles
}

// nearbyDonations filters to geocoded donations within radiusKm of the
// request, sorted ascending by distance. Requests or donations without
// coordinates are excluded, not errors.
func nearbyDonations(req *domain.Request, donations []*domain.Donation, radiusKm float64) []*domain.Donation {
	if req.Coords == nil {
		return nil
	}

	type withDist struct {
		d    *domain.Donation
		dist float64
	}

	var nearby []withDist
	for _, d := range donations {
		if d.Coords == nil {
			continue
		}
		dist := geo.DistanceKm(d.Coords.Lat, d.Coords.Lon, req.Coords.Lat, req.Coords.Lon)
		if dist <= radiusKm {
			nearby = append(nearby, withDist{d: d, dist: dist})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].dist < nearby[j].dist })

	out := make([]*domain.Donation, 0, len(nearby))
	for _, n := range nearby {
		out = append(out, n.d)
	}
	return out
}

// selectBestMatch scores each candidate and returns the highest-scoring
// donation, or nil when no candidate scores above zero.
func selectBestMatch(req *domain.Request, candidates []*domain.Donation) *domain.Donation {
	var best *domain.Donation
	bestScore := 0.0

	for _, d := range candidates {
		score := CompatibilityScore(req, d)
		if score > bestScore {
			bestScore = score
			best = d
		}
	}

	return best
}

// CompatibilityScore is the weighted match score between one request
// and one candidate donation.
func CompatibilityScore(req *domain.Request, d *domain.Donation) float64 {
	score := 0.0

	if req.Category == domain.CategoryAny || req.Category == d.Category {
		score += 20
	}

	if req.NeedsTag(domain.NeedWater) && d.Category == domain.CategoryWater {
		score += 50
	}
	if req.NeedsTag(domain.NeedBabyFood) && d.Category == domain.CategoryPrepared {
		score += 30
	}

	household := req.HouseholdSize
	if household < 1 {
		household = 1
	}
	if d.Qty/float64(household) >= 1 {
		score += 15
	}

	dist := geo.DistanceKm(d.Coords.Lat, d.Coords.Lon, req.Coords.Lat, req.Coords.Lon)
	if bonus := 20 - dist; bonus > 0 {
		score += bonus
	}

	// Narrow high-perishability bonus for water-need requests; kept
	// deliberately specific.
	if d.Perishability == domain.PerishabilityHigh && req.NeedsTag(domain.NeedWater) {
		score += 25
	}

	return score
}

func removeDonation(pool []*domain.Donation, id string) []*domain.Donation {
	out := pool[:0]
	for _, d := range pool {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
