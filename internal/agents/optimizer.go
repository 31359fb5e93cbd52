package agents

import (
	"context"
	"fmt"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/geo"
	"food-dispatch-service/internal/ports"

	"github.com/sirupsen/logrus"
)

const (
	// Feasibility radius from a volunteer to a task's pickup point.
	volunteerRadiusKm = 25
	// Design ceiling on stops per volunteer route.
	maxStopsPerRoute = 8
	// Fallback task weight when intake never produced an estimate.
	defaultTaskWeightKg = 5

	// Fixed travel time model: minutes per km plus dwell per stop.
	minutesPerKm   = 3
	minutesPerStop = 15
)

// OptimizerStage assigns pending tasks to available volunteers under
// capacity, refrigeration, and proximity constraints, and replaces each
// volunteer's route wholesale with the resulting ordered plan.
type OptimizerStage struct {
	Facade    ports.Facade
	Optimizer ports.RouteOptimizer
	Log       logrus.FieldLogger
}

func (s *OptimizerStage) Name() string { return "optimizer" }

func (s *OptimizerStage) Execute(ctx context.Context) error {
	tasks, err := s.Facade.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("optimizer: list pending tasks: %w", err)
	}

	volunteers, err := s.Facade.GetAvailableVolunteers(ctx)
	if err != nil {
		return fmt.Errorf("optimizer: list available volunteers: %w", err)
	}

	for _, vol := range volunteers {
		if !vol.Available {
			continue
		}

		suitable := SuitableTasks(vol, tasks)
		if len(suitable) == 0 {
			continue
		}

		route := s.buildRoute(ctx, vol, suitable)

		if err := s.Facade.AssignRoute(ctx, vol.ID, route); err != nil {
			return fmt.Errorf("optimizer: assign route to volunteer %s: %w", vol.ID, err)
		}

		s.Log.WithField("volunteer_id", vol.ID).
			WithField("stops", len(route.Tasks)).
			WithField("distance_km", route.TotalDistanceKm).
			Debug("route assigned")
	}

	return nil
}

// SuitableTasks filters tasks to those feasible for the volunteer:
// weight within vehicle capacity, refrigeration satisfiable, and pickup
// within range. The result keeps input order and is capped at the stop
// ceiling without re-sorting.
func SuitableTasks(vol *domain.Volunteer, tasks []*domain.Task) []*domain.Task {
	if vol.Coords == nil {
		return nil
	}

	var suitable []*domain.Task
	for _, t := range tasks {
		weight := t.EstWeightKg
		if weight == 0 {
			weight = defaultTaskWeightKg
		}
		if weight > vol.VehicleCapacityKg {
			continue
		}

		if t.RequiresRefrig && !vol.Refrigeration {
			continue
		}

		if t.PickupCoords == nil {
			continue
		}
		dist := geo.DistanceKm(vol.Coords.Lat, vol.Coords.Lon, t.PickupCoords.Lat, t.PickupCoords.Lon)
		if dist > volunteerRadiusKm {
			continue
		}

		suitable = append(suitable, t)
		if len(suitable) == maxStopsPerRoute {
			break
		}
	}

	return suitable
}

// buildRoute orders the tasks via the external optimizer when one is
// configured, falling back to filter order, then computes aggregate
// metrics by summing consecutive legs.
func (s *OptimizerStage) buildRoute(ctx context.Context, vol *domain.Volunteer, tasks []*domain.Task) *domain.Route {
	ordered := tasks
	if s.Optimizer != nil {
		result, err := s.Optimizer.OptimizeRoute(ctx, *vol.Coords, tasks)
		if err != nil {
			s.Log.WithError(err).WithField("volunteer_id", vol.ID).Warn("route optimizer unavailable, keeping filter order")
		} else if len(result) == len(tasks) {
			ordered = result
		}
	}

	totalDistance := 0.0
	totalDuration := 0.0

	prev := *vol.Coords
	for _, t := range ordered {
		dist := geo.DistanceKm(prev.Lat, prev.Lon, t.PickupCoords.Lat, t.PickupCoords.Lon)
		totalDistance += dist
		totalDuration += dist*minutesPerKm + minutesPerStop

		if t.DeliveryCoords != nil {
			prev = *t.DeliveryCoords
		} else {
			prev = *t.PickupCoords
		}
	}

	return &domain.Route{
		VolunteerID:     vol.ID,
		Tasks:           ordered,
		TotalDistanceKm: totalDistance,
		EstDurationMin:  totalDuration,
		Status:          domain.RoutePlanned,
	}
}
