// Package optimize provides route ordering strategies for volunteer
// task lists.
package optimize

import (
	"context"
	"errors"
	"math"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/geo"
)

// NearestNeighbor orders tasks with a greedy nearest-neighbor walk
// over haversine distance, starting at the volunteer's position.
//
// The algorithm minimizes immediate travel distance at each step. It
// does not attempt global route optimization (e.g., VRP solvers). The
// design prioritizes determinism and simplicity over optimality.
type NearestNeighbor struct{}

func (NearestNeighbor) OptimizeRoute(
	ctx context.Context,
	start domain.Coordinates,
	tasks []*domain.Task,
) ([]*domain.Task, error) {
	if len(tasks) == 0 {
		return []*domain.Task{}, nil
	}

	remaining := make([]*domain.Task, len(tasks))
	copy(remaining, tasks)

	current := start
	ordered := make([]*domain.Task, 0, len(tasks))

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bestIdx := -1
		minDistance := math.MaxFloat64

		// Select next stop by minimum travel distance (greedy step.)
		for i, t := range remaining {
			stop := taskStop(t)
			if stop == nil {
				continue
			}
			d := geo.DistanceKm(current.Lat, current.Lon, stop.Lat, stop.Lon)
			// Tie-breaker on task id ensures deterministic ordering
			// when distances are equal.
			if d < minDistance || (d == minDistance && bestIdx >= 0 && t.ID < remaining[bestIdx].ID) {
				minDistance = d
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			// Remaining tasks carry no coordinates; keep input order.
			ordered = append(ordered, remaining...)
			break
		}

		best := remaining[bestIdx]
		if stop := taskStop(best); stop != nil {
			current = *stop
		}

		ordered = append(ordered, best)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	if len(ordered) != len(tasks) {
		return nil, errors.New("optimize route: stop count mismatch")
	}

	return ordered, nil
}

// taskStop picks the coordinate that represents the task's first leg.
func taskStop(t *domain.Task) *domain.Coordinates {
	if t.PickupCoords != nil {
		return t.PickupCoords
	}
	return t.DeliveryCoords
}
