package ports

import (
	"context"

	"food-dispatch-service/internal/domain"
)

// Optional external route-ordering capability. Implementations return
// the input tasks in improved visiting order. Callers must fall back
// to input order when the optimizer is absent or fails.
type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, start domain.Coordinates, tasks []*domain.Task) ([]*domain.Task, error)
}
