package ports

import (
	"context"

	"food-dispatch-service/internal/domain"
)

// Contract for resolving a postal address to coordinates.
// A nil result with nil error means the address could not be resolved;
// callers treat the record as excluded from distance-based steps, not
// as an error.
type Geocoder interface {
	GeocodeAddress(ctx context.Context, address string) (*domain.Coordinates, error)
}
