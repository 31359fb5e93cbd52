package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"food-dispatch-service/internal/domain"
)

const (
	volunteerTable = "volunteers"
	routeTable     = "routes"
)

var volunteerColumns = []string{
	"id", "name", "lon", "lat", "vehicle_capacity_kg",
	"refrigeration", "available",
}

type volunteerRow struct {
	ID                string   `db:"id"`
	Name              string   `db:"name"`
	Lon               *float64 `db:"lon"`
	Lat               *float64 `db:"lat"`
	VehicleCapacityKg float64  `db:"vehicle_capacity_kg"`
	Refrigeration     bool     `db:"refrigeration"`
	Available         bool     `db:"available"`
}

func (r volunteerRow) toDomain() *domain.Volunteer {
	v := &domain.Volunteer{
		ID:                r.ID,
		Name:              r.Name,
		VehicleCapacityKg: r.VehicleCapacityKg,
		Refrigeration:     r.Refrigeration,
		Available:         r.Available,
	}
	if r.Lon != nil && r.Lat != nil {
		v.Coords = &domain.Coordinates{Lon: *r.Lon, Lat: *r.Lat}
	}
	return v
}

func (s *Store) GetAvailableVolunteers(ctx context.Context) ([]*domain.Volunteer, error) {
	query, args, err := psql().
		Select(volunteerColumns...).
		From(volunteerTable).
		Where(sq.Eq{"available": true}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate volunteers query: %w", err)
	}

	var rows []volunteerRow
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query available volunteers: %w", err)
	}

	out := make([]*domain.Volunteer, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// CreateVolunteer registers a routing resource with a fresh id.
func (s *Store) CreateVolunteer(ctx context.Context, v *domain.Volunteer) (*domain.Volunteer, error) {
	if v == nil {
		return nil, fmt.Errorf("create volunteer: nil record")
	}

	vc := *v
	if vc.ID == "" {
		id, err := newID("vol")
		if err != nil {
			return nil, fmt.Errorf("create volunteer: generate id: %w", err)
		}
		vc.ID = id
	}

	m := map[string]interface{}{
		"id":                  vc.ID,
		"name":                vc.Name,
		"lon":                 nil,
		"lat":                 nil,
		"vehicle_capacity_kg": vc.VehicleCapacityKg,
		"refrigeration":       vc.Refrigeration,
		"available":           vc.Available,
	}
	if vc.Coords != nil {
		m["lon"] = vc.Coords.Lon
		m["lat"] = vc.Coords.Lat
	}

	query, args, err := psql().Insert(volunteerTable).SetMap(m).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate volunteer insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create volunteer: %w", err)
	}
	return &vc, nil
}

// AssignRoute replaces the volunteer's route wholesale and marks the
// member tasks assigned, all in one transaction.
func (s *Store) AssignRoute(ctx context.Context, volunteerID string, route *domain.Route) error {
	if route == nil {
		return fmt.Errorf("assign route to %s: nil route", volunteerID)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("assign route to %s: begin tx: %w", volunteerID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	delQuery, delArgs, err := psql().
		Delete(routeTable).
		Where(sq.Eq{"volunteer_id": volunteerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate route delete for %s: %w", volunteerID, err)
	}
	if _, err := tx.Exec(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("failed to clear route for %s: %w", volunteerID, err)
	}

	insQuery, insArgs, err := psql().
		Insert(routeTable).
		SetMap(map[string]interface{}{
			"volunteer_id":      volunteerID,
			"total_distance_km": route.TotalDistanceKm,
			"est_duration_min":  route.EstDurationMin,
			"status":            string(route.Status),
			"created_at":        s.now(),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate route insert for %s: %w", volunteerID, err)
	}
	if _, err := tx.Exec(ctx, insQuery, insArgs...); err != nil {
		return fmt.Errorf("failed to insert route for %s: %w", volunteerID, err)
	}

	for i, t := range route.Tasks {
		updQuery, updArgs, err := psql().
			Update(taskTable).
			Set("status", string(domain.TaskAssigned)).
			Set("assignee_id", volunteerID).
			Set("route_position", i).
			Where(sq.Eq{"id": t.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to generate task assignment for %s: %w", t.ID, err)
		}
		if _, err := tx.Exec(ctx, updQuery, updArgs...); err != nil {
			return fmt.Errorf("failed to assign task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("assign route to %s: commit tx: %w", volunteerID, err)
	}
	return nil
}
