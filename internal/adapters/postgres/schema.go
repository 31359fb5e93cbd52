package postgres

import (
	"context"
	"fmt"
)

// InitSchema creates the service's tables when they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	createDonationsQuery := `
	CREATE TABLE IF NOT EXISTS donations (
		id TEXT PRIMARY KEY,
		donor_id TEXT NOT NULL,
		category TEXT NOT NULL,
		qty DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT '',
		perishability TEXT NOT NULL DEFAULT 'low',
		address TEXT NOT NULL DEFAULT '',
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION,
		est_weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		requires_refrig BOOLEAN NOT NULL DEFAULT FALSE,
		pickup_window_end TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'available',
		claimed_by TEXT NOT NULL DEFAULT '',
		urgency_score INTEGER NOT NULL DEFAULT 0,
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	createRequestsQuery := `
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'any',
		special_needs TEXT[] NOT NULL DEFAULT '{}',
		household_size INTEGER NOT NULL DEFAULT 1,
		address TEXT NOT NULL DEFAULT '',
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION,
		status TEXT NOT NULL DEFAULT 'open',
		urgency_score INTEGER NOT NULL DEFAULT 0,
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	createTasksQuery := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		donation_id TEXT NOT NULL DEFAULT '',
		request_id TEXT NOT NULL DEFAULT '',
		assignee_id TEXT,
		pickup_lon DOUBLE PRECISION,
		pickup_lat DOUBLE PRECISION,
		delivery_lon DOUBLE PRECISION,
		delivery_lat DOUBLE PRECISION,
		est_weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		requires_refrig BOOLEAN NOT NULL DEFAULT FALSE,
		urgency_score INTEGER NOT NULL DEFAULT 0,
		priority TEXT NOT NULL DEFAULT 'normal',
		status TEXT NOT NULL DEFAULT 'pending',
		est_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT '',
		route_position INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	createVolunteersQuery := `
	CREATE TABLE IF NOT EXISTS volunteers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION,
		vehicle_capacity_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		refrigeration BOOLEAN NOT NULL DEFAULT FALSE,
		available BOOLEAN NOT NULL DEFAULT TRUE
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		volunteer_id TEXT PRIMARY KEY,
		total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		est_duration_min DOUBLE PRECISION NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'planned',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_tasks_status_urgency
	ON tasks(status, urgency_score DESC);
	`

	statements := []string{
		createDonationsQuery,
		createRequestsQuery,
		createTasksQuery,
		createVolunteersQuery,
		createRoutesQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	return nil
}
