package geocode

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"food-dispatch-service/internal/domain"
)

const geocodeCacheTable = "geocode_cache"

// PgCache is a Postgres-backed cache mapping normalized addresses to
// coordinates.
type PgCache struct {
	pool *pgxpool.Pool
}

func NewPgCache(pool *pgxpool.Pool) *PgCache {
	return &PgCache{pool: pool}
}

func (c *PgCache) Get(ctx context.Context, address string) (*domain.Coordinates, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("lon", "lat").
		From(geocodeCacheTable).
		Where(sq.Eq{"address": address}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate geocode cache query: %w", err)
	}

	var row struct {
		Lon float64 `db:"lon"`
		Lat float64 `db:"lat"`
	}
	err = pgxscan.Get(ctx, c.pool, &row, query, args...)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query geocode cache: %w", err)
	}

	return &domain.Coordinates{Lon: row.Lon, Lat: row.Lat}, nil
}

func (c *PgCache) Put(ctx context.Context, address string, coords domain.Coordinates) error {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(geocodeCacheTable).
		Columns("address", "lon", "lat").
		Values(address, coords.Lon, coords.Lat).
		Suffix("ON CONFLICT (address) DO UPDATE SET lon = EXCLUDED.lon, lat = EXCLUDED.lat").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate geocode cache insert: %w", err)
	}

	if _, err := c.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	return nil
}
