package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"food-dispatch-service/internal/domain"
)

const requestTable = "requests"

var requestColumns = []string{
	"id", "recipient_id", "category", "special_needs", "household_size",
	"address", "lon", "lat", "status", "urgency_score", "created_at",
}

type requestRow struct {
	ID            string    `db:"id"`
	RecipientID   string    `db:"recipient_id"`
	Category      string    `db:"category"`
	SpecialNeeds  []string  `db:"special_needs"`
	HouseholdSize int       `db:"household_size"`
	Address       string    `db:"address"`
	Lon           *float64  `db:"lon"`
	Lat           *float64  `db:"lat"`
	Status        string    `db:"status"`
	UrgencyScore  int       `db:"urgency_score"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r requestRow) toDomain() *domain.Request {
	req := &domain.Request{
		ID:            r.ID,
		RecipientID:   r.RecipientID,
		Category:      r.Category,
		SpecialNeeds:  r.SpecialNeeds,
		HouseholdSize: r.HouseholdSize,
		Address:       r.Address,
		Status:        domain.RequestStatus(r.Status),
		UrgencyScore:  r.UrgencyScore,
		CreatedAt:     r.CreatedAt,
	}
	if r.Lon != nil && r.Lat != nil {
		req.Coords = &domain.Coordinates{Lon: *r.Lon, Lat: *r.Lat}
	}
	return req
}

func requestMap(r *domain.Request) map[string]interface{} {
	m := map[string]interface{}{
		"recipient_id":   r.RecipientID,
		"category":       r.Category,
		"special_needs":  r.SpecialNeeds,
		"household_size": r.HouseholdSize,
		"address":        r.Address,
		"lon":            nil,
		"lat":            nil,
		"status":         string(r.Status),
		"urgency_score":  r.UrgencyScore,
	}
	if r.Coords != nil {
		m["lon"] = r.Coords.Lon
		m["lat"] = r.Coords.Lat
	}
	return m
}

// GetNewRequests claims unprocessed open requests for intake.
func (s *Store) GetNewRequests(ctx context.Context) ([]*domain.Request, error) {
	query, args, err := psql().
		Update(requestTable).
		Set("processed_at", s.now()).
		Where(sq.Eq{"status": string(domain.RequestOpen)}).
		Where("processed_at IS NULL").
		Suffix("RETURNING " + columnList(requestColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate new requests query: %w", err)
	}

	var rows []requestRow
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to claim new requests: %w", err)
	}
	return requestsToDomain(rows), nil
}

func (s *Store) GetOpenRequests(ctx context.Context) ([]*domain.Request, error) {
	query, args, err := psql().
		Select(requestColumns...).
		From(requestTable).
		Where(sq.Eq{"status": string(domain.RequestOpen)}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate open requests query: %w", err)
	}

	var rows []requestRow
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query open requests: %w", err)
	}
	return requestsToDomain(rows), nil
}

func (s *Store) UpdateRequest(ctx context.Context, id string, r *domain.Request) error {
	if r == nil {
		return fmt.Errorf("update request %s: nil record", id)
	}

	query, args, err := psql().
		Update(requestTable).
		SetMap(requestMap(r)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate request update for %s: %w", id, err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update request %s: %w", id, err)
	}
	return nil
}

// CreateRequest inserts a recipient need with a fresh id.
func (s *Store) CreateRequest(ctx context.Context, r *domain.Request) (*domain.Request, error) {
	if r == nil {
		return nil, fmt.Errorf("create request: nil record")
	}

	rc := *r
	if rc.ID == "" {
		id, err := newID("req")
		if err != nil {
			return nil, fmt.Errorf("create request: generate id: %w", err)
		}
		rc.ID = id
	}
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = s.now()
	}
	if rc.Status == "" {
		rc.Status = domain.RequestOpen
	}

	m := requestMap(&rc)
	m["id"] = rc.ID
	m["created_at"] = rc.CreatedAt

	query, args, err := psql().Insert(requestTable).SetMap(m).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return &rc, nil
}

func requestsToDomain(rows []requestRow) []*domain.Request {
	out := make([]*domain.Request, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
