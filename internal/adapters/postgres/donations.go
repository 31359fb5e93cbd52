package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"food-dispatch-service/internal/domain"
)

const donationTable = "donations"

var donationColumns = []string{
	"id", "donor_id", "category", "qty", "unit", "perishability",
	"address", "lon", "lat", "est_weight_kg", "requires_refrig",
	"pickup_window_end", "status", "claimed_by", "urgency_score", "created_at",
}

type donationRow struct {
	ID              string    `db:"id"`
	DonorID         string    `db:"donor_id"`
	Category        string    `db:"category"`
	Qty             float64   `db:"qty"`
	Unit            string    `db:"unit"`
	Perishability   string    `db:"perishability"`
	Address         string    `db:"address"`
	Lon             *float64  `db:"lon"`
	Lat             *float64  `db:"lat"`
	EstWeightKg     float64   `db:"est_weight_kg"`
	RequiresRefrig  bool      `db:"requires_refrig"`
	PickupWindowEnd time.Time `db:"pickup_window_end"`
	Status          string    `db:"status"`
	ClaimedBy       string    `db:"claimed_by"`
	UrgencyScore    int       `db:"urgency_score"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r donationRow) toDomain() *domain.Donation {
	d := &domain.Donation{
		ID:              r.ID,
		DonorID:         r.DonorID,
		Category:        r.Category,
		Qty:             r.Qty,
		Unit:            r.Unit,
		Perishability:   domain.Perishability(r.Perishability),
		Address:         r.Address,
		EstWeightKg:     r.EstWeightKg,
		RequiresRefrig:  r.RequiresRefrig,
		PickupWindowEnd: r.PickupWindowEnd,
		Status:          domain.DonationStatus(r.Status),
		ClaimedBy:       r.ClaimedBy,
		UrgencyScore:    r.UrgencyScore,
		CreatedAt:       r.CreatedAt,
	}
	if r.Lon != nil && r.Lat != nil {
		d.Coords = &domain.Coordinates{Lon: *r.Lon, Lat: *r.Lat}
	}
	return d
}

func donationMap(d *domain.Donation) map[string]interface{} {
	m := map[string]interface{}{
		"donor_id":          d.DonorID,
		"category":          d.Category,
		"qty":               d.Qty,
		"unit":              d.Unit,
		"perishability":     string(d.Perishability),
		"address":           d.Address,
		"lon":               nil,
		"lat":               nil,
		"est_weight_kg":     d.EstWeightKg,
		"requires_refrig":   d.RequiresRefrig,
		"pickup_window_end": d.PickupWindowEnd,
		"status":            string(d.Status),
		"claimed_by":        d.ClaimedBy,
		"urgency_score":     d.UrgencyScore,
	}
	if d.Coords != nil {
		m["lon"] = d.Coords.Lon
		m["lat"] = d.Coords.Lat
	}
	return m
}

// GetNewDonations claims unprocessed available donations for intake.
// The UPDATE ... RETURNING makes the claim atomic across concurrent
// readers.
func (s *Store) GetNewDonations(ctx context.Context) ([]*domain.Donation, error) {
	query, args, err := psql().
		Update(donationTable).
		Set("processed_at", s.now()).
		Where(sq.Eq{"status": string(domain.DonationAvailable)}).
		Where("processed_at IS NULL").
		Suffix("RETURNING " + columnList(donationColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate new donations query: %w", err)
	}

	var rows []donationRow
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to claim new donations: %w", err)
	}
	return donationsToDomain(rows), nil
}

func (s *Store) GetOpenDonations(ctx context.Context) ([]*domain.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTable).
		Where(sq.Eq{"status": string(domain.DonationAvailable)}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate open donations query: %w", err)
	}

	var rows []donationRow
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query open donations: %w", err)
	}
	return donationsToDomain(rows), nil
}

func (s *Store) UpdateDonation(ctx context.Context, id string, d *domain.Donation) error {
	if d == nil {
		return fmt.Errorf("update donation %s: nil record", id)
	}

	query, args, err := psql().
		Update(donationTable).
		SetMap(donationMap(d)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate donation update for %s: %w", id, err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update donation %s: %w", id, err)
	}
	return nil
}

// CreateDonation inserts a donor submission with a fresh id.
func (s *Store) CreateDonation(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	if d == nil {
		return nil, fmt.Errorf("create donation: nil record")
	}

	dc := *d
	if dc.ID == "" {
		id, err := newID("don")
		if err != nil {
			return nil, fmt.Errorf("create donation: generate id: %w", err)
		}
		dc.ID = id
	}
	if dc.CreatedAt.IsZero() {
		dc.CreatedAt = s.now()
	}
	if dc.Status == "" {
		dc.Status = domain.DonationAvailable
	}

	m := donationMap(&dc)
	m["id"] = dc.ID
	m["created_at"] = dc.CreatedAt

	query, args, err := psql().Insert(donationTable).SetMap(m).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}
	return &dc, nil
}

func donationsToDomain(rows []donationRow) []*domain.Donation {
	out := make([]*domain.Donation, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
