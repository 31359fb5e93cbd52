package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"food-dispatch-service/internal/domain"
)

func (s *Store) GetDonations(ctx context.Context, status string) ([]*domain.Donation, error) {
	builder := psql().
		Select(donationColumns...).
		From(donationTable).
		OrderBy("created_at DESC")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	var rows []donationRow
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	return donationsToDomain(rows), nil
}

// ClaimDonation transitions an available donation to claimed. The
// status predicate in the UPDATE makes concurrent claims race safely:
// exactly one wins, the rest see ErrDonationUnavailable.
func (s *Store) ClaimDonation(ctx context.Context, donationID, recipientID string) (*domain.Donation, error) {
	query, args, err := psql().
		Update(donationTable).
		Set("status", string(domain.DonationClaimed)).
		Set("claimed_by", recipientID).
		Where(sq.Eq{
			"id":     donationID,
			"status": string(domain.DonationAvailable),
		}).
		Suffix("RETURNING " + columnList(donationColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim update for %s: %w", donationID, err)
	}

	var row donationRow
	err = pgxscan.Get(ctx, s.pool, &row, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to claim donation %s: %w", donationID, err)
	}
	if err == nil {
		return row.toDomain(), nil
	}

	// The claim missed; distinguish a vanished donation from one
	// already taken.
	existsQuery, existsArgs, err := psql().
		Select("id").
		From(donationTable).
		Where(sq.Eq{"id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim lookup for %s: %w", donationID, err)
	}

	var id struct {
		ID string `db:"id"`
	}
	err = pgxscan.Get(ctx, s.pool, &id, existsQuery, existsArgs...)
	if pgxscan.NotFound(err) {
		return nil, domain.ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up donation %s: %w", donationID, err)
	}
	return nil, domain.ErrDonationUnavailable
}
