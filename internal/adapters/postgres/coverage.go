package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"
)

var (
	_ ports.Facade          = (*Store)(nil)
	_ ports.ListingStore    = (*Store)(nil)
	_ ports.SubmissionStore = (*Store)(nil)
)

// CheckCoverage reports open requests older than the SLA window.
func (s *Store) CheckCoverage(ctx context.Context) (*ports.CoverageReport, error) {
	cutoff := s.now().Add(-slaWindow)

	query, args, err := psql().
		Select("id", "created_at").
		From(requestTable).
		Where(sq.Eq{"status": string(domain.RequestOpen)}).
		Where(sq.Lt{"created_at": cutoff}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate coverage query: %w", err)
	}

	var rows []struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query coverage risks: %w", err)
	}

	now := s.now()
	report := &ports.CoverageReport{}
	for _, r := range rows {
		age := now.Sub(r.CreatedAt)
		report.SLARisks++
		report.Risks = append(report.Risks, ports.CoverageRisk{
			Type:         "request",
			ID:           r.ID,
			HoursOverdue: int(age.Hours()) - int(slaWindow.Hours()),
		})
	}
	return report, nil
}
