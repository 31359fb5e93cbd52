// Package postgres implements the data access facade on PostgreSQL.
// It owns all transactional discipline the orchestration stages assume:
// new-record claiming is a single UPDATE ... RETURNING, route
// assignment runs in one transaction.
package postgres

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SLA window before an open request is reported as a coverage risk.
const slaWindow = 4 * time.Hour

type Store struct {
	pool *pgxpool.Pool

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func newID(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return prefix + "_" + id, nil
}

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}
