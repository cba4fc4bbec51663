package sequence

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPostgresSequence is the sequence name used when none is configured.
const DefaultPostgresSequence = "confirmation_seq"

var sequenceName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresSource draws ids from a Postgres sequence.
type PostgresSource struct {
	db   *pgxpool.Pool
	name string
}

// NewPostgresSource creates the sequence if missing, starting at seed.
func NewPostgresSource(ctx context.Context, db *pgxpool.Pool, name string, seed int64) (*PostgresSource, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres pool is required")
	}
	if name == "" {
		name = DefaultPostgresSequence
	}
	if !sequenceName.MatchString(name) {
		return nil, fmt.Errorf("invalid sequence name %q", name)
	}
	ident := pgx.Identifier{name}.Sanitize()
	if _, err := db.Exec(ctx, fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS %s START WITH %d MINVALUE %d`, ident, seed, seed)); err != nil {
		return nil, fmt.Errorf("create sequence: %w", err)
	}
	return &PostgresSource{db: db, name: name}, nil
}

// Next calls nextval on the sequence.
func (s *PostgresSource) Next(ctx context.Context) (int64, error) {
	var id int64
	if err := s.db.QueryRow(ctx, `SELECT nextval($1::regclass)`, s.name).Scan(&id); err != nil {
		return 0, fmt.Errorf("postgres sequence next: %w", err)
	}
	return id, nil
}
