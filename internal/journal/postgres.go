package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

// PostgresJournal stores confirmations in PostgreSQL.
type PostgresJournal struct {
	db *pgxpool.Pool
}

// NewPostgresJournal constructs a Postgres-backed journal.
func NewPostgresJournal(db *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{db: db}
}

// EnsureSchema creates the confirmations table when missing.
func (j *PostgresJournal) EnsureSchema(ctx context.Context) error {
	_, err := j.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS confirmations (
            id             UUID PRIMARY KEY,
            code           TEXT NOT NULL UNIQUE,
            kind           TEXT NOT NULL,
            account_number TEXT NOT NULL,
            sequence_id    BIGINT NOT NULL UNIQUE,
            amount         NUMERIC NOT NULL,
            balance        NUMERIC NOT NULL,
            created_at     TIMESTAMPTZ NOT NULL
        );
        CREATE INDEX IF NOT EXISTS confirmations_account_idx ON confirmations (account_number, sequence_id);`)
	if err != nil {
		return fmt.Errorf("create confirmations table: %w", err)
	}
	return nil
}

// Append inserts an entry.
func (j *PostgresJournal) Append(ctx context.Context, entry Entry) error {
	id := uuid.New()
	if entry.ID != "" {
		parsed, err := uuid.Parse(entry.ID)
		if err != nil {
			return err
		}
		id = parsed
	}

	_, err := j.db.Exec(ctx, `INSERT INTO confirmations (id, code, kind, account_number, sequence_id, amount, balance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8)`,
		id, entry.Code, entry.Kind, entry.AccountNumber, entry.SequenceID, entry.Amount.String(), entry.Balance.String(), entry.At.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// LastSequenceID returns MAX(sequence_id), or 0 for an empty table.
func (j *PostgresJournal) LastSequenceID(ctx context.Context) (int64, error) {
	var last int64
	if err := j.db.QueryRow(ctx, `SELECT COALESCE(MAX(sequence_id), 0) FROM confirmations`).Scan(&last); err != nil {
		return 0, fmt.Errorf("select last sequence id: %w", err)
	}
	return last, nil
}

const selectColumns = `SELECT id, code, kind, account_number, sequence_id, amount::text, balance::text, created_at FROM confirmations`

// ByAccount lists an account's entries in sequence order.
func (j *PostgresJournal) ByAccount(ctx context.Context, accountNumber string) ([]Entry, error) {
	rows, err := j.db.Query(ctx, selectColumns+` WHERE account_number = $1 ORDER BY sequence_id`, accountNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ByCode fetches a single entry.
func (j *PostgresJournal) ByCode(ctx context.Context, code string) (Entry, error) {
	entry, err := scanEntry(j.db.QueryRow(ctx, selectColumns+` WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e         Entry
		id        uuid.UUID
		amount    string
		balance   string
		createdAt time.Time
	)
	if err := row.Scan(&id, &e.Code, &e.Kind, &e.AccountNumber, &e.SequenceID, &amount, &balance, &createdAt); err != nil {
		return Entry{}, err
	}
	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return Entry{}, fmt.Errorf("parse amount: %w", err)
	}
	if e.Balance, err = decimal.NewFromString(balance); err != nil {
		return Entry{}, fmt.Errorf("parse balance: %w", err)
	}
	e.ID = id.String()
	e.At = createdAt.UTC()
	return e, nil
}
