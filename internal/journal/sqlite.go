package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLiteJournal stores confirmations in a local SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal wraps an open database and creates the table if needed.
func NewSQLiteJournal(ctx context.Context, db *sql.DB) (*SQLiteJournal, error) {
	const q = `
	CREATE TABLE IF NOT EXISTS confirmations (
		id             TEXT    PRIMARY KEY,
		code           TEXT    NOT NULL UNIQUE,
		kind           TEXT    NOT NULL,
		account_number TEXT    NOT NULL,
		sequence_id    INTEGER NOT NULL UNIQUE,
		amount         TEXT    NOT NULL,
		balance        TEXT    NOT NULL,
		created_at     TEXT    NOT NULL
	);`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return nil, fmt.Errorf("create confirmations table: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// Append inserts an entry.
func (j *SQLiteJournal) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO confirmations(id, code, kind, account_number, sequence_id, amount, balance, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Code, entry.Kind, entry.AccountNumber, entry.SequenceID,
		entry.Amount.String(), entry.Balance.String(), entry.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("insert confirmation: %w", err)
	}
	return nil
}

// LastSequenceID returns MAX(sequence_id), or 0 for an empty table.
func (j *SQLiteJournal) LastSequenceID(ctx context.Context) (int64, error) {
	var last int64
	if err := j.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sequence_id), 0) FROM confirmations`).Scan(&last); err != nil {
		return 0, fmt.Errorf("select last sequence id: %w", err)
	}
	return last, nil
}

const sqliteColumns = `SELECT id, code, kind, account_number, sequence_id, amount, balance, created_at FROM confirmations`

// ByAccount lists an account's entries in sequence order.
func (j *SQLiteJournal) ByAccount(ctx context.Context, accountNumber string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, sqliteColumns+` WHERE account_number = ? ORDER BY sequence_id`, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("query confirmations: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		entry, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ByCode fetches a single entry.
func (j *SQLiteJournal) ByCode(ctx context.Context, code string) (Entry, error) {
	entry, err := scanSQLite(j.db.QueryRowContext(ctx, sqliteColumns+` WHERE code = ?`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (Entry, error) {
	var e Entry
	var amount, balance, created string
	if err := row.Scan(&e.ID, &e.Code, &e.Kind, &e.AccountNumber, &e.SequenceID, &amount, &balance, &created); err != nil {
		return Entry{}, err
	}
	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return Entry{}, fmt.Errorf("parse amount: %w", err)
	}
	if e.Balance, err = decimal.NewFromString(balance); err != nil {
		return Entry{}, fmt.Errorf("parse balance: %w", err)
	}
	if e.At, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Entry{}, fmt.Errorf("parse created_at: %w", err)
	}
	return e, nil
}
