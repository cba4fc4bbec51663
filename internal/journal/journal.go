package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEntryNotFound occurs when no entry carries the requested code.
	ErrEntryNotFound = errors.New("journal entry not found")

	// ErrDuplicateEntry indicates the confirmation code or sequence id was
	// already recorded.
	ErrDuplicateEntry = errors.New("duplicate journal entry")
)

// Entry records one issued confirmation code.
type Entry struct {
	ID            string
	Code          string
	Kind          string
	AccountNumber string
	SequenceID    int64
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	At            time.Time
}

// Journal is the append-only audit trail of confirmations. Accounts are never
// rebuilt from it.
type Journal interface {
	Append(ctx context.Context, entry Entry) error
	ByAccount(ctx context.Context, accountNumber string) ([]Entry, error)
	ByCode(ctx context.Context, code string) (Entry, error)
	// LastSequenceID returns the highest recorded sequence id, or 0 when empty.
	LastSequenceID(ctx context.Context) (int64, error)
}

// NextSeed returns the first sequence id that cannot collide with j: seed, or
// one past the highest id already recorded, whichever is larger.
func NextSeed(ctx context.Context, j Journal, seed int64) (int64, error) {
	last, err := j.LastSequenceID(ctx)
	if err != nil {
		return 0, fmt.Errorf("read last sequence id: %w", err)
	}
	if last >= seed {
		return last + 1, nil
	}
	return seed, nil
}
