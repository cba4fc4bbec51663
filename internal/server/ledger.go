package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/congo-pay/account_ledger/internal/accounts"
	"github.com/congo-pay/account_ledger/internal/bank"
	"github.com/congo-pay/account_ledger/internal/config"
	"github.com/congo-pay/account_ledger/internal/journal"
	"github.com/congo-pay/account_ledger/internal/notification"
	"github.com/congo-pay/account_ledger/internal/sequence"
)

// NewLedger picks the sequence and journal backends from cfg and returns the
// account service. The journal prefers Postgres, then SQLite, then memory.
// The sequence starts past the highest id already journaled, so a restarted
// in-memory counter never reissues a recorded id.
func NewLedger(ctx context.Context, cfg config.Config, b Backends, logger *slog.Logger) (*accounts.Service, error) {
	j, err := newJournal(ctx, b)
	if err != nil {
		return nil, err
	}
	seed, err := journal.NextSeed(ctx, j, cfg.SequenceSeed)
	if err != nil {
		return nil, err
	}
	seq, err := newSequence(ctx, cfg, b, seed)
	if err != nil {
		return nil, err
	}

	ledger, err := bank.New(bank.Options{Sequence: seq, InterestRate: cfg.InterestRate})
	if err != nil {
		return nil, err
	}
	logger.Info("ledger ready",
		slog.String("sequence_backend", cfg.SequenceBackend),
		slog.Int64("sequence_seed", seed),
		slog.String("interest_rate", ledger.InterestRate().String()),
	)
	return accounts.NewService(ledger, accounts.NewMemoryRepository(), j, notification.NewLoggerNotifier(logger), logger), nil
}

func newSequence(ctx context.Context, cfg config.Config, b Backends, seed int64) (sequence.Source, error) {
	switch cfg.SequenceBackend {
	case config.SequenceRedis:
		if b.Cache == nil {
			return nil, fmt.Errorf("sequence backend %q requires redis", cfg.SequenceBackend)
		}
		return sequence.NewRedisSource(ctx, b.Cache, sequence.DefaultRedisKey, seed)
	case config.SequencePostgres:
		if b.DB == nil {
			return nil, fmt.Errorf("sequence backend %q requires postgres", cfg.SequenceBackend)
		}
		return sequence.NewPostgresSource(ctx, b.DB, sequence.DefaultPostgresSequence, seed)
	default:
		return sequence.NewCounter(seed), nil
	}
}

func newJournal(ctx context.Context, b Backends) (journal.Journal, error) {
	switch {
	case b.DB != nil:
		j := journal.NewPostgresJournal(b.DB)
		if err := j.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return j, nil
	case b.SQLite != nil:
		return journal.NewSQLiteJournal(ctx, b.SQLite)
	default:
		return journal.NewInMemory(), nil
	}
}
