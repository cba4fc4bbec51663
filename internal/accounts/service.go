package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/account_ledger/internal/bank"
	"github.com/congo-pay/account_ledger/internal/confirmation"
	"github.com/congo-pay/account_ledger/internal/journal"
	"github.com/congo-pay/account_ledger/internal/notification"
	"github.com/congo-pay/account_ledger/internal/tz"
)

// Service exposes account operations, records every confirmation in the
// journal and serializes work per account.
type Service struct {
	bank     *bank.Bank
	repo     Repository
	journal  journal.Journal
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds an account service. notifier may be nil.
func NewService(b *bank.Bank, repo Repository, j journal.Journal, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{bank: b, repo: repo, journal: j, notifier: notifier, logger: logger}
}

// Open creates and registers an account.
func (s *Service) Open(ctx context.Context, input bank.OpenInput) (View, error) {
	account, err := s.bank.Open(input)
	if err != nil {
		return View{}, err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return View{}, err
	}
	s.logger.InfoContext(ctx, "account opened",
		slog.String("account_number", account.Number()),
		slog.String("timezone", account.TimeZone().Name()),
		slog.String("balance", account.Balance().String()),
	)
	return viewOf(account), nil
}

// Get returns a snapshot of the account.
func (s *Service) Get(ctx context.Context, number string) (View, error) {
	var v View
	err := s.repo.With(ctx, number, func(a *bank.Account) error {
		v = viewOf(a)
		return nil
	})
	return v, err
}

// Numbers lists the open account numbers.
func (s *Service) Numbers(ctx context.Context) ([]string, error) {
	return s.repo.Numbers(ctx)
}

// Update changes names and time zone. Either every requested change is
// applied or none is.
func (s *Service) Update(ctx context.Context, number string, input UpdateInput) (View, error) {
	var v View
	err := s.repo.With(ctx, number, func(a *bank.Account) error {
		first, last := a.FirstName(), a.LastName()
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		if err := a.SetNames(first, last); err != nil {
			return err
		}
		if input.TimeZone != nil {
			a.SetTimeZone(*input.TimeZone)
		}
		v = viewOf(a)
		return nil
	})
	return v, err
}

// Deposit credits the account.
func (s *Service) Deposit(ctx context.Context, number string, amount decimal.Decimal) (bank.Confirmation, error) {
	return s.operate(ctx, number, func(a *bank.Account) (bank.Confirmation, error) {
		return a.Deposit(ctx, amount)
	})
}

// Withdraw debits the account. Insufficient funds yield a rejected
// confirmation, not an error.
func (s *Service) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (bank.Confirmation, error) {
	return s.operate(ctx, number, func(a *bank.Account) (bank.Confirmation, error) {
		return a.Withdraw(ctx, amount)
	})
}

// PayInterest credits interest at the bank's current rate.
func (s *Service) PayInterest(ctx context.Context, number string) (bank.Confirmation, error) {
	return s.operate(ctx, number, func(a *bank.Account) (bank.Confirmation, error) {
		return a.PayInterest(ctx)
	})
}

func (s *Service) operate(ctx context.Context, number string, op func(*bank.Account) (bank.Confirmation, error)) (bank.Confirmation, error) {
	var conf bank.Confirmation
	err := s.repo.With(ctx, number, func(a *bank.Account) error {
		var err error
		conf, err = op(a)
		return err
	})
	if err != nil {
		return bank.Confirmation{}, err
	}

	s.logger.InfoContext(ctx, "confirmation issued",
		slog.String("account_number", number),
		slog.String("code", conf.Code),
		slog.String("kind", conf.Kind),
		slog.String("amount", conf.Amount.String()),
		slog.String("balance", conf.Balance.String()),
	)

	// The balance has already moved; a journal failure is logged, not returned.
	if err := s.journal.Append(ctx, journal.Entry{
		Code:          conf.Code,
		Kind:          conf.Kind,
		AccountNumber: number,
		SequenceID:    conf.SequenceID,
		Amount:        conf.Amount,
		Balance:       conf.Balance,
		At:            conf.At,
	}); err != nil {
		s.logger.ErrorContext(ctx, "journal append failed", slog.String("code", conf.Code), slog.Any("error", err))
	}

	s.notify(ctx, number, conf)
	return conf, nil
}

func (s *Service) notify(ctx context.Context, number string, conf bank.Confirmation) {
	if s.notifier == nil {
		return
	}
	var msg notification.Message
	switch conf.Kind {
	case confirmation.KindRejected:
		msg = notification.Message{
			Kind: notification.KindWithdrawalRejected,
			Body: fmt.Sprintf("Withdrawal of %s declined: balance is %s", conf.Amount, conf.Balance),
		}
	case confirmation.KindInterest:
		msg = notification.Message{
			Kind: notification.KindInterestPaid,
			Body: fmt.Sprintf("Interest of %s credited", conf.Amount),
		}
	default:
		return
	}
	msg.AccountNumber = number
	msg.Code = conf.Code
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "notification failed", slog.String("code", conf.Code), slog.Any("error", err))
	}
}

// InterestRate returns the bank-wide rate.
func (s *Service) InterestRate() decimal.Decimal {
	return s.bank.InterestRate()
}

// SetInterestRate replaces the bank-wide rate.
func (s *Service) SetInterestRate(ctx context.Context, rate decimal.Decimal) error {
	prev := s.bank.InterestRate()
	if err := s.bank.SetInterestRate(rate); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "interest rate changed", slog.String("from", prev.String()), slog.String("to", rate.String()))
	return nil
}

// Decoded pairs a decoded code with its journal entry when one exists.
type Decoded struct {
	Record  confirmation.Record
	Zone    tz.FixedOffset
	Entry   journal.Entry
	Journal bool
}

// Decode parses a code and shows its time in offset. The code does not need to
// have been issued by this process.
func (s *Service) Decode(ctx context.Context, code string, offset tz.FixedOffset) (Decoded, error) {
	rec, err := confirmation.DecodeIn(code, offset)
	if err != nil {
		return Decoded{}, err
	}
	out := Decoded{Record: rec, Zone: offset}
	entry, err := s.journal.ByCode(ctx, code)
	switch {
	case err == nil:
		out.Entry = entry
		out.Journal = true
	case errors.Is(err, journal.ErrEntryNotFound):
	default:
		return Decoded{}, err
	}
	return out, nil
}

// DecodeForAccount decodes a code in the time zone of the account it names.
func (s *Service) DecodeForAccount(ctx context.Context, code string) (Decoded, error) {
	rec, err := confirmation.Decode(code)
	if err != nil {
		return Decoded{}, err
	}
	view, err := s.Get(ctx, rec.AccountNumber)
	if err != nil {
		return Decoded{}, err
	}
	return s.Decode(ctx, code, view.TimeZone)
}

// History lists the confirmations recorded for an account.
func (s *Service) History(ctx context.Context, number string) ([]journal.Entry, error) {
	if _, err := s.Get(ctx, number); err != nil {
		return nil, err
	}
	return s.journal.ByAccount(ctx, number)
}
