// Package bank holds account state and the balance operations that issue
// confirmation codes.
package bank

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/account_ledger/internal/sequence"
	"github.com/congo-pay/account_ledger/internal/tz"
)

// DefaultInterestRate is the yearly percentage applied by PayInterest.
var DefaultInterestRate = decimal.RequireFromString("0.5")

// Options configures a Bank. Zero fields fall back to defaults.
type Options struct {
	Sequence     sequence.Source
	Clock        func() time.Time
	InterestRate *decimal.Decimal
}

// Bank opens accounts and owns the state they share: the sequence source,
// the clock and the interest rate.
type Bank struct {
	seq   sequence.Source
	clock func() time.Time

	mu   sync.RWMutex
	rate decimal.Decimal
}

// New builds a Bank.
func New(opts Options) (*Bank, error) {
	b := &Bank{
		seq:   opts.Sequence,
		clock: opts.Clock,
		rate:  DefaultInterestRate,
	}
	if b.seq == nil {
		b.seq = sequence.NewCounter(sequence.DefaultSeed)
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	if opts.InterestRate != nil {
		if err := b.SetInterestRate(*opts.InterestRate); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// InterestRate returns the current rate as a percentage.
func (b *Bank) InterestRate() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rate
}

// SetInterestRate replaces the rate used by every account of this bank.
func (b *Bank) SetInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidRate, rate)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rate = rate
	return nil
}

// OpenInput captures the data needed to open an account.
type OpenInput struct {
	Number    string
	FirstName string
	LastName  string
	TimeZone  tz.FixedOffset
	Balance   decimal.Decimal
}

// Open validates the input and returns a new account bound to b.
func (b *Bank) Open(input OpenInput) (*Account, error) {
	number, err := validateNumber(input.Number)
	if err != nil {
		return nil, err
	}
	first, err := validateName("first name", input.FirstName)
	if err != nil {
		return nil, err
	}
	last, err := validateName("last name", input.LastName)
	if err != nil {
		return nil, err
	}
	if input.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance %s is negative", ErrInvalidAmount, input.Balance)
	}

	zone := input.TimeZone
	if zone.IsZero() {
		zone = tz.UTC()
	}

	return &Account{
		bank:      b,
		number:    number,
		firstName: first,
		lastName:  last,
		timezone:  zone,
		balance:   input.Balance,
	}, nil
}

func validateNumber(number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", fmt.Errorf("%w: account number cannot be empty", ErrInvalidAccountNumber)
	}
	if strings.ContainsAny(number, "- \t\r\n") {
		return "", fmt.Errorf("%w: %q must not contain dashes or spaces", ErrInvalidAccountNumber, number)
	}
	return number, nil
}

func validateName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalidName, field)
	}
	return value, nil
}
