package bank

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/account_ledger/internal/confirmation"
	"github.com/congo-pay/account_ledger/internal/tz"
)

// MinimumAmount is the smallest amount accepted by Deposit and Withdraw.
var MinimumAmount = decimal.New(1, -2)

// Account is a single ledger account. It is not safe for concurrent use;
// callers serialize access per account.
type Account struct {
	bank      *Bank
	number    string
	firstName string
	lastName  string
	timezone  tz.FixedOffset
	balance   decimal.Decimal
}

// Confirmation is the outcome of a balance operation.
type Confirmation struct {
	Code       string
	Kind       string
	SequenceID int64
	At         time.Time
	Amount     decimal.Decimal
	Balance    decimal.Decimal
}

// Rejected reports whether a withdrawal was refused for insufficient funds.
func (c Confirmation) Rejected() bool {
	return c.Kind == confirmation.KindRejected
}

// Number returns the caller-assigned account number.
func (a *Account) Number() string { return a.number }

func (a *Account) FirstName() string { return a.firstName }

func (a *Account) LastName() string { return a.lastName }

// FullName joins the first and last name.
func (a *Account) FullName() string { return a.firstName + " " + a.lastName }

func (a *Account) TimeZone() tz.FixedOffset { return a.timezone }

func (a *Account) Balance() decimal.Decimal { return a.balance }

// SetFirstName replaces the first name; an invalid name leaves it unchanged.
func (a *Account) SetFirstName(name string) error {
	v, err := validateName("first name", name)
	if err != nil {
		return err
	}
	a.firstName = v
	return nil
}

// SetLastName replaces the last name; an invalid name leaves it unchanged.
func (a *Account) SetLastName(name string) error {
	v, err := validateName("last name", name)
	if err != nil {
		return err
	}
	a.lastName = v
	return nil
}

// SetNames replaces both names. Both are validated before either changes.
func (a *Account) SetNames(first, last string) error {
	f, err := validateName("first name", first)
	if err != nil {
		return err
	}
	l, err := validateName("last name", last)
	if err != nil {
		return err
	}
	a.firstName, a.lastName = f, l
	return nil
}

// SetTimeZone replaces the display offset. The zero value resets it to UTC.
func (a *Account) SetTimeZone(zone tz.FixedOffset) {
	if zone.IsZero() {
		zone = tz.UTC()
	}
	a.timezone = zone
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(ctx context.Context, amount decimal.Decimal) (Confirmation, error) {
	if err := validateAmount(amount); err != nil {
		return Confirmation{}, err
	}
	return a.apply(ctx, confirmation.KindDeposit, amount, a.balance.Add(amount))
}

// Withdraw removes amount from the balance. A withdrawal that would overdraw
// the account is not an error: the balance is left alone and the returned
// confirmation carries the rejected kind.
func (a *Account) Withdraw(ctx context.Context, amount decimal.Decimal) (Confirmation, error) {
	if err := validateAmount(amount); err != nil {
		return Confirmation{}, err
	}
	next := a.balance.Sub(amount)
	if next.IsNegative() {
		return a.apply(ctx, confirmation.KindRejected, amount, a.balance)
	}
	return a.apply(ctx, confirmation.KindWithdraw, amount, next)
}

// PayInterest credits balance * rate / 100 at the bank's current rate. The
// percentage is a decimal shift, so the result is exact at any precision.
func (a *Account) PayInterest(ctx context.Context) (Confirmation, error) {
	interest := a.balance.Mul(a.bank.InterestRate()).Shift(-2)
	return a.apply(ctx, confirmation.KindInterest, interest, a.balance.Add(interest))
}

// apply issues the code before touching the balance so a failure leaves the
// account as it was.
func (a *Account) apply(ctx context.Context, kind string, amount, balance decimal.Decimal) (Confirmation, error) {
	seq, err := a.bank.seq.Next(ctx)
	if err != nil {
		return Confirmation{}, fmt.Errorf("next sequence id: %w", err)
	}
	at := a.bank.clock().UTC().Truncate(time.Second)
	code, err := confirmation.Encode(kind, a.number, at, seq)
	if err != nil {
		return Confirmation{}, err
	}

	a.balance = balance
	return Confirmation{
		Code:       code,
		Kind:       kind,
		SequenceID: seq,
		At:         at,
		Amount:     amount,
		Balance:    balance,
	}, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinimumAmount) {
		return fmt.Errorf("%w: %s is below the minimum of %s", ErrInvalidAmount, amount, MinimumAmount)
	}
	return nil
}
