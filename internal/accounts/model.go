package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/congo-pay/account_ledger/internal/bank"
	"github.com/congo-pay/account_ledger/internal/tz"
)

// View is a point-in-time copy of an account.
type View struct {
	Number    string
	FirstName string
	LastName  string
	FullName  string
	TimeZone  tz.FixedOffset
	Balance   decimal.Decimal
}

func viewOf(a *bank.Account) View {
	return View{
		Number:    a.Number(),
		FirstName: a.FirstName(),
		LastName:  a.LastName(),
		FullName:  a.FullName(),
		TimeZone:  a.TimeZone(),
		Balance:   a.Balance(),
	}
}

// UpdateInput lists the mutable fields; nil fields are left alone.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	TimeZone  *tz.FixedOffset
}
