package accounts

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/account_ledger/internal/bank"
	"github.com/congo-pay/account_ledger/internal/confirmation"
	"github.com/congo-pay/account_ledger/internal/journal"
	"github.com/congo-pay/account_ledger/internal/tz"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type timeZoneBody struct {
	Name    string `json:"name"`
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
}

func (b *timeZoneBody) offset() (tz.FixedOffset, error) {
	if b == nil {
		return tz.UTC(), nil
	}
	return tz.New(b.Name, b.Hours, b.Minutes)
}

type openRequest struct {
	Number    string           `json:"number"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	TimeZone  *timeZoneBody    `json:"timezone"`
	Balance   *decimal.Decimal `json:"balance"`
}

type updateRequest struct {
	FirstName *string       `json:"first_name"`
	LastName  *string       `json:"last_name"`
	TimeZone  *timeZoneBody `json:"timezone"`
}

type amountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type rateRequest struct {
	Rate *decimal.Decimal `json:"rate"`
}

type timeZoneResponse struct {
	Name    string `json:"name"`
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

type accountResponse struct {
	Number    string           `json:"number"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	FullName  string           `json:"full_name"`
	TimeZone  timeZoneResponse `json:"timezone"`
	Balance   decimal.Decimal  `json:"balance"`
}

type confirmationResponse struct {
	Code       string          `json:"code"`
	Kind       string          `json:"kind"`
	Rejected   bool            `json:"rejected"`
	SequenceID int64           `json:"sequence_id"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
	Time       time.Time       `json:"time"`
}

type decodeResponse struct {
	Code          string           `json:"code"`
	Kind          string           `json:"kind"`
	AccountNumber string           `json:"account_number"`
	SequenceID    int64            `json:"sequence_id"`
	TimeUTC       time.Time        `json:"time_utc"`
	TimeLocal     string           `json:"time_local"`
	TimeZone      timeZoneResponse `json:"timezone"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
}

// localLayout keeps the offset in the rendered local time.
const localLayout = "2006-01-02 15:04:05 -07:00"

func zoneResponse(o tz.FixedOffset) timeZoneResponse {
	return timeZoneResponse{Name: o.Name(), Hours: o.Hours(), Minutes: o.Minutes(), Label: o.String()}
}

func accountJSON(v View) accountResponse {
	return accountResponse{
		Number:    v.Number,
		FirstName: v.FirstName,
		LastName:  v.LastName,
		FullName:  v.FullName,
		TimeZone:  zoneResponse(v.TimeZone),
		Balance:   v.Balance,
	}
}

func confirmationJSON(c bank.Confirmation) confirmationResponse {
	return confirmationResponse{
		Code:       c.Code,
		Kind:       c.Kind,
		Rejected:   c.Rejected(),
		SequenceID: c.SequenceID,
		Amount:     c.Amount,
		Balance:    c.Balance,
		Time:       c.At,
	}
}

func entryJSON(e journal.Entry) confirmationResponse {
	return confirmationResponse{
		Code:       e.Code,
		Kind:       e.Kind,
		Rejected:   e.Kind == confirmation.KindRejected,
		SequenceID: e.SequenceID,
		Amount:     e.Amount,
		Balance:    e.Balance,
		Time:       e.At,
	}
}

// Open creates an account.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	zone, err := req.TimeZone.offset()
	if err != nil {
		return httpError(err)
	}
	input := bank.OpenInput{
		Number:    req.Number,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TimeZone:  zone,
	}
	if req.Balance != nil {
		input.Balance = *req.Balance
	}
	view, err := h.service.Open(c.UserContext(), input)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(accountJSON(view))
}

// List returns the open account numbers.
func (h *Handler) List(c *fiber.Ctx) error {
	numbers, err := h.service.Numbers(c.UserContext())
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"accounts": numbers})
}

// Get returns a single account.
func (h *Handler) Get(c *fiber.Ctx) error {
	view, err := h.service.Get(c.UserContext(), c.Params("number"))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(accountJSON(view))
}

// Update changes names or time zone.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	input := UpdateInput{FirstName: req.FirstName, LastName: req.LastName}
	if req.TimeZone != nil {
		zone, err := req.TimeZone.offset()
		if err != nil {
			return httpError(err)
		}
		input.TimeZone = &zone
	}
	view, err := h.service.Update(c.UserContext(), c.Params("number"), input)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(accountJSON(view))
}

// Deposit credits an account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	amount, err := parseAmount(c)
	if err != nil {
		return err
	}
	conf, err := h.service.Deposit(c.UserContext(), c.Params("number"), amount)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(confirmationJSON(conf))
}

// Withdraw debits an account. A rejected withdrawal is still a 200 with a
// rejected confirmation.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	amount, err := parseAmount(c)
	if err != nil {
		return err
	}
	conf, err := h.service.Withdraw(c.UserContext(), c.Params("number"), amount)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(confirmationJSON(conf))
}

// PayInterest credits interest at the current rate.
func (h *Handler) PayInterest(c *fiber.Ctx) error {
	conf, err := h.service.PayInterest(c.UserContext(), c.Params("number"))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(confirmationJSON(conf))
}

// History lists the confirmations recorded for an account.
func (h *Handler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), c.Params("number"))
	if err != nil {
		return httpError(err)
	}
	out := make([]confirmationResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON(e))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"confirmations": out})
}

// Decode parses a confirmation code. The display zone comes from the tz,
// hours and minutes query parameters, or from the account when zone=account.
func (h *Handler) Decode(c *fiber.Ctx) error {
	code := c.Params("code")
	var (
		decoded Decoded
		err     error
	)
	if c.Query("zone") == "account" {
		decoded, err = h.service.DecodeForAccount(c.UserContext(), code)
	} else {
		var zone tz.FixedOffset
		zone, err = queryOffset(c)
		if err != nil {
			return httpError(err)
		}
		decoded, err = h.service.Decode(c.UserContext(), code, zone)
	}
	if err != nil {
		return httpError(err)
	}

	rec := decoded.Record
	resp := decodeResponse{
		Code:          code,
		Kind:          rec.Kind,
		AccountNumber: rec.AccountNumber,
		SequenceID:    rec.SequenceID,
		TimeUTC:       rec.TimeUTC,
		TimeLocal:     rec.TimeLocal.Format(localLayout),
		TimeZone:      zoneResponse(decoded.Zone),
	}
	if decoded.Journal {
		resp.Amount = &decoded.Entry.Amount
		resp.Balance = &decoded.Entry.Balance
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// InterestRate returns the bank-wide rate.
func (h *Handler) InterestRate(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"rate": h.service.InterestRate()})
}

// SetInterestRate replaces the bank-wide rate.
func (h *Handler) SetInterestRate(c *fiber.Ctx) error {
	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Rate == nil {
		return fiber.NewError(http.StatusBadRequest, bank.ErrInvalidRate.Error())
	}
	if err := h.service.SetInterestRate(c.UserContext(), *req.Rate); err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"rate": h.service.InterestRate()})
}

func parseAmount(c *fiber.Ctx) (decimal.Decimal, error) {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return decimal.Decimal{}, fiber.NewError(http.StatusBadRequest, fmt.Sprintf("%s: %s", bank.ErrInvalidAmount, err))
	}
	if req.Amount == nil {
		return decimal.Decimal{}, fiber.NewError(http.StatusBadRequest, bank.ErrInvalidAmount.Error())
	}
	return *req.Amount, nil
}

func queryOffset(c *fiber.Ctx) (tz.FixedOffset, error) {
	name := c.Query("tz")
	if name == "" {
		if c.Query("hours") != "" || c.Query("minutes") != "" {
			return tz.FixedOffset{}, fmt.Errorf("%w: tz is required with hours or minutes", tz.ErrInvalidTimeZone)
		}
		return tz.UTC(), nil
	}
	hours, err := queryInt(c, "hours")
	if err != nil {
		return tz.FixedOffset{}, err
	}
	minutes, err := queryInt(c, "minutes")
	if err != nil {
		return tz.FixedOffset{}, err
	}
	return tz.New(name, hours, minutes)
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", tz.ErrInvalidTimeZone, key)
	}
	return v, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAccountExists):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, bank.ErrInvalidName),
		errors.Is(err, bank.ErrInvalidAmount),
		errors.Is(err, bank.ErrInvalidRate),
		errors.Is(err, bank.ErrInvalidAccountNumber),
		errors.Is(err, tz.ErrInvalidTimeZone),
		errors.Is(err, confirmation.ErrMalformedCode),
		errors.Is(err, confirmation.ErrInvalidTimestamp),
		errors.Is(err, confirmation.ErrInvalidTimeZoneArgument):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
