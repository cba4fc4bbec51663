package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/account_ledger/internal/accounts"
)

// RegisterAccountRoutes wires account lifecycle and balance endpoints.
func RegisterAccountRoutes(r fiber.Router, h *accounts.Handler) {
	g := r.Group("/accounts")
	g.Post("", h.Open)
	g.Get("", h.List)
	g.Get("/:number", h.Get)
	g.Patch("/:number", h.Update)
	g.Post("/:number/deposit", h.Deposit)
	g.Post("/:number/withdraw", h.Withdraw)
	g.Post("/:number/interest", h.PayInterest)
	g.Get("/:number/confirmations", h.History)
}

// RegisterConfirmationRoutes wires code decoding.
func RegisterConfirmationRoutes(r fiber.Router, h *accounts.Handler) {
	r.Get("/confirmations/:code", h.Decode)
}

// RegisterInterestRoutes wires the bank-wide rate. guards protect the update.
func RegisterInterestRoutes(r fiber.Router, h *accounts.Handler, guards ...fiber.Handler) {
	r.Get("/interest-rate", h.InterestRate)
	r.Put("/interest-rate", append(guards, h.SetInterestRate)...)
}
