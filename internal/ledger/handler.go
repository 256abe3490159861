package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jorieltejada28/banksystem-v2.1.1/internal/account"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/sequence"
)

const displayTimeLayout = "January 02, 2006 3:04 PM"

// Handler exposes the protected transaction endpoints. Bearer authorization
// and the subject/account ownership check run as route middleware before
// these handlers.
type Handler struct {
	service *Service
}

// NewHandler builds a ledger HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Balance handles GET /transactions/balance/:accountNumber.
func (h *Handler) Balance(c *fiber.Ctx) error {
	res, err := h.service.GetBalance(c.UserContext(), c.Params("accountNumber"))
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Balance retrieved successfully.",
		"data": fiber.Map{
			"accountNumber": res.AccountNumber,
			"fullName":      res.FullName,
			"balance":       json.Number(res.Balance.StringFixed(2)),
			"status":        res.Status,
			"timestamp":     res.Timestamp.Format(displayTimeLayout),
		},
	})
}

type cashInRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CashIn handles POST /transactions/cashin/:accountNumber.
func (h *Handler) CashIn(c *fiber.Ctx) error {
	var req cashInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Invalid amount provided.")
	}

	res, err := h.service.CashIn(c.UserContext(), c.Params("accountNumber"), req.Amount)
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Cash-in successful.",
		"data": fiber.Map{
			"accountNumber":     res.AccountNumber,
			"fullName":          res.FullName,
			"newBalance":        json.Number(res.NewBalance.StringFixed(2)),
			"transactionNumber": res.TransactionNumber,
			"status":            res.Status,
			"timestamp":         res.Timestamp.Format(displayTimeLayout),
		},
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "Amount must be greater than zero.")
	case errors.Is(err, account.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Account not found.")
	case errors.Is(err, account.ErrNotActive):
		return fiber.NewError(http.StatusForbidden, "Something went wrong with your account. Please contact customer service for assistance.")
	case errors.Is(err, account.ErrBusy):
		return fiber.NewError(http.StatusConflict, "Account is busy. Please try again.")
	case errors.Is(err, sequence.ErrUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, "Transaction numbering is temporarily unavailable. Please try again.")
	default:
		return err
	}
}
