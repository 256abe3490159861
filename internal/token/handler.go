package token

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jorieltejada28/banksystem-v2.1.1/internal/account"
)

const displayTimeLayout = "January 02, 2006 3:04 PM"

// Handler exposes session endpoints: login issues a token, logout revokes it.
type Handler struct {
	accounts *account.Service
	tokens   *Service
}

// NewHandler builds a session HTTP handler.
func NewHandler(accounts *account.Service, tokens *Service) *Handler {
	return &Handler{accounts: accounts, tokens: tokens}
}

type loginRequest struct {
	AccountNumber string `json:"accountNumber"`
	PINNumber     string `json:"pinNumber"`
}

// Login validates account number and PIN and returns a bearer token bound to
// the account.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.AccountNumber == "" || req.PINNumber == "" {
		return fiber.NewError(http.StatusBadRequest, "Account number and PIN are required.")
	}

	acct, err := h.accounts.Authenticate(c.UserContext(), req.AccountNumber, req.PINNumber)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "Account not found.")
		case errors.Is(err, account.ErrIncorrectPIN):
			return fiber.NewError(http.StatusUnauthorized, "Incorrect PIN. Please try again.")
		case errors.Is(err, account.ErrNotActive):
			return fiber.NewError(http.StatusForbidden, "Something went wrong with your account. Please contact customer service for assistance.")
		default:
			return err
		}
	}

	signed, err := h.tokens.Issue(acct.AccountNumber)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":       true,
		"message":       "Login successful.",
		"token":         signed,
		"accountNumber": acct.AccountNumber,
		"fullName":      acct.FullName,
		"status":        acct.Status,
	})
}

// Logout revokes the presented bearer token. Revoking a token twice is not
// an error.
func (h *Handler) Logout(c *fiber.Ctx) error {
	authz := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return fiber.NewError(http.StatusBadRequest, "Missing or invalid Authorization header.")
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])

	if err := h.tokens.Revoke(c.UserContext(), raw); err != nil {
		switch {
		case errors.Is(err, ErrInvalid), errors.Is(err, ErrExpired):
			return fiber.NewError(http.StatusUnauthorized, "Token is invalid or already expired.")
		default:
			return err
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":   true,
		"message":   "Logged out successfully. Session expired.",
		"timestamp": time.Now().Format(displayTimeLayout),
	})
}
