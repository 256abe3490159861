package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes account enrollment over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type signupRequest struct {
	FirstName  string `json:"firstname"`
	MiddleName string `json:"middlename"`
	LastName   string `json:"lastname"`
	PINNumber  string `json:"pinNumber"`
}

// Signup opens a new account and returns its assigned number.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	acct, err := h.service.Open(c.UserContext(), OpenInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		PIN:        req.PINNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPIN):
			return fiber.NewError(http.StatusBadRequest, "PIN must be at least 4 digits.")
		case errors.Is(err, ErrExists):
			return fiber.NewError(http.StatusConflict, "Account already exists.")
		default:
			return err
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Signup successful.",
		"data": fiber.Map{
			"accountNumber": acct.AccountNumber,
			"fullName":      acct.FullName,
			"status":        acct.Status,
			"balance":       json.Number(acct.Balance.StringFixed(2)),
		},
	})
}
