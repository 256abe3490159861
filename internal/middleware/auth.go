package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jorieltejada28/banksystem-v2.1.1/internal/token"
)

const subjectLocal = "account_number"

// BearerAuth validates the Authorization bearer token and stores its subject
// in the request locals. The check order is fixed so error precedence stays
// deterministic: header presence first, then token validity (including
// revocation). The ownership check against the path account runs separately
// in RequireAccountOwner.
func BearerAuth(tokens *token.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "Missing or invalid Authorization header.")
		}
		raw := strings.TrimSpace(authz[len("Bearer "):])

		subject, err := tokens.Validate(c.UserContext(), raw)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrRevoked):
				return fiber.NewError(http.StatusUnauthorized, "Token has been revoked.")
			case errors.Is(err, token.ErrInvalid), errors.Is(err, token.ErrExpired):
				return fiber.NewError(http.StatusUnauthorized, "Invalid or expired token.")
			default:
				return fiber.NewError(http.StatusServiceUnavailable, "Authorization is temporarily unavailable. Please try again.")
			}
		}

		c.Locals(subjectLocal, subject)
		return c.Next()
	}
}

// RequireAccountOwner ensures the authenticated subject matches the
// :accountNumber path parameter. Runs after BearerAuth; mismatch is a
// distinct failure from authentication regardless of whether the path
// account exists.
func RequireAccountOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, _ := c.Locals(subjectLocal).(string)
		if subject == "" || subject != c.Params("accountNumber") {
			return fiber.NewError(http.StatusForbidden, "Unauthorized access: account mismatch.")
		}
		return c.Next()
	}
}
