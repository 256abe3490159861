package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jorieltejada28/banksystem-v2.1.1/internal/account"
	"github.com/jorieltejada28/banksystem-v2.1.1/internal/token"
)

// RegisterUserRoutes wires enrollment and session endpoints.
func RegisterUserRoutes(r fiber.Router, accounts *account.Handler, sessions *token.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/users")
	group.Post("/signup", accounts.Signup)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, sessions.Login)
	} else {
		group.Post("/login", sessions.Login)
	}
	group.Post("/logout", sessions.Logout)
}
