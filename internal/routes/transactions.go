package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jorieltejada28/banksystem-v2.1.1/internal/ledger"
)

// RegisterTransactionRoutes wires the protected ledger endpoints. The auth
// and ownership middlewares are attached per route so that the
// :accountNumber parameter is in scope when the ownership check runs.
func RegisterTransactionRoutes(r fiber.Router, h *ledger.Handler, auth, owner, idem fiber.Handler) {
	group := r.Group("/transactions")
	group.Get("/balance/:accountNumber", auth, owner, h.Balance)
	if idem != nil {
		group.Post("/cashin/:accountNumber", auth, owner, idem, h.CashIn)
	} else {
		group.Post("/cashin/:accountNumber", auth, owner, h.CashIn)
	}
}
