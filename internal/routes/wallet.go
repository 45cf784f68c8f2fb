package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/wallet"
)

// RegisterWalletRoutes wires the read-only wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet", h.Overview)
	r.Get("/wallet/transactions", h.Transactions)
	r.Get("/wallet/quote", h.Quote)
}
