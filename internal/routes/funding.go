package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/funding"
)

// RegisterFundingRoutes wires deposit and withdrawal endpoints.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler) {
	r.Post("/wallet/deposit", h.Deposit)
	r.Post("/wallet/withdraw", h.Withdraw)
}
