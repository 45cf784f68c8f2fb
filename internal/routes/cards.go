package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/cards"
)

// RegisterCardRoutes wires virtual card endpoints.
func RegisterCardRoutes(r fiber.Router, h *cards.Handler) {
	r.Get("/cards", h.List)
	r.Post("/cards", h.Create)
	r.Get("/cards/:cardId", h.Reveal)
	r.Post("/cards/:cardId/freeze", h.ToggleFreeze)
	r.Delete("/cards/:cardId", h.Delete)
}
