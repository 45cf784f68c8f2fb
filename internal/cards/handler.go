package cards

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/middleware"
)

// Ledger is the card side of *ledger.Ledger.
type Ledger interface {
	Snapshot() ledger.Snapshot
	Card(cardID string) (ledger.Card, error)
	CreateCard(ctx context.Context, cardType ledger.CardType) (ledger.Card, error)
	ToggleFreezeCard(ctx context.Context, cardID string) (ledger.Card, error)
	DeleteCard(ctx context.Context, cardID string) error
}

// Handler exposes virtual card endpoints.
type Handler struct {
	ledger Ledger
}

func NewHandler(l Ledger) *Handler {
	return &Handler{ledger: l}
}

type createRequest struct {
	Type string `json:"type" validate:"required,oneof=Visa Mastercard"`
}

// CardView is a card with the number and CVV masked. Full details are only
// returned when the card is created or revealed.
type CardView struct {
	ID         string          `json:"id"`
	CardNumber string          `json:"cardNumber"`
	ExpiryDate string          `json:"expiryDate"`
	CardHolder string          `json:"cardHolder"`
	Type       ledger.CardType `json:"type"`
	Frozen     bool            `json:"frozen"`
}

func toView(c ledger.Card) CardView {
	return CardView{
		ID:         c.ID,
		CardNumber: c.MaskedNumber(),
		ExpiryDate: c.ExpiryDate,
		CardHolder: c.CardHolder,
		Type:       c.Type,
		Frozen:     c.Frozen,
	}
}

// List returns all cards in creation order.
func (h *Handler) List(c *fiber.Ctx) error {
	cards := h.ledger.Snapshot().Cards
	views := make([]CardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, toView(card))
	}
	return c.JSON(fiber.Map{"cards": views})
}

// Create issues a new card for the active identity.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := middleware.Bind(c, &req); err != nil {
		return err
	}
	card, err := h.ledger.CreateCard(c.UserContext(), ledger.CardType(req.Type))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(card)
}

// Reveal returns the unmasked card details.
func (h *Handler) Reveal(c *fiber.Ctx) error {
	card, err := h.ledger.Card(c.Params("cardId"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(card)
}

// ToggleFreeze flips the frozen flag.
func (h *Handler) ToggleFreeze(c *fiber.Ctx) error {
	card, err := h.ledger.ToggleFreezeCard(c.UserContext(), c.Params("cardId"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(toView(card))
}

// Delete removes the card.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.DeleteCard(c.UserContext(), c.Params("cardId")); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrCardNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrUnsupportedCardType):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
