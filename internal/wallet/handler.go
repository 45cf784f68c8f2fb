package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/middleware"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Overview returns the balance and whether a funding operation is settling.
func (h *Handler) Overview(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.service.Overview())
}

// Transactions lists the history. Supports ?type= and ?limit=.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	filter := TransactionFilter{
		Type:  ledger.TransactionType(c.Query("type")),
		Limit: c.QueryInt("limit"),
	}
	if filter.Limit < 0 {
		return fiber.NewError(http.StatusBadRequest, "limit must not be negative")
	}
	txs := h.service.Transactions(filter)
	return c.Status(http.StatusOK).JSON(fiber.Map{"transactions": txs, "count": len(txs)})
}

// Quote converts ?amount= in ?currency= at the current rate.
func (h *Handler) Quote(c *fiber.Ctx) error {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "amount must be a number")
	}
	req := QuoteRequest{Amount: amount, Currency: c.Query("currency")}
	if err := middleware.Validate(&req); err != nil {
		return err
	}
	q, err := h.service.Quote(req.Amount, ledger.Currency(req.Currency))
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) || errors.Is(err, ledger.ErrUnsupportedCurrency) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(q)
}
