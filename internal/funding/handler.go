package funding

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/middleware"
)

// Handler exposes HTTP endpoints for deposits and withdrawals.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Deposit credits the wallet. With ?async=true it responds 202 once queued.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.handle(c, h.service.Deposit)
}

// Withdraw debits the wallet. With ?async=true it responds 202 once queued.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.handle(c, h.service.Withdraw)
}

func (h *Handler) handle(c *fiber.Ctx, op func(context.Context, Input) (FundingResponse, error)) error {
	var req FundingRequest
	if err := middleware.Bind(c, &req); err != nil {
		return err
	}
	in := Input{
		Amount:   req.Amount,
		Currency: ledger.Currency(req.Currency),
		Async:    c.QueryBool("async"),
	}
	res, err := op(c.UserContext(), in)
	if err != nil {
		return mapError(err)
	}
	if in.Async {
		return c.Status(http.StatusAccepted).JSON(res)
	}
	return c.Status(http.StatusCreated).JSON(res)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, ledger.ErrInsufficientFunds.Error())
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrUnsupportedCurrency):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrQueueFull):
		return fiber.NewError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ledger.ErrClosed):
		return fiber.NewError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(http.StatusGatewayTimeout, "funding still settling")
	default:
		return err
	}
}
