package funding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/logging"
	"github.com/nairalock/nairalock/internal/middleware"
)

func newLedger(t *testing.T, latency time.Duration) *ledger.Ledger {
	t.Helper()
	l := ledger.New(ledger.WithLatency(latency), ledger.WithLogger(logging.Discard()))
	t.Cleanup(l.Close)
	return l
}

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h := NewHandler(svc)
	app.Post("/wallet/deposit", h.Deposit)
	app.Post("/wallet/withdraw", h.Withdraw)
	return app
}

func TestServiceDepositWaitsForSettlement(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newLedger(t, 0), logging.Discard())

	res, err := svc.Deposit(ctx, Input{Amount: decimal.NewFromInt(100), Currency: ledger.USD})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if res.Status != ledger.StatusCompleted || res.Transaction == nil {
		t.Fatalf("expected completed transaction, got %+v", res)
	}
	if !res.Balance.USD.Equal(decimal.RequireFromString("1350.75")) {
		t.Fatalf("expected usd 1350.75, got %s", res.Balance.USD)
	}
	if res.Transaction.ID != res.TransactionID {
		t.Fatalf("transaction id mismatch: %s vs %s", res.Transaction.ID, res.TransactionID)
	}
}

func TestServiceWithdrawInsufficientFunds(t *testing.T) {
	svc := NewService(newLedger(t, 0), logging.Discard())

	_, err := svc.Withdraw(context.Background(), Input{Amount: decimal.NewFromInt(2000), Currency: ledger.USD})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestServiceAsyncReturnsPending(t *testing.T) {
	l := newLedger(t, time.Hour)
	svc := NewService(l, logging.Discard())

	res, err := svc.Deposit(context.Background(), Input{Amount: decimal.NewFromInt(5), Currency: ledger.USD, Async: true})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if res.Status != ledger.StatusPending || res.Transaction != nil {
		t.Fatalf("expected pending result, got %+v", res)
	}
	if !l.Busy() {
		t.Fatal("expected ledger to report busy")
	}
}

func TestHandlerStatusCodes(t *testing.T) {
	app := newTestApp(NewService(newLedger(t, 0), logging.Discard()))

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"deposit", "/wallet/deposit", `{"amount":100,"currency":"USD"}`, fiber.StatusCreated},
		{"deposit ngn", "/wallet/deposit", `{"amount":"1500","currency":"NGN"}`, fiber.StatusCreated},
		{"zero amount", "/wallet/deposit", `{"amount":0,"currency":"USD"}`, fiber.StatusBadRequest},
		{"bad currency", "/wallet/withdraw", `{"amount":10,"currency":"EUR"}`, fiber.StatusBadRequest},
		{"malformed", "/wallet/withdraw", `{"amount":`, fiber.StatusBadRequest},
		{"overdraw", "/wallet/withdraw", `{"amount":100000,"currency":"USD"}`, fiber.StatusUnprocessableEntity},
		{"async", "/wallet/deposit?async=true", `{"amount":1,"currency":"USD"}`, fiber.StatusAccepted},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodPost, tc.path, strings.NewReader(tc.body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.status, resp.StatusCode)
		}
	}
}

func TestHandlerReturnsSettledTransaction(t *testing.T) {
	app := newTestApp(NewService(newLedger(t, 0), logging.Discard()))

	req := httptest.NewRequest(fiber.MethodPost, "/wallet/withdraw", strings.NewReader(`{"amount":"50.25","currency":"USD"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var body FundingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Transaction == nil || body.Transaction.Type != ledger.TypeWithdrawal {
		t.Fatalf("expected withdrawal transaction, got %+v", body.Transaction)
	}
	if !body.Balance.USD.Equal(decimal.RequireFromString("1200.5")) {
		t.Fatalf("expected usd 1200.5, got %s", body.Balance.USD)
	}
}
