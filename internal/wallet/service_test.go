package wallet

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/logging"
	"github.com/nairalock/nairalock/internal/middleware"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	l := ledger.New(ledger.WithLatency(0), ledger.WithLogger(logging.Discard()))
	t.Cleanup(l.Close)
	return NewService(l)
}

func TestOverviewFormatsSeedBalance(t *testing.T) {
	o := newTestService(t).Overview()

	if o.Formatted.USD != "$1,250.75" {
		t.Fatalf("unexpected usd display %q", o.Formatted.USD)
	}
	if o.Formatted.NGN != "₦1,875,000" {
		t.Fatalf("unexpected ngn display %q", o.Formatted.NGN)
	}
	if o.IsLoading {
		t.Fatal("expected idle ledger")
	}
}

func TestTransactionsFilter(t *testing.T) {
	svc := newTestService(t)

	all := svc.Transactions(TransactionFilter{})
	if len(all) != 5 || all[0].ID != "tx_12345" {
		t.Fatalf("expected seed history newest first, got %d items", len(all))
	}
	deposits := svc.Transactions(TransactionFilter{Type: ledger.TypeDeposit})
	if len(deposits) != 2 {
		t.Fatalf("expected 2 deposits, got %d", len(deposits))
	}
	limited := svc.Transactions(TransactionFilter{Limit: 3})
	if len(limited) != 3 || limited[2].ID != "tx_12347" {
		t.Fatalf("unexpected limited history %+v", limited)
	}
}

func TestQuoteHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Get("/wallet/quote", NewHandler(newTestService(t)).Quote)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/wallet/quote?amount=3000&currency=NGN", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	var q ledger.Quote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !q.USD.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected 2 usd, got %s", q.USD)
	}

	for _, target := range []string{"/wallet/quote?amount=abc&currency=USD", "/wallet/quote?amount=-1&currency=USD", "/wallet/quote?amount=1&currency=GBP"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, resp.StatusCode)
		}
	}
}
