package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/nairalock/nairalock/internal/auth"
	"github.com/nairalock/nairalock/internal/config"
	"github.com/nairalock/nairalock/internal/identity"
	"github.com/nairalock/nairalock/internal/ledger"
	"github.com/nairalock/nairalock/internal/logging"
	"github.com/nairalock/nairalock/internal/middleware"
	"github.com/nairalock/nairalock/internal/session"
)

const demoPassword = "demo-password"

func setupApp(t *testing.T) (*fiber.App, *ledger.Ledger) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	logger := logging.Discard()
	cfg := config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		IdempotencyTTL: time.Minute,
		LoginRateLimit: 100,
	}
	ids := identity.NewService(identity.NewMemoryRepository())
	if _, err := ids.SeedDemo(context.Background(), demoPassword); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sessions := session.NewStore(session.NewRedisKV(cache), ids, logger)
	l := ledger.New(ledger.WithLatency(0), ledger.WithLogger(logger), ledger.WithHolders(sessions))
	t.Cleanup(l.Close)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	Setup(app, Deps{Cfg: cfg, Cache: cache, Logger: logger, Auth: auth.NewService(cfg, sessions), Ledger: l})
	return app, l
}

func call(t *testing.T, app *fiber.App, method, target, token, body string, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, raw := call(t, app, fiber.MethodPost, "/api/v1/auth/login", "", `{"email":"john.doe@example.com","password":"`+demoPassword+`"}`)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200 got %d: %s", status, raw)
	}
	var tok auth.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return tok.AccessToken
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app, _ := setupApp(t)

	for _, target := range []string{"/api/v1/me", "/api/v1/wallet", "/api/v1/cards"} {
		if status, _ := call(t, app, fiber.MethodGet, target, "", ""); status != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", target, status)
		}
	}
	if status, _ := call(t, app, fiber.MethodGet, "/api/v1/ping", "", ""); status != http.StatusOK {
		t.Fatalf("ping: expected 200 got %d", status)
	}
	if status, _ := call(t, app, fiber.MethodGet, "/healthz", "", ""); status != http.StatusOK {
		t.Fatalf("healthz: expected 200 got %d", status)
	}
}

func TestWalletFlow(t *testing.T) {
	app, l := setupApp(t)
	token := login(t, app)

	status, raw := call(t, app, fiber.MethodGet, "/api/v1/me", token, "")
	if status != http.StatusOK || !strings.Contains(string(raw), `"isVerified":true`) {
		t.Fatalf("me: %d %s", status, raw)
	}

	status, raw = call(t, app, fiber.MethodPost, "/api/v1/wallet/deposit", token, `{"amount":100,"currency":"USD"}`)
	if status != http.StatusCreated {
		t.Fatalf("deposit: expected 201 got %d: %s", status, raw)
	}
	status, raw = call(t, app, fiber.MethodPost, "/api/v1/wallet/withdraw", token, `{"amount":5000,"currency":"USD"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("withdraw: expected 422 got %d: %s", status, raw)
	}

	status, raw = call(t, app, fiber.MethodGet, "/api/v1/wallet", token, "")
	if status != http.StatusOK {
		t.Fatalf("wallet: expected 200 got %d", status)
	}
	var overview struct {
		Formatted struct {
			USD string `json:"usd"`
		} `json:"formatted"`
	}
	if err := json.Unmarshal(raw, &overview); err != nil {
		t.Fatalf("decode wallet: %v", err)
	}
	if overview.Formatted.USD != "$1,350.75" {
		t.Fatalf("expected $1,350.75 got %q", overview.Formatted.USD)
	}

	status, raw = call(t, app, fiber.MethodPost, "/api/v1/cards", token, `{"type":"Visa"}`)
	if status != http.StatusCreated {
		t.Fatalf("create card: expected 201 got %d: %s", status, raw)
	}
	var card ledger.Card
	if err := json.Unmarshal(raw, &card); err != nil {
		t.Fatalf("decode card: %v", err)
	}
	if card.CardHolder != "John Doe" {
		t.Fatalf("expected holder from session, got %q", card.CardHolder)
	}
	if len(l.Snapshot().Cards) != 2 {
		t.Fatal("expected two cards")
	}
}

func TestIdempotentDeposit(t *testing.T) {
	app, l := setupApp(t)
	token := login(t, app)

	for i := 0; i < 2; i++ {
		status, raw := call(t, app, fiber.MethodPost, "/api/v1/wallet/deposit", token, `{"amount":10,"currency":"USD"}`, "Idempotency-Key", "dep-1")
		if status != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d: %s", i+1, status, raw)
		}
	}
	if got := len(l.Snapshot().Transactions); got != 6 {
		t.Fatalf("expected deposit applied once, got %d transactions", got)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	app, _ := setupApp(t)
	token := login(t, app)

	if status, _ := call(t, app, fiber.MethodPost, "/api/v1/auth/logout", token, ""); status != http.StatusOK {
		t.Fatalf("logout: expected 200 got %d", status)
	}
	if status, _ := call(t, app, fiber.MethodGet, "/api/v1/wallet", token, ""); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestRegisterConflictsAndValidation(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := call(t, app, fiber.MethodPost, "/api/v1/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"long-password"}`)
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d", status)
	}
	status, _ = call(t, app, fiber.MethodPost, "/api/v1/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"long-password"}`)
	if status != http.StatusConflict {
		t.Fatalf("duplicate: expected 409 got %d", status)
	}
	status, _ = call(t, app, fiber.MethodPost, "/api/v1/auth/register", "", `{"name":"","email":"nope","password":"short"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid: expected 400 got %d", status)
	}
	status, _ = call(t, app, fiber.MethodPost, "/api/v1/auth/login", "", `{"email":"john.doe@example.com","password":"wrong"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401 got %d", status)
	}
}
