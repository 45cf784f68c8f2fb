package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nairalock/nairalock/internal/config"
	"github.com/nairalock/nairalock/internal/identity"
	"github.com/nairalock/nairalock/internal/logging"
	"github.com/nairalock/nairalock/internal/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ids := identity.NewService(identity.NewMemoryRepository())
	if _, err := ids.SeedDemo(context.Background(), "demo-password"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := session.NewStore(session.NewMemoryKV(), ids, logging.Discard())
	return NewService(config.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}, store)
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := newTestService(t)

	tok, err := svc.Login(context.Background(), "john.doe@example.com", "demo-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.TokenType != "Bearer" || tok.ExpiresIn <= 0 {
		t.Fatalf("unexpected token %+v", tok)
	}
	id, err := svc.Authenticate(tok.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.Name != "John Doe" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestTokensInvalidatedBySessionChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "john.doe@example.com", "demo-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	second, err := svc.Register(ctx, "Ada Obi", "ada@example.com", "long-password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(first.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected replaced session token to fail, got %v", err)
	}
	if _, err := svc.Authenticate(second.AccessToken); err != nil {
		t.Fatalf("expected current token to validate: %v", err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(second.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected token to fail after logout, got %v", err)
	}
}

func TestParseRejectsTamperedAndExpiredTokens(t *testing.T) {
	secret := []byte("secret")
	now := time.Now()

	signed, _, err := SignHS256("usr_1", 3, secret, now, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := ParseAndVerifyHS256(signed, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "usr_1" || claims.Generation != 3 {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := ParseAndVerifyHS256(signed, []byte("other")); err == nil {
		t.Fatal("expected signature mismatch")
	}

	expired, _, err := SignHS256("usr_1", 3, secret, now.Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAndVerifyHS256(expired, secret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Login(context.Background(), "john.doe@example.com", "nope-nope"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestTokenRevokedBeforeRestartStaysRevoked(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}
	ids := identity.NewService(identity.NewMemoryRepository())
	if _, err := ids.SeedDemo(ctx, "demo-password"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	kv := session.NewMemoryKV()

	before := NewService(cfg, session.NewStore(kv, ids, logging.Discard()))
	old, err := before.Login(ctx, "john.doe@example.com", "demo-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := before.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	store := session.NewStore(kv, ids, logging.Discard())
	if _, _, err := store.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	after := NewService(cfg, store)
	if _, err := after.Login(ctx, "john.doe@example.com", "demo-password"); err != nil {
		t.Fatalf("login after restart: %v", err)
	}
	if _, err := after.Authenticate(old.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected token revoked before restart to stay invalid, got %v", err)
	}
}
