package auth

import (
	"context"
	"errors"
	"time"

	"github.com/nairalock/nairalock/internal/config"
	"github.com/nairalock/nairalock/internal/identity"
	"github.com/nairalock/nairalock/internal/session"
)

// ErrUnauthorized is returned for tokens that no longer match the active session.
var ErrUnauthorized = errors.New("unauthorized")

// Service issues and checks access tokens on top of the session store.
type Service struct {
	secret   []byte
	ttl      time.Duration
	sessions *session.Store
	now      func() time.Time
}

func NewService(cfg config.Config, sessions *session.Store) *Service {
	return &Service{
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.AccessTokenTTL,
		sessions: sessions,
		now:      time.Now,
	}
}

// Token is returned by login and register.
type Token struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int64             `json:"expires_in"`
	User        identity.Identity `json:"user"`
}

// Login authenticates the credentials, replaces the active session and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	sess, err := s.sessions.Login(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	return s.issue(sess)
}

// Register creates an account, replaces the active session and issues a token.
func (s *Service) Register(ctx context.Context, name, email, password string) (Token, error) {
	sess, err := s.sessions.Register(ctx, name, email, password)
	if err != nil {
		return Token{}, err
	}
	return s.issue(sess)
}

// Logout ends the active session. Every outstanding token stops validating.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// Authenticate resolves a bearer token to the active identity.
func (s *Service) Authenticate(token string) (identity.Identity, error) {
	claims, err := ParseAndVerifyHS256(token, s.secret)
	if err != nil {
		return identity.Identity{}, ErrUnauthorized
	}
	id, err := s.sessions.Validate(claims.Subject, claims.Generation)
	if err != nil {
		return identity.Identity{}, ErrUnauthorized
	}
	return id, nil
}

func (s *Service) issue(sess session.Session) (Token, error) {
	signed, exp, err := SignHS256(sess.Identity.ID, sess.Generation, s.secret, s.now(), s.ttl)
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(exp.Sub(s.now()).Seconds()),
		User:        sess.Identity,
	}, nil
}
