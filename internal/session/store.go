package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/nairalock/nairalock/internal/identity"
)

// StorageKey is the fixed key the active identity is persisted under.
const StorageKey = "nairalock_user"

// ErrNoSession is returned when an operation needs an active identity.
var ErrNoSession = errors.New("no active session")

// Authenticator validates credentials, registers new identities and looks
// up registered ones.
type Authenticator interface {
	Register(ctx context.Context, reg identity.Registration) (identity.Identity, error)
	Authenticate(ctx context.Context, creds identity.Credentials) (identity.Identity, error)
	Lookup(ctx context.Context, id string) (identity.Identity, error)
}

// Session is an activated identity together with the generation it was
// activated under.
type Session struct {
	Identity   identity.Identity
	Generation uint64
}

// Store holds the single active identity of the dashboard.
type Store struct {
	mu         sync.RWMutex
	current    *identity.Identity
	generation uint64

	kv     KV
	auth   Authenticator
	logger *slog.Logger
}

// NewStore builds a session store persisting to kv. The generation starts at
// a random value; tokens issued by an earlier process do not match it.
func NewStore(kv KV, auth Authenticator, logger *slog.Logger) *Store {
	return &Store{kv: kv, auth: auth, logger: logger, generation: rand.Uint64()}
}

// Restore loads a previously persisted identity and refreshes it from the
// registry. A missing record is not an error; a record for an identity that
// no longer exists is removed.
func (s *Store) Restore(ctx context.Context) (identity.Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		return identity.Identity{}, false, nil
	}
	if err != nil {
		return identity.Identity{}, false, fmt.Errorf("load session: %w", err)
	}
	var stored identity.Identity
	if err := json.Unmarshal(raw, &stored); err != nil {
		return identity.Identity{}, false, fmt.Errorf("decode session: %w", err)
	}

	id, err := s.auth.Lookup(ctx, stored.ID)
	if errors.Is(err, identity.ErrUserNotFound) {
		s.log(ctx, "dropping session for unknown identity", slog.String("user_id", stored.ID))
		if err := s.kv.Delete(ctx, StorageKey); err != nil {
			return identity.Identity{}, false, fmt.Errorf("delete session: %w", err)
		}
		return identity.Identity{}, false, nil
	}
	if err != nil {
		return identity.Identity{}, false, fmt.Errorf("refresh session: %w", err)
	}
	if id != stored {
		if err := s.persist(ctx, id); err != nil {
			return identity.Identity{}, false, err
		}
	}
	s.current = &id
	return id, true, nil
}

// Login authenticates and makes the identity current.
func (s *Store) Login(ctx context.Context, email, password string) (Session, error) {
	id, err := s.auth.Authenticate(ctx, identity.Credentials{Email: email, Password: password})
	if err != nil {
		s.log(ctx, "login failed", slog.String("email", email), slog.Any("error", err))
		return Session{}, err
	}
	return s.activate(ctx, id)
}

// Register creates a new identity and makes it current.
func (s *Store) Register(ctx context.Context, name, email, password string) (Session, error) {
	id, err := s.auth.Register(ctx, identity.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		s.log(ctx, "registration failed", slog.String("email", email), slog.Any("error", err))
		return Session{}, err
	}
	return s.activate(ctx, id)
}

// Logout removes the persisted record and clears the current identity.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.current = nil
	s.generation++
	return nil
}

// Current returns the active identity, if any.
func (s *Store) Current() (identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return identity.Identity{}, false
	}
	return *s.current, true
}

// Validate reports whether id and generation still name the active session.
// The generation changes on every login, registration and logout.
func (s *Store) Validate(id string, generation uint64) (identity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.ID != id || s.generation != generation {
		return identity.Identity{}, ErrNoSession
	}
	return *s.current, nil
}

// activate persists id and makes it current under one hold of mu.
func (s *Store) activate(ctx context.Context, id identity.Identity) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, id); err != nil {
		return Session{}, err
	}
	s.current = &id
	s.generation++
	return Session{Identity: id, Generation: s.generation}, nil
}

// persist writes the record. Must hold mu.
func (s *Store) persist(ctx context.Context, id identity.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) log(ctx context.Context, msg string, attrs ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, attrs...)
	}
}
