package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailInUse is returned when registering an email that already exists.
	ErrEmailInUse = errors.New("email already in use")
	// ErrUserNotFound is returned by repositories for missing users.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRegistration wraps sign-up input problems.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// Service manages identity lifecycle.
type Service struct {
	repo Repository
	cost int
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// Register creates an unverified identity and stores a hashed password.
func (s *Service) Register(ctx context.Context, reg Registration) (Identity, error) {
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return Identity{}, fmt.Errorf("%w: name is required", ErrInvalidRegistration)
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(reg.Email))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: email is invalid", ErrInvalidRegistration)
	}
	if len(reg.Password) < minPasswordLength {
		return Identity{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRegistration, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return Identity{}, err
	}

	user := User{
		Identity: Identity{
			ID:         uuid.NewString(),
			Name:       name,
			Email:      strings.ToLower(addr.Address),
			IsVerified: false,
		},
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return Identity{}, err
	}
	return user.Identity, nil
}

// Authenticate verifies the email/password pair.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return user.Identity, nil
}

// Lookup returns the registered identity with the given id.
func (s *Service) Lookup(ctx context.Context, id string) (Identity, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	return user.Identity, nil
}

// SeedDemo stores the verified demo account if it does not exist yet.
func (s *Service) SeedDemo(ctx context.Context, password string) (Identity, error) {
	demo := Identity{ID: uuid.NewString(), Name: "John Doe", Email: "john.doe@example.com", IsVerified: true}
	if existing, err := s.repo.FindByEmail(ctx, demo.Email); err == nil {
		return existing.Identity, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Identity{}, err
	}
	if err := s.repo.Create(ctx, User{Identity: demo, PasswordHash: hash, CreatedAt: time.Now().UTC()}); err != nil {
		return Identity{}, err
	}
	return demo, nil
}
