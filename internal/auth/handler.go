package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/identity"
	"github.com/nairalock/nairalock/internal/middleware"
)

// Handler exposes register, login, logout and profile endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and starts a session for it.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := middleware.Bind(c, &req); err != nil {
		return err
	}
	tok, err := h.svc.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(tok)
}

// Login validates credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middleware.Bind(c, &req); err != nil {
		return err
	}
	tok, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(tok)
}

// Logout ends the active session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.svc.Logout(c.UserContext()); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "logout failed")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "logged_out"})
}

// Me returns the identity attached by the session middleware.
func (h *Handler) Me(c *fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(id)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, identity.ErrEmailInUse):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, identity.ErrInvalidRegistration):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
