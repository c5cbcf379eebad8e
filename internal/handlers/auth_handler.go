package handlers

import (
	"bitstore/internal/services"
	"bitstore/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes. Login and register
// are open (behind the rate limiter); logout needs an authenticated actor.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, rateLimit, authRequired fiber.Handler) {
	router.Post("/login", rateLimit, h.HandleLogin)
	router.Post("/register", rateLimit, h.HandleRegister)
	router.Post("/logout", authRequired, h.HandleLogout)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LogoutRequest carries the refresh token to revoke.
type LogoutRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// HandleLogin authenticates a user and issues a credential pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  requestErrors(err),
		})
	}

	creds, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(creds)
}

// HandleRegister creates a new user account and issues credentials.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req validation.Registration
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  requestErrors(err),
		})
	}

	_, creds, err := h.authService.Register(&req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(creds)
}

// HandleLogout revokes the supplied refresh token. Any revocation failure
// is a client error; success is 205 so clients reset their state.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	var req LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Refresh == "" {
		return badRequest(c, "Refresh token is required")
	}

	if err := h.authService.Logout(req.Refresh); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusResetContent)
}
