package handlers

import (
	"tokopos/internal/models"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// registerRequest is everything a caller may choose at sign-up. Role and
// outlet are assigned by the server.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves the public sign-up and login routes.
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterRoutes mounts /auth. These routes sit outside the JWT group.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister creates a cashier account without an outlet.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.authService.RegisterUser(c.UserContext(), &user); err != nil {
		return respondError(c, h.log, "Registration failed", err)
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleLogin exchanges credentials for a signed token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
