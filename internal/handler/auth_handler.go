package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/replaygear/replay_api/internal/middleware"
	"github.com/replaygear/replay_api/internal/service"
	"github.com/replaygear/replay_api/internal/utils"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.FailedLoginRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rateLimiter: middleware.NewFailedLoginRateLimiter(),
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, utils.ErrEmailTaken) {
			utils.Error(c, 400, "EMAIL_TAKEN", "Email is already registered")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to register")
		return
	}

	utils.Success(c, 201, "Registration successful", user)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !h.rateLimiter.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many failed login attempts")
			return
		}
		if errors.Is(err, utils.ErrAccountInactive) {
			utils.Error(c, 401, "ACCOUNT_INACTIVE", "Account is inactive")
			return
		}
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}
