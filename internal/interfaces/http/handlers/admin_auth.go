// internal/interfaces/http/handlers/admin_auth.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/tapecar-backend/internal/config"
	"github.com/your-org/tapecar-backend/internal/pkg/auth"
)

// AdminAuthHandler handles the admin login endpoint
type AdminAuthHandler struct {
	config   *config.Config
	sessions *auth.SessionManager
	logger   *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(cfg *config.Config, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		config:   cfg,
		sessions: auth.NewSessionManager(cfg),
		logger:   logger,
	}
}

// LoginRequest represents an admin login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /admin/login. There is a single operator account
// configured through the environment; a successful login sets the
// session cookie the admin middleware checks.
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if !strings.EqualFold(req.Email, h.config.Admin.Email) ||
		auth.VerifyPassword(req.Password, h.config.Admin.PasswordHash) != nil {
		h.logger.WithField("email", req.Email).Warn("Failed admin login attempt")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid credentials",
		})
		return
	}

	token, err := h.sessions.GenerateSessionToken(h.config.Admin.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create session",
		})
		return
	}

	maxAge := int(h.config.Admin.SessionExpiry.Seconds())
	c.SetCookie(h.config.Admin.CookieName, token, maxAge, "/", "", h.config.Admin.CookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
	})
}

// Logout handles POST /admin/logout
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.config.Admin.CookieName, "", -1, "/", "", h.config.Admin.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}
