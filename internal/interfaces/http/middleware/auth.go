// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/tapecar-backend/internal/config"
	"github.com/your-org/tapecar-backend/internal/pkg/auth"
)

// AdminSessionMiddleware gates the admin panel on the session cookie.
// A missing or invalid cookie redirects the browser back to the public
// storefront rather than serving an error page.
func AdminSessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	sessions := auth.NewSessionManager(cfg)

	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Admin.CookieName)
		if err != nil || token == "" {
			redirectOrReject(c)
			return
		}

		claims, err := sessions.ValidateSessionToken(token)
		if err != nil {
			redirectOrReject(c)
			return
		}

		c.Set("admin_email", claims.Email)
		c.Next()
	}
}

// redirectOrReject sends browsers to the storefront root and API
// clients a JSON 401.
func redirectOrReject(c *gin.Context) {
	if acceptsHTML(c) {
		c.Redirect(http.StatusFound, "/")
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
	}
	c.Abort()
}

func acceptsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}

// GetAdminEmailFromContext extracts the authenticated admin's email
// from gin context.
func GetAdminEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get("admin_email")
	if !exists {
		return "", false
	}
	return email.(string), true
}
