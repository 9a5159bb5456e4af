package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tablebook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ctxEmailKey = "admin_email"
	ctxRoleKey  = "admin_role"

	roleAdmin = "admin"
)

// AuthMiddleware guards the admin surface. Guests never authenticate; only
// venue staff carry a token.
type AuthMiddleware struct {
	jwtService *jwt.Service
}

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		if claims.Role != roleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Set(ctxEmailKey, claims.Email)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

// GetAdminEmail returns the authenticated staff email, for audit logging.
func GetAdminEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ctxEmailKey)
	if !exists {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}
