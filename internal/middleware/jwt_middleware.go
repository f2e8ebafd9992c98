package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/replaygear/replay_api/internal/models"
	"github.com/replaygear/replay_api/internal/utils"
)

// JWTMiddleware validates bearer tokens and exposes the caller identity
// on the gin context.
type JWTMiddleware struct {
	secret string
}

// NewJWTMiddleware constructs a JWTMiddleware with the signing secret.
func NewJWTMiddleware(secret string) *JWTMiddleware {
	return &JWTMiddleware{secret: secret}
}

// Handle returns a middleware that requires a valid token.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdmin returns a middleware that requires a valid token whose
// role is admin. Non-admin callers get a 403, not a 401: they are
// authenticated, just not allowed here.
func (m *JWTMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}

		if claims.Role != string(models.RoleAdmin) {
			utils.Error(c, 403, "FORBIDDEN", "Administrator privilege required")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func (m *JWTMiddleware) authenticate(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
		c.Abort()
		return nil, false
	}

	claims, err := utils.ValidateJWT(m.secret, parts[1])
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		c.Abort()
		return nil, false
	}
	return claims, true
}

// UserID returns the authenticated user id from context.
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}
