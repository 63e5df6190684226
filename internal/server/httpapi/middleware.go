package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/accountd/internal/server/models"
)

const ctxUserKey = "actingUser"

// tokenAuthMiddleware is the sole authorization checkpoint: it resolves the
// bearer token to a user before any handler runs, or rejects with 401.
// Both "Token <key>" and "Bearer <key>" header forms are accepted.
func (s *Server) tokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"detail": "Invalid authorization header."})
			return
		}

		user, err := s.accounts.GetUserByToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"detail": "Invalid token."})
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// actingUser returns the user resolved by tokenAuthMiddleware.
func actingUser(c *gin.Context) *models.User {
	return c.MustGet(ctxUserKey).(*models.User)
}
