package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/accountd/internal/server/auth"
	"github.com/dkovalev/accountd/internal/server/models"
)

const ctxAdminKey = "actingAdmin"

// sessionAuthMiddleware resolves the session cookie to an active staff user,
// redirecting to the login page otherwise. The staff flag is re-checked on
// every request so revoking it takes effect immediately.
func (s *Server) sessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.Redirect(http.StatusFound, "/admin/login/")
			c.Abort()
			return
		}

		userID, err := auth.GetUserIDFromSessionToken(tokenString, []byte(s.cfg.SecretKey))
		if err != nil {
			c.Redirect(http.StatusFound, "/admin/login/")
			c.Abort()
			return
		}

		user, err := s.accounts.GetUser(c.Request.Context(), userID)
		if err != nil || !user.IsActive || !user.IsStaff {
			c.Redirect(http.StatusFound, "/admin/login/")
			c.Abort()
			return
		}

		c.Set(ctxAdminKey, user)
		c.Next()
	}
}

// actingAdmin returns the staff user resolved by sessionAuthMiddleware.
func actingAdmin(c *gin.Context) *models.User {
	return c.MustGet(ctxAdminKey).(*models.User)
}
