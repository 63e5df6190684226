// Package httpapi exposes the public user API over gin:
//
//	POST  /user/create/    — register
//	POST  /user/token/     — obtain the bearer token
//	GET   /user/myprofile/ — read own profile (token required)
//	PATCH /user/myprofile/ — update own profile (token required)
//
// plus the avatar endpoints under /user/myprofile/avatar/.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/dkovalev/accountd/internal/logging"
	"github.com/dkovalev/accountd/internal/server/services"
)

type Server struct {
	accounts *services.AccountService
	avatars  *services.AvatarService
	logger   logging.Logger
}

func NewServer(accounts *services.AccountService, avatars *services.AvatarService, logger logging.Logger) *Server {
	return &Server{
		accounts: accounts,
		avatars:  avatars,
		logger:   logger.With("module", "httpapi"),
	}
}

// RegisterRoutes wires the public endpoints onto r. Unlisted methods on
// registered paths answer 405 via gin's method-not-allowed handling.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.HandleMethodNotAllowed = true

	user := r.Group("/user")

	user.POST("/create/", s.handleCreateUser)
	user.POST("/token/", s.handleCreateToken)

	profile := user.Group("/myprofile")
	profile.Use(s.tokenAuthMiddleware())
	{
		profile.GET("/", s.handleMyProfile)
		profile.PATCH("/", s.handleUpdateMyProfile)
		profile.POST("/avatar/", s.handlePresignAvatarUpload)
		profile.GET("/avatar/", s.handleAvatarDownloadURL)
	}
}
