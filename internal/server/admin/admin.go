// Package admin serves the staff-only management UI: session login, the user
// list, and forms for creating and editing accounts. Access requires an
// active staff user; sessions are JWT cookies so no server-side session
// storage is needed.
package admin

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/accountd/internal/logging"
	"github.com/dkovalev/accountd/internal/server/config"
	"github.com/dkovalev/accountd/internal/server/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

const sessionCookieName = "admin_session"

type Server struct {
	accounts *services.AccountService
	cfg      *config.Config
	logger   logging.Logger
}

func NewServer(accounts *services.AccountService, cfg *config.Config, logger logging.Logger) *Server {
	return &Server{
		accounts: accounts,
		cfg:      cfg,
		logger:   logger.With("module", "admin"),
	}
}

// RegisterRoutes mounts the admin UI under /admin. Everything except the
// login page sits behind the session middleware.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	admin := r.Group("/admin")

	admin.GET("/login/", s.handleLoginForm)
	admin.POST("/login/", s.handleLogin)
	admin.GET("/logout/", s.handleLogout)

	users := admin.Group("/users")
	users.Use(s.sessionAuthMiddleware())
	{
		users.GET("/", s.handleUsersList)
		users.GET("/new/", s.handleNewUserForm)
		users.POST("/new/", s.handleCreateUser)
		users.GET("/:id/", s.handleUserDetail)
		users.POST("/:id/", s.handleUpdateUser)
	}
}
