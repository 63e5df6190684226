package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/accountd/internal/common"
	"github.com/dkovalev/accountd/internal/server/auth"
	"github.com/dkovalev/accountd/internal/server/models"
	"github.com/dkovalev/accountd/internal/server/services"
)

const loginErrorMessage = "Please enter a correct email and password for a staff account."

func (s *Server) handleLoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (s *Server) handleLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := s.accounts.AuthenticateSession(c.Request.Context(), email, password)
	if err != nil || !user.IsStaff {
		// non-staff users get the same message as bad credentials
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": loginErrorMessage})
		return
	}

	tokenString, err := auth.GenerateSessionToken(user.ID,
		[]byte(s.cfg.SecretKey), s.cfg.AdminSessionValidityDuration)
	if err != nil {
		s.logger.Error(c.Request.Context(), "error generating session token", "error", err.Error())
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Internal error."})
		return
	}

	c.SetCookie(sessionCookieName, tokenString,
		int(s.cfg.AdminSessionValidityDuration.Seconds()), "/admin", "", false, true)
	c.Redirect(http.StatusFound, "/admin/users/")
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/admin", "", false, true)
	c.Redirect(http.StatusFound, "/admin/login/")
}

func (s *Server) handleUsersList(c *gin.Context) {
	users, err := s.accounts.ListUsers(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "error listing users", "error", err.Error())
		c.String(http.StatusInternalServerError, "Internal error.")
		return
	}

	c.HTML(http.StatusOK, "users.html", gin.H{
		"Admin": actingAdmin(c),
		"Users": users,
	})
}

func (s *Server) handleNewUserForm(c *gin.Context) {
	c.HTML(http.StatusOK, "user_new.html", gin.H{
		"Admin": actingAdmin(c),
		"Form":  services.AdminCreateParams{IsActive: true},
	})
}

func (s *Server) handleCreateUser(c *gin.Context) {
	params := services.AdminCreateParams{
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		Name:        c.PostForm("name"),
		IsActive:    c.PostForm("is_active") == "on",
		IsStaff:     c.PostForm("is_staff") == "on",
		IsSuperuser: c.PostForm("is_superuser") == "on",
	}

	user, err := s.accounts.AdminCreateUser(c.Request.Context(), params)
	if err != nil {
		c.HTML(http.StatusBadRequest, "user_new.html", gin.H{
			"Admin": actingAdmin(c),
			"Error": errorMessage(err),
			"Form":  params,
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/users/"+strconv.FormatInt(user.ID, 10)+"/")
}

func (s *Server) handleUserDetail(c *gin.Context) {
	user, ok := s.lookupUser(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "user_edit.html", gin.H{
		"Admin": actingAdmin(c),
		"User":  user,
	})
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	user, ok := s.lookupUser(c)
	if !ok {
		return
	}

	email := c.PostForm("email")
	name := c.PostForm("name")
	isActive := c.PostForm("is_active") == "on"
	isStaff := c.PostForm("is_staff") == "on"
	isSuperuser := c.PostForm("is_superuser") == "on"

	params := services.AdminUpdateParams{
		Email:       &email,
		Name:        &name,
		IsActive:    &isActive,
		IsStaff:     &isStaff,
		IsSuperuser: &isSuperuser,
	}
	// blank password means keep the current one
	if password := c.PostForm("password"); password != "" {
		params.Password = &password
	}

	updated, err := s.accounts.AdminUpdateUser(c.Request.Context(), user.ID, params)
	if err != nil {
		c.HTML(http.StatusBadRequest, "user_edit.html", gin.H{
			"Admin": actingAdmin(c),
			"User":  user,
			"Error": errorMessage(err),
		})
		return
	}

	c.HTML(http.StatusOK, "user_edit.html", gin.H{
		"Admin": actingAdmin(c),
		"User":  updated,
		"Saved": true,
	})
}

func (s *Server) lookupUser(c *gin.Context) (*models.User, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "Not found.")
		return nil, false
	}

	user, err := s.accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.String(http.StatusNotFound, "Not found.")
		} else {
			s.logger.Error(c.Request.Context(), "error loading user", "error", err.Error())
			c.String(http.StatusInternalServerError, "Internal error.")
		}
		return nil, false
	}

	return user, true
}

func errorMessage(err error) string {
	var vErr *common.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Field + ": " + vErr.Reason
	}
	return "Internal error."
}
