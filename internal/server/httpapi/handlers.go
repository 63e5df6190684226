package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/accountd/internal/common"
	"github.com/dkovalev/accountd/internal/server/services"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type createTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var in createUserRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request."})
		return
	}

	user, err := s.accounts.Register(c.Request.Context(), in.Email, in.Password, in.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}

	// the password never appears in the response
	c.JSON(http.StatusCreated, gin.H{"email": user.Email, "name": user.Name})
}

func (s *Server) handleCreateToken(c *gin.Context) {
	var in createTokenRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest,
			gin.H{"non_field_errors": []string{`Must include "email" and "password".`}})
		return
	}

	key, err := s.accounts.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": key})
}

func (s *Server) handleMyProfile(c *gin.Context) {
	c.JSON(http.StatusOK, services.ToProfileView(actingUser(c)))
}

func (s *Server) handleUpdateMyProfile(c *gin.Context) {
	var in updateProfileRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request."})
		return
	}

	user, err := s.accounts.UpdateProfile(c.Request.Context(), actingUser(c), services.UpdateProfileParams{
		Name:     in.Name,
		Password: in.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.ToProfileView(user))
}

func (s *Server) handlePresignAvatarUpload(c *gin.Context) {
	key, url, err := s.avatars.PresignUpload(c.Request.Context(), actingUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "upload_url": url})
}

func (s *Server) handleAvatarDownloadURL(c *gin.Context) {
	url, err := s.avatars.DownloadURL(c.Request.Context(), actingUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

// writeError maps service errors onto the API's structured responses.
func (s *Server) writeError(c *gin.Context, err error) {
	var vErr *common.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{vErr.Field: []string{vErr.Reason}})
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.JSON(http.StatusBadRequest,
			gin.H{"non_field_errors": []string{"Unable to log in with provided credentials."}})
	case errors.Is(err, common.ErrorInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	default:
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal error."})
	}
}
