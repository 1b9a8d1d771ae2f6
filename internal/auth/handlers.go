package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mandar-Sonkusare/esg/internal/errors"
	"github.com/Mandar-Sonkusare/esg/internal/types"
)

// RegisterRoutes mounts register, login and refresh under group
func (s *Service) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/register", s.handleRegister)
	group.POST("/login", s.handleLogin)
	group.POST("/refresh", s.handleRefresh)
}

// handleRegister godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body types.CredentialsRequest true "Credentials"
// @Success 201 {object} types.RegisterResponse
// @Failure 400 {object} errors.AppError
// @Router /api/auth/register [post]
func (s *Service) handleRegister(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.Respond(c, errors.NewValidationError("Email or password missing", err.Error()))
		return
	}

	user, err := s.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.RegisterResponse{
		Message: "User registered successfully",
		ID:      user.ID,
		Email:   user.Email,
	})
}

// handleLogin godoc
// @Summary Log in and receive access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body types.CredentialsRequest true "Credentials"
// @Success 200 {object} TokenPair
// @Failure 400 {object} errors.AppError
// @Router /api/auth/login [post]
func (s *Service) handleLogin(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.Respond(c, errors.NewValidationError("Email or password missing", err.Error()))
		return
	}

	pair, err := s.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// handleRefresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body types.RefreshRequest true "Refresh token"
// @Success 200 {object} types.AccessTokenResponse
// @Failure 401 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /api/auth/refresh [post]
func (s *Service) handleRefresh(c *gin.Context) {
	var req types.RefreshRequest
	// an unreadable body is treated the same as a missing token
	_ = c.ShouldBindJSON(&req)

	access, err := s.Refresh(req.RefreshToken)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AccessTokenResponse{AccessToken: access})
}
