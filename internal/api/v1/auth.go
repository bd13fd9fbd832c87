package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api/dto"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// @Summary Sign up
// @Description Sign up a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param signup body dto.SignUpRequest true "Sign up request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrValidation))
		return
	}

	authResponse, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorw("failed to sign up", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, authResponse)
}

// @Summary Login
// @Description Login a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrValidation))
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorw("failed to login", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, authResponse)
}
