package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/siteapi/internal/auth/http/dto"
	authUseCase "github.com/allisson/siteapi/internal/auth/usecase"
	apperrors "github.com/allisson/siteapi/internal/errors"
	"github.com/allisson/siteapi/internal/httputil"
	customValidation "github.com/allisson/siteapi/internal/validation"
)

// AuthHandler serves login and the current-caller endpoint.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authUseCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// LoginHandler exchanges email and password for a bearer token.
// POST /v1/auth/login - unauthenticated, rate limited per IP.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Credential())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session))
}

// MeHandler returns the identity behind the bearer token.
// GET /v1/auth/me - requires authentication.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapClaimsToMeResponse(claims))
}
