package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	authUseCase "github.com/allisson/siteapi/internal/auth/usecase"
	apperrors "github.com/allisson/siteapi/internal/errors"
	"github.com/allisson/siteapi/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware requires "Authorization: Bearer <token>" (scheme
// case-insensitive) and stores the authorized claims in the request context.
// A missing or malformed header is rejected before the token is inspected.
func AuthenticationMiddleware(authUseCase authUseCase.AuthUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims, err := authUseCase.Authorize(c.Request.Context(), token)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// RequireRole lets the request through only when the authenticated role is
// one of roles. Must run after AuthenticationMiddleware.
func RequireRole(logger *slog.Logger, roles ...authDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c.Request.Context())
		if !ok {
			logger.Error("role check without authenticated claims")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !claims.Role.In(roles...) {
			httputil.HandleErrorGin(c, authDomain.ErrInsufficientRole, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// AccountKey charges rate limits to the authenticated account, falling back
// to the client IP for anonymous requests.
func AccountKey(c *gin.Context) string {
	if claims, ok := GetClaims(c.Request.Context()); ok {
		return "account:" + claims.Subject
	}
	return "ip:" + c.ClientIP()
}
