package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/siteapi/internal/auth/domain"
	"github.com/allisson/siteapi/internal/httputil"
)

func newProtectedRouter(authUseCase *mockAuthUseCase, roles ...authDomain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := discardLogger()

	router := gin.New()
	handlers := []gin.HandlerFunc{AuthenticationMiddleware(authUseCase, logger)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(logger, roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := GetClaims(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject})
	})
	router.GET("/protected", handlers...)
	return router
}

func doGet(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func editorClaims() *authDomain.Claims {
	return &authDomain.Claims{
		Subject: uuid.Must(uuid.NewV7()).String(),
		Email:   "editor@example.com",
		Role:    authDomain.RoleEditor,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Valid token", func(t *testing.T) {
		authUseCase := &mockAuthUseCase{}
		claims := editorClaims()
		authUseCase.On("Authorize", mock.Anything, "abc.def.ghi").Return(claims, nil).Once()

		w := doGet(newProtectedRouter(authUseCase), "Bearer abc.def.ghi")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), claims.Subject)
		authUseCase.AssertExpectations(t)
	})

	t.Run("Scheme is case-insensitive", func(t *testing.T) {
		authUseCase := &mockAuthUseCase{}
		authUseCase.On("Authorize", mock.Anything, "abc.def.ghi").Return(editorClaims(), nil).Once()

		w := doGet(newProtectedRouter(authUseCase), "bEaReR abc.def.ghi")

		assert.Equal(t, http.StatusOK, w.Code)
		authUseCase.AssertExpectations(t)
	})

	headers := map[string]string{
		"Missing header":       "",
		"Basic scheme":         "Basic dXNlcjpwYXNz",
		"Scheme only":          "Bearer",
		"Empty token":          "Bearer    ",
		"No space":             "Bearerabc.def.ghi",
		"Token without scheme": "abc.def.ghi",
	}
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			authUseCase := &mockAuthUseCase{}

			w := doGet(newProtectedRouter(authUseCase), header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "unauthorized", decodeError(t, w).Error)
			authUseCase.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything)
		})
	}

	t.Run("Every rejection kind yields the same body", func(t *testing.T) {
		kinds := []error{
			authDomain.ErrMalformedToken,
			authDomain.ErrSignatureMismatch,
			authDomain.ErrExpiredToken,
			authDomain.ErrInvalidCredentials,
			authDomain.ErrAccountDisabled,
		}

		var bodies []string
		for _, kind := range kinds {
			authUseCase := &mockAuthUseCase{}
			authUseCase.On("Authorize", mock.Anything, "tok").Return(nil, kind).Once()

			w := doGet(newProtectedRouter(authUseCase), "Bearer tok")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			bodies = append(bodies, w.Body.String())
		}

		for _, body := range bodies[1:] {
			assert.Equal(t, bodies[0], body)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("Allowed role", func(t *testing.T) {
		authUseCase := &mockAuthUseCase{}
		authUseCase.On("Authorize", mock.Anything, "tok").Return(editorClaims(), nil).Once()

		w := doGet(newProtectedRouter(authUseCase, authDomain.RoleAdmin, authDomain.RoleEditor), "Bearer tok")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Insufficient role", func(t *testing.T) {
		authUseCase := &mockAuthUseCase{}
		authUseCase.On("Authorize", mock.Anything, "tok").Return(editorClaims(), nil).Once()

		w := doGet(newProtectedRouter(authUseCase, authDomain.RoleAdmin), "Bearer tok")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", decodeError(t, w).Error)
	})

	t.Run("Without authentication", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/protected", RequireRole(discardLogger(), authDomain.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAccountKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Authenticated", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		claims := editorClaims()
		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))

		assert.Equal(t, "account:"+claims.Subject, AccountKey(c))
	})

	t.Run("Anonymous", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "192.0.2.10:5555"

		assert.Equal(t, "ip:192.0.2.10", AccountKey(c))
	})
}
