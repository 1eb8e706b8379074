package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biopass/config"
	"biopass/internal/domain/service"
	"biopass/internal/infra/auth"
)

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{TokenTTL: time.Minute},
	}
	cfg.SecretKey.Token = "test_signing_secret_long_enough_for_hs256"

	svc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return svc
}

func invokeAuthenticate(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()

	m := NewAuthMiddleware(newTestTokenService(t))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	err := m.Authenticate(func(echo.Context) error {
		nextCalled = true

		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	return rec, c, nextCalled
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, _, nextCalled := invokeAuthenticate(t, "")

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_MISSING")
}

func TestAuthMiddleware_NotBearerFormat(t *testing.T) {
	rec, _, nextCalled := invokeAuthenticate(t, "Basic dXNlcjpwdw==")

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, _, nextCalled := invokeAuthenticate(t, "Bearer not.a.token")

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokenSvc := newTestTokenService(t)
	userID := uuid.New()
	token, err := tokenSvc.Issue(userID)
	require.NoError(t, err)

	m := NewAuthMiddleware(tokenSvc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	err = m.Authenticate(func(c echo.Context) error {
		nextCalled = true
		// The subject of the token must be exposed to handlers.
		assert.Equal(t, userID, c.Get(ContextKeyUserID))

		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}
