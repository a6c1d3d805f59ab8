package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"school-attendance-api/internal/auth"
	"school-attendance-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var tokens = auth.NewTokenManager("test-secret", "iss", "aud", time.Hour)

func newRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	r.Use(extra...)
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRole))
	})
	return r
}

func get(t *testing.T, r http.Handler, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_Success(t *testing.T) {
	token, err := tokens.GenerateToken("user-1", "alice", models.RoleAdmin)
	require.NoError(t, err)

	w := get(t, newRouter(), "/protected", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "admin", w.Body.String())
}

func TestJWTAuthMiddleware_QueryToken(t *testing.T) {
	token, err := tokens.GenerateToken("kiosk-1", "gate", models.RoleKiosk)
	require.NoError(t, err)

	w := get(t, newRouter(), "/protected?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	w := get(t, newRouter(), "/protected", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BadToken(t *testing.T) {
	w := get(t, newRouter(), "/protected", "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter(RequireRole(models.RoleAdmin, models.RoleSupervisor))

	kiosk, err := tokens.GenerateToken("kiosk-1", "gate", models.RoleKiosk)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, get(t, r, "/protected", kiosk).Code)

	sup, err := tokens.GenerateToken("u-2", "bob", models.RoleSupervisor)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(t, r, "/protected", sup).Code)
}
