package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/strayrescue/internal/config"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	idToken "github.com/xyz-asif/strayrescue/internal/pkg/jwt"
	"github.com/xyz-asif/strayrescue/internal/store"
)

func newProtectedRouter(allowDebug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	profiles := identity.NewRepository(store.NewMemoryGateway())
	resolver := identity.NewResolver(identity.NewJWTVerifier("test-secret"), profiles)

	r := gin.New()
	r.Use(Identity(resolver, allowDebug))
	r.GET("/protected", func(c *gin.Context) {
		actor, ok := identity.FromGin(c)
		if !ok {
			c.AbortWithStatus(500)
			return
		}
		c.JSON(200, gin.H{"id": actor.ID, "role": actor.Role})
	})
	return r
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	r := newProtectedRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	require.Equal(t, false, body["success"])
	require.Equal(t, float64(401), body["statusCode"])
	require.Equal(t, "Authorization header required", body["message"])
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := newProtectedRouter(false)
	tok, err := idToken.GenerateToken("rescuer-1", "r1@example.com", "shelter", idToken.DefaultConfig("test-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "rescuer-1", body["id"])
	require.Equal(t, "shelter", body["role"])
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := newProtectedRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestAuthMiddleware_DebugHeadersOnlyWhenAllowed(t *testing.T) {
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(DebugUserHeader, "vet-1")
	req.Header.Set(DebugRoleHeader, "vet")

	w := httptest.NewRecorder()
	newProtectedRouter(true).ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	newProtectedRouter(false).ServeHTTP(w, req)
	require.Equal(t, 401, w.Code)
}

func TestAuthMiddleware_DebugHeadersRejectedOutsideDebugMode(t *testing.T) {
	for _, mode := range []string{"jwt", "firebase"} {
		cfg := &config.Config{AppEnv: "development", AuthMode: mode}

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(DebugUserHeader, "x")
		req.Header.Set(DebugRoleHeader, "admin")

		w := httptest.NewRecorder()
		newProtectedRouter(cfg.AllowDebugAuth()).ServeHTTP(w, req)
		require.Equal(t, 401, w.Code, mode)
	}

	cfg := &config.Config{AppEnv: "development", AuthMode: "debug"}
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(DebugUserHeader, "x")
	req.Header.Set(DebugRoleHeader, "admin")
	w := httptest.NewRecorder()
	newProtectedRouter(cfg.AllowDebugAuth()).ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
}
