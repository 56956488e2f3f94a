package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kitchen-allocation-api/internal/auth"
	"kitchen-allocation-api/internal/config"
	"kitchen-allocation-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRouter(issuer *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(issuer))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt(UserIDKey)})
	})
	r.POST("/chef-only", RequireRole(models.RoleChef), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func tokenFor(t *testing.T, issuer *auth.Issuer, role models.Role) string {
	t.Helper()
	token, err := issuer.GenerateToken(models.User{ID: 3, Username: "someone", Role: role})
	require.NoError(t, err)
	return token
}

func TestJWTAuthMiddleware_Success(t *testing.T) {
	issuer := auth.NewIssuer(config.Default().Auth)
	r := newRouter(issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, models.RoleCook))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":3}`, w.Body.String())
}

func TestJWTAuthMiddleware_QueryToken(t *testing.T) {
	issuer := auth.NewIssuer(config.Default().Auth)
	r := newRouter(issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+tokenFor(t, issuer, models.RoleCook), nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	r := newRouter(auth.NewIssuer(config.Default().Auth))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	r := newRouter(auth.NewIssuer(config.Default().Auth))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	issuer := auth.NewIssuer(config.Default().Auth)
	r := newRouter(issuer)

	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleChef, http.StatusOK},
		{models.RoleCook, http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/chef-only", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, issuer, tt.role))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)
		require.Equal(t, tt.want, w.Code, string(tt.role))
	}
}
