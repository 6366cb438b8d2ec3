package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elevate/clubhub/internal/app/models"
	pkgauth "github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(exp time.Duration) *pkgauth.JWTService {
	return pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:      "middleware-test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "clubhub-test",
	})
}

func tokenFor(t *testing.T, svc *pkgauth.JWTService, role models.RoleType) string {
	t.Helper()
	token, _, err := svc.GenerateToken(&models.User{ID: 42, Email: "sam@school.edu", Role: role})
	require.NoError(t, err)
	return token
}

func guardedRouter(svc *pkgauth.JWTService, roles ...models.RoleType) *gin.Engine {
	m := NewAuthMiddleware(svc)
	r := gin.New()
	g := r.Group("", m.JWTAuth())
	if len(roles) > 0 {
		g.Use(m.RolesAllowed(roles...))
	}
	g.GET("/me", func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.UserID, "role": actor.Role})
	})
	return r
}

func get(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsBearerAndRawTokens(t *testing.T) {
	svc := newJWT(time.Hour)
	r := guardedRouter(svc)
	token := tokenFor(t, svc, models.RoleStudent)

	w := get(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"role":"STUDENT"}`, w.Body.String())

	w = get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/me?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthRejects(t *testing.T) {
	svc := newJWT(time.Hour)
	r := guardedRouter(svc)

	w := get(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"AUTH_008"`)

	w = get(r, "/me", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"AUTH_005"`)

	other := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "another-secret", AccessTokenExp: time.Hour, TokenIssuer: "x"})
	w = get(r, "/me", "Bearer "+tokenFor(t, other, models.RoleStudent))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	svc := newJWT(-time.Minute)
	r := guardedRouter(svc)

	w := get(r, "/me", "Bearer "+tokenFor(t, svc, models.RoleStudent))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"AUTH_006"`)
}

func TestRolesAllowed(t *testing.T) {
	svc := newJWT(time.Hour)
	r := guardedRouter(svc, models.RoleSuperAdmin, models.RoleClubAdmin)

	assert.Equal(t, http.StatusForbidden, get(r, "/me", "Bearer "+tokenFor(t, svc, models.RoleStudent)).Code)
	assert.Equal(t, http.StatusOK, get(r, "/me", "Bearer "+tokenFor(t, svc, models.RoleClubAdmin)).Code)
	assert.Equal(t, http.StatusOK, get(r, "/me", "Bearer "+tokenFor(t, svc, models.RoleSuperAdmin)).Code)
}

func TestRolesAllowedWithoutAuth(t *testing.T) {
	m := NewAuthMiddleware(newJWT(time.Hour))
	r := gin.New()
	r.GET("/x", m.RolesAllowed(models.RoleStudent), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, get(r, "/x", "").Code)
}
