package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := stubValidator{
		"advisor": {UserID: "adv-1", Role: models.RoleAdvisor},
		"student": {UserID: "s1", Role: models.RoleStudent},
	}
	r := gin.New()
	group := r.Group("/", JWT(tokens))
	group.GET("/students/:id/plan", StaffOrSelf(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	group.DELETE("/cohort/cache", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func serve(r *gin.Engine, method, path, auth string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestJWTMiddleware(t *testing.T) {
	r := newProtectedRouter()

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/students/s1/plan", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/students/s1/plan", "Token advisor"))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/students/s1/plan", "Bearer nope"))
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/students/s1/plan", "bearer advisor"))
}

func TestRBACSelfAndRoles(t *testing.T) {
	r := newProtectedRouter()

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/students/s1/plan", "Bearer student"))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/students/s2/plan", "Bearer student"))
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/students/s2/plan", "Bearer advisor"))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/cohort/cache", "Bearer advisor"))
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RBAC(string(models.RoleAdmin)), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/x", ""))
}
