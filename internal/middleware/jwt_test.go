package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvb-admin/fire-company-api/internal/models"
	"github.com/cvb-admin/fire-company-api/internal/service"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role models.UserRole) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newSecuredRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWT(service.NewAuthService(testSecret))}, extra...)
	chain = append(chain, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/protected", chain...)
	return r
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	r := newSecuredRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRejectsMalformedToken(t *testing.T) {
	r := newSecuredRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	r := newSecuredRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleMember))
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireRolesForbidsMember(t *testing.T) {
	r := newSecuredRouter(RequireRoles(models.RoleAdmin, models.RoleOfficer))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleMember))
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesAllowsOfficer(t *testing.T) {
	r := newSecuredRouter(RequireRoles(models.RoleAdmin, models.RoleOfficer))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleOfficer))
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
