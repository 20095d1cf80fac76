package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"donation-service/internal/models"
	"donation-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func newAuthTestRouter(jwtService *services.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authMW := AuthMiddleware(jwtService)
	superAdminMW := RequireRole(models.RoleSuperAdmin)

	r.GET("/protected", authMW, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(ctxRole)})
	})
	r.GET("/super", authMW, superAdminMW, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	return doRequestPath(r, "/protected", token)
}

func doRequestPath(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := newAuthTestRouter(services.NewJWTService("test-secret"))

	w := doRequest(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "authorization required", body["error"])
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	r := newAuthTestRouter(services.NewJWTService("test-secret"))

	for _, header := range []string{"Bearer garbage", "Basic abc123", "Bearer "} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusForbidden, w.Code, "header %q", header)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "invalid token", body["error"])
	}
}

func TestAuthMiddlewareWrongSigningKey(t *testing.T) {
	r := newAuthTestRouter(services.NewJWTService("test-secret"))
	otherService := services.NewJWTService("another-secret")

	token, err := otherService.GenerateToken(&models.Admin{ID: 1, Email: "a@b.co", Role: models.RoleAdmin})
	assert.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	r := newAuthTestRouter(jwtService)

	token, err := jwtService.GenerateToken(&models.Admin{ID: 1, Email: "a@b.co", Role: models.RoleAdmin})
	assert.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddlewareMissingRoleDefaultsToAdmin(t *testing.T) {
	secret := "test-secret"
	r := newAuthTestRouter(services.NewJWTService(secret))

	// Token minted before the role claim existed.
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AdminID: 1,
		Email:   "a@b.co",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRoleBlocksRegularAdmin(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	r := newAuthTestRouter(jwtService)

	token, err := jwtService.GenerateToken(&models.Admin{ID: 1, Email: "a@b.co", Role: models.RoleAdmin})
	assert.NoError(t, err)

	w := doRequestPath(r, "/super", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "insufficient permissions", body["error"])
}

func TestRequireRoleAllowsSuperAdmin(t *testing.T) {
	jwtService := services.NewJWTService("test-secret")
	r := newAuthTestRouter(jwtService)

	token, err := jwtService.GenerateToken(&models.Admin{ID: 1, Email: "a@b.co", Role: models.RoleSuperAdmin})
	assert.NoError(t, err)

	w := doRequestPath(r, "/super", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			name:     "first forwarded entry wins",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1", "X-Real-IP": "10.0.0.2"},
			expected: "203.0.113.5",
		},
		{
			name:     "real ip fallback",
			headers:  map[string]string{"X-Real-IP": "10.0.0.2"},
			expected: "10.0.0.2",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.expected, getClientIP(c))
		})
	}
}
