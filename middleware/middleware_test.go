package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/auth"
	"github.com/MUHULILAMRI/Done-Fast/config"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testTokens() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough!",
		Expiration: time.Hour,
		Issuer:     "donefast-test",
	})
}

func issue(t *testing.T, tokens *auth.TokenService, role string) (string, *auth.Claims) {
	t.Helper()
	token, _, err := tokens.Issue(models.User{ID: "u1", Email: "u1@example.com", Role: role})
	require.NoError(t, err)
	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	return token, claims
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	tokens := testTokens()
	blacklist := auth.NewMemoryTokenBlacklist()
	r := gin.New()
	r.GET("/me", ValidateToken(tokens, blacklist), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": auth.UserID(c)})
	})

	token, claims := issue(t, tokens, models.RoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)

	// raw header, as the storefront sends it
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", token)
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)).Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is missing")

	require.NoError(t, blacklist.Add(context.Background(), claims.ID, time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestOptionalAuth(t *testing.T) {
	tokens := testTokens()
	r := gin.New()
	r.GET("/cart", OptionalAuth(tokens, nil), func(c *gin.Context) {
		c.String(http.StatusOK, auth.UserID(c))
	})

	assert.Equal(t, "", do(r, httptest.NewRequest(http.MethodGet, "/cart", nil)).Body.String())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", w.Body.String())

	token, _ := issue(t, tokens, models.RoleCustomer)
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, "u1", do(r, req).Body.String())
}

func TestRequireAdmin(t *testing.T) {
	tokens := testTokens()
	r := gin.New()
	r.GET("/admin", RequireAdmin(tokens, nil, "secret-key"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	admin, _ := issue(t, tokens, models.RoleAdmin)
	customer, _ := issue(t, tokens, models.RoleCustomer)

	cases := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"admin token", map[string]string{"Authorization": "Bearer " + admin}, http.StatusNoContent},
		{"customer token", map[string]string{"Authorization": "Bearer " + customer}, http.StatusForbidden},
		{"api key", map[string]string{"X-API-KEY": "secret-key"}, http.StatusNoContent},
		{"wrong api key", map[string]string{"X-API-KEY": "nope"}, http.StatusUnauthorized},
		{"nothing", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, do(r, req).Code)
		})
	}
}

func TestRequireAdmin_EmptyKeyDisablesHeader(t *testing.T) {
	r := gin.New()
	r.GET("/admin", RequireAdmin(testTokens(), nil, ""), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-API-KEY", "")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	w := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestValidation(t *testing.T) {
	require.NoError(t, SetupValidator())

	type body struct {
		Name  string `json:"name" binding:"required,min=2"`
		Phone string `json:"phone" binding:"required,idphone"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := do(r, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"B","phone":"12345"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"name"`)
	assert.Contains(t, w.Body.String(), "Must be at least 2 characters")
	assert.Contains(t, w.Body.String(), "Format Nomor WhatsApp tidak valid")

	w = do(r, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Budi","phone":"081234567890"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}
