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

	"assistec/internal/adapter/http/handlers"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(testSecret, "assistec"))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(handlers.ActorIDKey))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Subject:   "admin-1",
		Issuer:    "assistec",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	otherIssuer := valid
	otherIssuer.Issuer = "someone-else"

	cases := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{name: "valid token", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), valid), code: http.StatusOK, body: "admin-1"},
		{name: "missing header", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("nope"), valid), code: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), expired), code: http.StatusUnauthorized},
		{name: "other issuer", header: "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), otherIssuer), code: http.StatusUnauthorized},
		{name: "other algorithm", header: "Bearer " + signed(t, jwt.SigningMethodHS512, []byte(testSecret), valid), code: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			authRouter().ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.String(http.StatusServiceUnavailable, c.Request.Context().Err().Error())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "context deadline exceeded", w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
