package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"assistec/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, RequestTimeout: time.Second},
		Auth:   config.AuthConfig{JWTSecret: "secret", Issuer: "assistec"},
	}
}

func TestNewRouter_PublicAndAdminGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testConfig(), appHandlers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{
		"/v1/admin/orders/os-1",
		"/v1/admin/orders/os-1/payments",
		"/v1/admin/settings/notifications",
		"/v1/admin/profiles/cli-1",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestNewRouter_RegistersEveryRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testConfig(), appHandlers{})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /v1/approvals/:token",
		"POST /v1/approvals/:token/approve",
		"POST /v1/approvals/:token/reject",
		"POST /v1/admin/profiles",
		"POST /v1/admin/orders",
		"PATCH /v1/admin/orders/:id/status",
		"PATCH /v1/admin/orders/:id/discount",
		"DELETE /v1/admin/orders/:id",
		"GET /v1/admin/orders/:id/history",
		"DELETE /v1/admin/orders/:id/approvals/:entry_id",
		"POST /v1/admin/orders/:id/items",
		"POST /v1/admin/orders/:id/messages",
		"POST /v1/admin/orders/:id/payments",
		"GET /v1/admin/payments/:payment_id",
		"PUT /v1/admin/settings/notifications",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestNewRepositories_Memory(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = config.StorageMemory

	repos, err := newRepositories(t.Context(), cfg)
	assert.NoError(t, err)
	assert.NotNil(t, repos.orders)
	assert.NotNil(t, repos.outbox)
	assert.NotNil(t, repos.payments)
}

func TestNewRepositories_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "sqlite"

	_, err := newRepositories(t.Context(), cfg)
	assert.Error(t, err)
}
