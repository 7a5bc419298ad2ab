package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, StorageDynamoDB, cfg.Storage.Driver)
	assert.Equal(t, "service_orders", cfg.DynamoDB.Tables.Orders)
	assert.Equal(t, "approval_history", cfg.DynamoDB.Tables.Approvals)
	assert.Equal(t, "@every 30s", cfg.Outbox.Schedule)
	assert.Equal(t, 5, cfg.Outbox.MaxAttempts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DYNAMODB_ENDPOINT", "http://dynamodb:8000")
	t.Setenv("PUBLIC_ORIGIN", "https://loja.example.com")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "http://dynamodb:8000", cfg.DynamoDB.Endpoint)
	assert.Equal(t, "https://loja.example.com", cfg.Server.PublicOrigin)
	assert.True(t, cfg.MercadoPago.Mock)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := Config{
		Server:  ServerConfig{Port: 8080, RequestTimeout: time.Second},
		Storage: StorageConfig{Driver: "sqlite"},
		Auth:    AuthConfig{JWTSecret: "x"},
		Outbox:  OutboxConfig{MaxAttempts: 1},
	}
	assert.Error(t, cfg.Validate())
}
