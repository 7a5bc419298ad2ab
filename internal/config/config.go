// Package config loads service configuration.
//
// Configuration is read from, in order of precedence:
//  1. Environment variables (SERVER_PORT, DYNAMODB_ENDPOINT, JWT_SECRET, ...)
//  2. config.yaml in the working directory or ./config (optional)
//  3. Defaults
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	DynamoDB    DynamoDBConfig    `mapstructure:"dynamodb"`
	Log         LogConfig         `mapstructure:"log"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Twilio      TwilioConfig      `mapstructure:"twilio"`
	MercadoPago MercadoPagoConfig `mapstructure:"mercadopago"`
	Outbox      OutboxConfig      `mapstructure:"outbox"`
	Worker      WorkerConfig      `mapstructure:"worker"`
	Business    BusinessConfig    `mapstructure:"business"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// PublicOrigin is the base of client-facing links, e.g. https://loja.example.com.
	PublicOrigin string   `mapstructure:"public_origin"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// DynamoDBConfig mirrors the AWS_* variables understood by the SDK; local
// DynamoDB does not validate credentials but the SDK requires them.
type DynamoDBConfig struct {
	Region          string      `mapstructure:"region"`
	Endpoint        string      `mapstructure:"endpoint"`
	AccessKeyID     string      `mapstructure:"access_key_id"`
	SecretAccessKey string      `mapstructure:"secret_access_key"`
	Tables          TableConfig `mapstructure:"tables"`
}

type TableConfig struct {
	Orders        string `mapstructure:"orders"`
	StatusHistory string `mapstructure:"status_history"`
	Approvals     string `mapstructure:"approvals"`
	Items         string `mapstructure:"items"`
	Messages      string `mapstructure:"messages"`
	Outbox        string `mapstructure:"outbox"`
	Settings      string `mapstructure:"settings"`
	Profiles      string `mapstructure:"profiles"`
	Payments      string `mapstructure:"payments"`
	Counters      string `mapstructure:"counters"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type TwilioConfig struct {
	AccountSID   string `mapstructure:"account_sid"`
	AuthToken    string `mapstructure:"auth_token"`
	WhatsAppFrom string `mapstructure:"whatsapp_from"`
	Mock         bool   `mapstructure:"mock"`
}

type MercadoPagoConfig struct {
	AccessToken string `mapstructure:"access_token"`
	Mock        bool   `mapstructure:"mock"`
	// Sandbox payer used when a TEST- token charges without payer data.
	TestPayerEmail  string `mapstructure:"test_payer_email"`
	TestPayerUserID string `mapstructure:"test_payer_user_id"`
}

// Sandbox reports whether AccessToken is a Mercado Pago test credential.
func (c MercadoPagoConfig) Sandbox() bool {
	return strings.HasPrefix(strings.TrimSpace(c.AccessToken), "TEST-")
}

type OutboxConfig struct {
	Schedule    string `mapstructure:"schedule"`
	BatchSize   int    `mapstructure:"batch_size"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

type WorkerConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

// BusinessConfig seeds notification settings until an admin saves their own.
type BusinessConfig struct {
	Name          string `mapstructure:"name"`
	Address       string `mapstructure:"address"`
	Hours         string `mapstructure:"hours"`
	StaffWhatsApp string `mapstructure:"staff_whatsapp"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	switch c.Storage.Driver {
	case StorageDynamoDB, StorageMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Outbox.MaxAttempts <= 0 {
		return fmt.Errorf("outbox.max_attempts must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", 15*time.Second)
	v.SetDefault("server.public_origin", "http://localhost:3000")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("storage.driver", StorageDynamoDB)

	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.access_key_id", "local")
	v.SetDefault("dynamodb.secret_access_key", "local")
	v.SetDefault("dynamodb.tables.orders", "service_orders")
	v.SetDefault("dynamodb.tables.status_history", "order_status_history")
	v.SetDefault("dynamodb.tables.approvals", "approval_history")
	v.SetDefault("dynamodb.tables.items", "service_order_items")
	v.SetDefault("dynamodb.tables.messages", "order_messages")
	v.SetDefault("dynamodb.tables.outbox", "notification_outbox")
	v.SetDefault("dynamodb.tables.settings", "settings")
	v.SetDefault("dynamodb.tables.profiles", "profiles")
	v.SetDefault("dynamodb.tables.payments", "payments")
	v.SetDefault("dynamodb.tables.counters", "counters")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("auth.issuer", "assistec")

	v.SetDefault("twilio.mock", false)
	v.SetDefault("mercadopago.mock", false)
	v.SetDefault("mercadopago.test_payer_email", "")
	v.SetDefault("mercadopago.test_payer_user_id", "")

	v.SetDefault("outbox.schedule", "@every 30s")
	v.SetDefault("outbox.batch_size", 25)
	v.SetDefault("outbox.max_attempts", 5)

	v.SetDefault("worker.pool_size", 16)

	v.SetDefault("business.name", "Assistência Técnica")
	v.SetDefault("business.address", "")
	v.SetDefault("business.hours", "")
	v.SetDefault("business.staff_whatsapp", "")
}

// bindEnv maps the flat environment names used in deployments onto config keys.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := map[string][]string{
		"server.port":                    {"SERVER_PORT", "PORT"},
		"server.public_origin":           {"PUBLIC_ORIGIN"},
		"storage.driver":                 {"STORAGE_DRIVER"},
		"dynamodb.region":                {"AWS_REGION"},
		"dynamodb.endpoint":              {"DYNAMODB_ENDPOINT"},
		"dynamodb.access_key_id":         {"AWS_ACCESS_KEY_ID"},
		"dynamodb.secret_access_key":     {"AWS_SECRET_ACCESS_KEY"},
		"dynamodb.tables.orders":         {"ORDERS_TABLE"},
		"dynamodb.tables.payments":       {"PAYMENTS_TABLE"},
		"auth.jwt_secret":                {"JWT_SECRET"},
		"twilio.account_sid":             {"TWILIO_ACCOUNT_SID"},
		"twilio.auth_token":              {"TWILIO_AUTH_TOKEN"},
		"twilio.whatsapp_from":           {"TWILIO_WHATSAPP_NUMBER"},
		"twilio.mock":                    {"TWILIO_MOCK"},
		"mercadopago.access_token":       {"MERCADOPAGO_ACCESS_TOKEN"},
		"mercadopago.mock":               {"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"},
		"mercadopago.test_payer_email":   {"MERCADOPAGO_TEST_PAYER_EMAIL"},
		"mercadopago.test_payer_user_id": {"MERCADOPAGO_TEST_PAYER_USER_ID"},
		"business.staff_whatsapp":        {"STAFF_WHATSAPP"},
	}
	for key, envs := range explicit {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}
