package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/wekeepgrowing/institute-backend/pkg/config"
)

const serviceName = "payment"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Payment  PaymentConfig  `mapstructure:"payment"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
	SQLLevel string `mapstructure:"sql_level"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	EventChannel string `mapstructure:"event_channel"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

// PaymentConfig tunes schedule generation, order intents and receipts.
type PaymentConfig struct {
	InstallmentIntervalMonths int           `mapstructure:"installment_interval_months"`
	OrderIntentTTL            time.Duration `mapstructure:"order_intent_ttl"`
	ReceiptPrefix             string        `mapstructure:"receipt_prefix"`
}

var defaults = map[string]interface{}{
	"service.name":                        serviceName,
	"service.environment":                 "development",
	"server.http.host":                    "0.0.0.0",
	"server.http.port":                    8080,
	"server.grpc.host":                    "0.0.0.0",
	"server.grpc.port":                    9090,
	"database.port":                       5432,
	"database.ssl_mode":                   "disable",
	"database.max_open_conns":             25,
	"database.max_idle_conns":             5,
	"database.conn_max_lifetime":          "30m",
	"database.conn_max_idle_time":         "5m",
	"log.level":                           "info",
	"log.format":                          "json",
	"log.output":                          "stdout",
	"log.sql_level":                       "warn",
	"gateway.provider":                    "razorpay",
	"gateway.currency":                    "INR",
	"gateway.key_id":                      "",
	"gateway.key_secret":                  "",
	"jwt.secret":                          "",
	"redis.enabled":                       false,
	"redis.addr":                          "localhost:6379",
	"redis.event_channel":                 "payments.events",
	"redis.key_prefix":                    "payment:intent:",
	"payment.installment_interval_months": 1,
	"payment.order_intent_ttl":            "30m",
	"payment.receipt_prefix":              "RCPT",
}

// Load reads configs/<env>/payment.yaml and PAYMENT_* environment overrides.
func Load() (*Config, error) {
	raw, err := pkgconfig.Load(serviceName, pkgconfig.WithDefaults(defaults))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := raw.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Gateway.KeySecret == "" {
		return fmt.Errorf("gateway.key_secret is required")
	}
	if c.Gateway.Provider == GatewayRazorpay && c.Gateway.KeyID == "" {
		return fmt.Errorf("gateway.key_id is required for razorpay")
	}
	if c.Payment.InstallmentIntervalMonths < 1 {
		return fmt.Errorf("payment.installment_interval_months must be at least 1")
	}
	if c.IsProduction() && (c.Service.EnableSandbox || c.Gateway.Provider == GatewaySandbox) {
		return fmt.Errorf("sandbox gateway cannot be enabled in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Service.Environment == "production"
}
