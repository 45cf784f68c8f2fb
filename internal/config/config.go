package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultAppName           = "NairaLock"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultShutdownDelay     = 10 * time.Second
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultAccessTokenTTL    = time.Hour
	defaultSettlementLatency = 1500 * time.Millisecond
	defaultLoginRateLimit    = 5
	defaultDemoPassword      = "nairalock-demo"
	devJWTSecret             = "nairalock-dev-secret"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string        `mapstructure:"APP_NAME"`
	AppEnv            string        `mapstructure:"APP_ENV"`
	Port              string        `mapstructure:"PORT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	AMQPURL           string        `mapstructure:"AMQP_URL"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL    time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	ShutdownPeriod    time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	IdempotencyTTL    time.Duration `mapstructure:"IDEMPOTENCY_TTL"`
	SettlementLatency time.Duration `mapstructure:"SETTLEMENT_LATENCY"`
	LoginRateLimit    int           `mapstructure:"LOGIN_RATE_LIMIT"`
	DemoPassword      string        `mapstructure:"DEMO_PASSWORD"`
}

var keys = []string{
	"APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "DATABASE_URL", "REDIS_URL", "AMQP_URL",
	"JWT_SECRET", "ACCESS_TOKEN_TTL", "SHUTDOWN_TIMEOUT", "IDEMPOTENCY_TTL",
	"SETTLEMENT_LATENCY", "LOGIN_RATE_LIMIT", "DEMO_PASSWORD",
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_NAME", defaultAppName)
	v.SetDefault("APP_ENV", defaultAppEnv)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("ACCESS_TOKEN_TTL", defaultAccessTokenTTL)
	v.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdownDelay)
	v.SetDefault("IDEMPOTENCY_TTL", defaultIdempotencyTTL)
	v.SetDefault("SETTLEMENT_LATENCY", defaultSettlementLatency)
	v.SetDefault("LOGIN_RATE_LIMIT", defaultLoginRateLimit)
	v.SetDefault("DEMO_PASSWORD", defaultDemoPassword)
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.SettlementLatency < 0 {
		return Config{}, fmt.Errorf("invalid SETTLEMENT_LATENCY: must not be negative")
	}

	if cfg.IsDev() {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
		return cfg, nil
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", cfg.AppEnv)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the service runs in a local/development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}
