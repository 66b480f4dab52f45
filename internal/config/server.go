package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig holds all settings for the HTTP service.
type ServerConfig struct {
	Server   HTTPConfig
	DB       DBConfig
	Auth     AuthConfig
	Insights InsightConfig
	Sentry   SentryConfig
	Log      LogConfig
	Rules    RulesConfig
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds the shared secret used to verify tokens issued by the
// identity provider.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// InsightConfig holds LLM insight settings. An empty APIKey disables the
// provider and every request gets rule-based insights.
type InsightConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	TimeoutSecs int           `mapstructure:"timeout_secs"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// SentryConfig holds error reporting settings.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Release     string `mapstructure:"release"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RulesConfig points at an optional tax rules override file.
type RulesConfig struct {
	File string `mapstructure:"file"`
}

// Debug reports whether debug logging is enabled.
func (c *ServerConfig) Debug() bool {
	return strings.EqualFold(c.Log.Level, "debug")
}

// LoadServerConfig reads .env (if present) and then environment variables with
// the TAXWISE_ prefix.
func LoadServerConfig() (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables")
	}

	v := viper.New()
	v.SetEnvPrefix("TAXWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxwise")
	v.SetDefault("db.password", "taxwise_secret")
	v.SetDefault("db.name", "taxwise")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("insights.api_key", "")
	v.SetDefault("insights.model", "claude-sonnet-4-20250514")
	v.SetDefault("insights.base_url", "https://api.anthropic.com/v1/messages")
	v.SetDefault("insights.timeout_secs", 30)
	v.SetDefault("insights.cache_ttl", "5m")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
	v.SetDefault("sentry.release", "taxwise@dev")

	v.SetDefault("log.level", "info")
	v.SetDefault("rules.file", "")

	envBindings := map[string]string{
		"server.port":           "TAXWISE_SERVER_PORT",
		"server.read_timeout":   "TAXWISE_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "TAXWISE_SERVER_WRITE_TIMEOUT",
		"server.environment":    "TAXWISE_SERVER_ENVIRONMENT",
		"db.host":               "TAXWISE_DB_HOST",
		"db.port":               "TAXWISE_DB_PORT",
		"db.user":               "TAXWISE_DB_USER",
		"db.password":           "TAXWISE_DB_PASSWORD",
		"db.name":               "TAXWISE_DB_NAME",
		"db.sslmode":            "TAXWISE_DB_SSLMODE",
		"db.max_open":           "TAXWISE_DB_MAX_OPEN",
		"db.max_idle":           "TAXWISE_DB_MAX_IDLE",
		"auth.jwt_secret":       "TAXWISE_AUTH_JWT_SECRET",
		"auth.issuer":           "TAXWISE_AUTH_ISSUER",
		"insights.api_key":      "TAXWISE_INSIGHTS_API_KEY",
		"insights.model":        "TAXWISE_INSIGHTS_MODEL",
		"insights.base_url":     "TAXWISE_INSIGHTS_BASE_URL",
		"insights.timeout_secs": "TAXWISE_INSIGHTS_TIMEOUT_SECS",
		"insights.cache_ttl":    "TAXWISE_INSIGHTS_CACHE_TTL",
		"sentry.dsn":            "TAXWISE_SENTRY_DSN",
		"sentry.environment":    "TAXWISE_SENTRY_ENVIRONMENT",
		"sentry.release":        "TAXWISE_SENTRY_RELEASE",
		"log.level":             "TAXWISE_LOG_LEVEL",
		"rules.file":            "TAXWISE_RULES_FILE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXWISE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg := &ServerConfig{
		Server: HTTPConfig{
			Port:         serverPort,
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			Environment:  v.GetString("server.environment"),
		},
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			MaxOpen:  v.GetInt("db.max_open"),
			MaxIdle:  v.GetInt("db.max_idle"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			Issuer:    v.GetString("auth.issuer"),
		},
		Insights: InsightConfig{
			APIKey:      v.GetString("insights.api_key"),
			Model:       v.GetString("insights.model"),
			BaseURL:     v.GetString("insights.base_url"),
			TimeoutSecs: v.GetInt("insights.timeout_secs"),
			CacheTTL:    v.GetDuration("insights.cache_ttl"),
		},
		Sentry: SentryConfig{
			DSN:         v.GetString("sentry.dsn"),
			Environment: v.GetString("sentry.environment"),
			Release:     v.GetString("sentry.release"),
		},
		Log:   LogConfig{Level: v.GetString("log.level")},
		Rules: RulesConfig{File: v.GetString("rules.file")},
	}

	if cfg.Auth.JWTSecret == "" && cfg.Server.Environment == "production" {
		return nil, fmt.Errorf("TAXWISE_AUTH_JWT_SECRET must be set in production")
	}

	return cfg, nil
}
