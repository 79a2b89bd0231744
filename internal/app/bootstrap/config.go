// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix namespaces environment variables, e.g. ECOTRACK_MONGO_URI.
const EnvPrefix = "ECOTRACK"

// devJWTSecret is the development default; ValidateConfig rejects it in prod.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appKey describes one configuration key. Legacy lists additional
// environment variable names honoured for compatibility with existing
// deployments; the prefixed name wins when both are set.
type appKey struct {
	Name    string
	Default any
	Desc    string
	Legacy  []string
}

// appConfigKeys defines the configuration keys for EcoTrack.
// Each key can be set by:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: ECOTRACK_MONGO_URI, ECOTRACK_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []appKey{
	{Name: "env", Default: "dev", Desc: "Runtime environment: 'dev' or 'prod'"},
	{Name: "log_level", Default: "info", Desc: "Log level: debug, info, warn, error"},

	{Name: "http_port", Default: 3000, Desc: "HTTP listen port", Legacy: []string{"PORT"}},
	{Name: "http_read_header_timeout", Default: "5s", Desc: "HTTP read header timeout"},
	{Name: "http_read_timeout", Default: "15s", Desc: "HTTP read timeout"},
	{Name: "http_write_timeout", Default: "30s", Desc: "HTTP write timeout"},
	{Name: "http_idle_timeout", Default: "60s", Desc: "HTTP idle timeout"},
	{Name: "shutdown_timeout", Default: "15s", Desc: "Graceful shutdown timeout"},
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI", Legacy: []string{"MONGODB_URI"}},
	{Name: "mongo_database", Default: "ecotrack", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_secret", Default: devJWTSecret, Desc: "Bearer token signing secret (must be strong in production)", Legacy: []string{"JWT_SECRET"}},
	{Name: "token_ttl", Default: "24h", Desc: "Bearer token lifetime"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables email)", Legacy: []string{"SMTP_HOST"}},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port", Legacy: []string{"SMTP_PORT"}},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username", Legacy: []string{"SMTP_USER"}},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password", Legacy: []string{"SMTP_PASS"}},
	{Name: "mail_from", Default: "noreply@ecotrack.local", Desc: "From email address", Legacy: []string{"EMAIL_FROM"}},
	{Name: "mail_from_name", Default: "EcoTrack", Desc: "From display name"},

	// Password reset
	{Name: "base_url", Default: "", Desc: "Base URL for password reset links"},
	{Name: "reset_token_expiry", Default: "1h", Desc: "Password reset token expiry (e.g., 30m, 1h)"},
	{Name: "reset_cleanup_interval", Default: "1h", Desc: "How often expired reset tokens are cleared"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Timeout for health check pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document DB operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for multi-step DB operations"},
}

// LoadConfig resolves configuration with precedence
// flags > env > config file > defaults. A .env file in the working
// directory, when present, is loaded into the environment first without
// overriding variables that are already set.
func LoadConfig(args []string) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	flags := pflag.NewFlagSet("ecotrack", pflag.ContinueOnError)
	configFile := flags.String("config", "", "Path to a config file (yaml, json or toml)")
	for _, k := range appConfigKeys {
		flags.String(k.Name, fmt.Sprint(k.Default), k.Desc)
	}
	if err := flags.Parse(args); err != nil {
		return AppConfig{}, err
	}

	v := viper.New()
	for _, k := range appConfigKeys {
		v.SetDefault(k.Name, k.Default)
		names := append([]string{k.Name, EnvPrefix + "_" + strings.ToUpper(k.Name)}, k.Legacy...)
		if err := v.BindEnv(names...); err != nil {
			return AppConfig{}, fmt.Errorf("bind env %s: %w", k.Name, err)
		}
		if f := flags.Lookup(k.Name); f != nil {
			if err := v.BindPFlag(k.Name, f); err != nil {
				return AppConfig{}, fmt.Errorf("bind flag %s: %w", k.Name, err)
			}
		}
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config %s: %w", *configFile, err)
		}
	}

	return AppConfig{
		Env:      strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		LogLevel: v.GetString("log_level"),

		HTTPPort:           v.GetInt("http_port"),
		ReadHeaderTimeout:  v.GetDuration("http_read_header_timeout"),
		ReadTimeout:        v.GetDuration("http_read_timeout"),
		WriteTimeout:       v.GetDuration("http_write_timeout"),
		IdleTimeout:        v.GetDuration("http_idle_timeout"),
		ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
		CORSAllowedOrigins: splitList(v.Get("cors_allowed_origins")),

		MongoURI:         v.GetString("mongo_uri"),
		MongoDatabase:    v.GetString("mongo_database"),
		MongoMaxPoolSize: v.GetUint64("mongo_max_pool_size"),
		MongoMinPoolSize: v.GetUint64("mongo_min_pool_size"),

		JWTSecret: v.GetString("jwt_secret"),
		TokenTTL:  v.GetDuration("token_ttl"),

		MailSMTPHost: v.GetString("mail_smtp_host"),
		MailSMTPPort: v.GetInt("mail_smtp_port"),
		MailSMTPUser: v.GetString("mail_smtp_user"),
		MailSMTPPass: v.GetString("mail_smtp_pass"),
		MailFrom:     v.GetString("mail_from"),
		MailFromName: v.GetString("mail_from_name"),

		BaseURL:              v.GetString("base_url"),
		ResetTokenExpiry:     v.GetDuration("reset_token_expiry"),
		ResetCleanupInterval: v.GetDuration("reset_cleanup_interval"),

		TimeoutPing:   v.GetDuration("timeout_ping"),
		TimeoutShort:  v.GetDuration("timeout_short"),
		TimeoutMedium: v.GetDuration("timeout_medium"),
	}, nil
}

// splitList accepts a comma-separated string (env, flags) or a list
// (config files).
func splitList(raw any) []string {
	var parts []string
	switch t := raw.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []string:
		parts = t
	case []any:
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig rejects configurations that cannot start safely.
//
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(cfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(cfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if cfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}
	if cfg.Env != "dev" && cfg.Env != "prod" {
		return fmt.Errorf("env must be 'dev' or 'prod', got %q", cfg.Env)
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 1 and 65535, got %d", cfg.HTTPPort)
	}
	if cfg.JWTSecret == "" {
		return errors.New("jwt_secret must be set")
	}
	if cfg.IsProd() && cfg.JWTSecret == devJWTSecret {
		return errors.New("jwt_secret must be changed from the development default in prod")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	if cfg.ResetTokenExpiry <= 0 {
		return errors.New("reset_token_expiry must be positive")
	}
	if cfg.ResetCleanupInterval <= 0 {
		return errors.New("reset_cleanup_interval must be positive")
	}
	if cfg.MongoMinPoolSize > cfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)", cfg.MongoMinPoolSize, cfg.MongoMaxPoolSize)
	}
	return nil
}
