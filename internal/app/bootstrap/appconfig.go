// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds all service configuration.
//
// Values come from command-line flags, environment variables, a config
// file, or defaults (loaded in LoadConfig). The struct is passed to every
// lifecycle step, so anything needed during startup, request handling, or
// shutdown should live here.
type AppConfig struct {
	Env      string // "dev" or "prod"
	LogLevel string // debug, info, warn, error

	// HTTP server
	HTTPPort           int
	ReadHeaderTimeout  time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string

	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret string        // HS256 signing secret (must be strong in production)
	TokenTTL  time.Duration // token lifetime

	// Email/SMTP configuration. An empty host disables outbound mail.
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Password reset
	BaseURL              string        // base for reset links, e.g. "https://ecotrack.example.com"
	ResetTokenExpiry     time.Duration // lifetime of a reset token
	ResetCleanupInterval time.Duration // how often expired reset tokens are purged

	// Per-operation DB timeouts
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}

// IsProd reports whether the service runs in production mode.
func (c AppConfig) IsProd() bool {
	return c.Env == "prod"
}
