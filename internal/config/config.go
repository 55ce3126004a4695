package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Mail      MailConfig      `mapstructure:"mail"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// TrustedOrigins enables CORS for the listed origins. Empty disables CORS.
	TrustedOrigins []string `mapstructure:"trusted_origins"`

	// ExposeErrorDetails adds a redacted "details" field to error responses.
	// Keep it off in production.
	ExposeErrorDetails bool `mapstructure:"expose_error_details"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	AccessTokenLifetime  time.Duration `mapstructure:"access_token_lifetime" validate:"required,gt=0"`
	RefreshTokenLifetime time.Duration `mapstructure:"refresh_token_lifetime" validate:"required,gtfield=AccessTokenLifetime"`
	ResetTokenLifetime   time.Duration `mapstructure:"reset_token_lifetime" validate:"required,gt=0"`
	BcryptCost           int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// MailConfig holds outgoing mail settings. An empty SMTPHost means messages
// are written to the log instead of being sent.
type MailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port" validate:"omitempty,gt=0,lt=65536"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	From         string `mapstructure:"from" validate:"required,email"`
	ResetURLBase string `mapstructure:"reset_url_base" validate:"required,url"`
}

// RateLimitConfig limits requests to the public authentication endpoints per client IP.
type RateLimitConfig struct {
	AuthRPS   float64 `mapstructure:"auth_rps" validate:"gte=0"`
	AuthBurst int     `mapstructure:"auth_burst" validate:"gte=0"`
}
