package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TASKIFY"

// defaults lists every known key with its default value. Registering each key
// is also what lets viper.Unmarshal see values coming only from the environment.
var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "15s",
	"server.idle_timeout":         "60s",
	"server.shutdown_timeout":     "10s",
	"server.trusted_origins":      []string{},
	"server.expose_error_details": false,

	"database.url":               "",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": "5m",

	"auth.jwt_secret":             "",
	"auth.access_token_lifetime":  "1h",
	"auth.refresh_token_lifetime": "720h",
	"auth.reset_token_lifetime":   "1h",
	"auth.bcrypt_cost":            10,

	"mail.smtp_host":      "",
	"mail.smtp_port":      587,
	"mail.smtp_user":      "",
	"mail.smtp_password":  "",
	"mail.from":           "no-reply@taskify.local",
	"mail.reset_url_base": "http://localhost:3000/resetPassword",

	"rate_limit.auth_rps":   1.0,
	"rate_limit.auth_burst": 10,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory, when present, is loaded into the
// process environment first without overriding variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
