package main

import (
	"fmt"
	"log/slog"

	"github.com/taskify-app/taskify-api/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfigSummary logs non-secret configuration details.
func logConfigSummary(cfg *config.Config, logger *slog.Logger) {
	logger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("cors_enabled", len(cfg.Server.TrustedOrigins) > 0),
		slog.Bool("smtp_enabled", cfg.Mail.SMTPHost != ""))

	logger.Debug("auth configuration",
		slog.Bool("jwt_secret_present", cfg.Auth.JWTSecret != ""),
		slog.Duration("access_token_lifetime", cfg.Auth.AccessTokenLifetime),
		slog.Duration("refresh_token_lifetime", cfg.Auth.RefreshTokenLifetime))
}
