// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env files, config files). It
// provides type-safe access to application settings needed by different
// components while keeping configuration details separate from business logic.
//
// Environment variables use the TASKIFY_ prefix with nested keys joined by
// underscores, e.g. TASKIFY_AUTH_JWT_SECRET or TASKIFY_DATABASE_URL.
package config
