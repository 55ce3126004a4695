package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/taskify-app/taskify-api/internal/platform/postgres"
)

// migrationCommands lists the goose commands the -migrate flag accepts.
var migrationCommands = map[string]func(db *sql.DB, dir string) error{
	"up":      func(db *sql.DB, dir string) error { return goose.Up(db, dir) },
	"down":    func(db *sql.DB, dir string) error { return goose.Down(db, dir) },
	"status":  func(db *sql.DB, dir string) error { return goose.Status(db, dir) },
	"version": func(db *sql.DB, dir string) error { return goose.Version(db, dir) },
	"reset":   func(db *sql.DB, dir string) error { return goose.Reset(db, dir) },
}

// runMigrations executes a goose command against the migrations embedded in
// the binary.
func runMigrations(db *sql.DB, command string, logger *slog.Logger) error {
	command = strings.ToLower(strings.TrimSpace(command))
	migrate, ok := migrationCommands[command]
	if !ok {
		return fmt.Errorf("unknown migration command %q", command)
	}

	log := logger.With(slog.String("component", "migrations"), slog.String("command", command))

	goose.SetBaseFS(postgres.Migrations)
	goose.SetLogger(&slogGooseLogger{logger: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	start := time.Now()
	log.Info("starting migration operation")
	if err := migrate(db, postgres.MigrationsDir); err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	log.Info("migration completed", slog.Duration("duration", time.Since(start)))
	return nil
}

// slogGooseLogger routes goose output through slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	// goose calls Fatalf on unrecoverable errors; the command's returned error
	// carries the failure, so this only logs.
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
