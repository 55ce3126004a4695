package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskify-app/taskify-api/internal/api/middleware"
)

func TestNewHTTPServerUsesConfiguredTimeouts(t *testing.T) {
	t.Parallel()

	app := &application{config: testConfig()}
	srv := app.newHTTPServer(http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 5*time.Second, srv.WriteTimeout)
	assert.Equal(t, 5*time.Second, srv.IdleTimeout)
}

func TestStartHTTPServerShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.Port = 0
	app := &application{
		config:      cfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		authLimiter: middleware.NewKeyedRateLimiter(1, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.startHTTPServer(ctx, http.NotFoundHandler()) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	err := runMigrations(nil, "sideways", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestMigrationCommands(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"up", "down", "status", "version", "reset"} {
		assert.Contains(t, migrationCommands, name)
	}
}
