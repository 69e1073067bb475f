// Command migrate runs the ledger schema migrations with goose.
//
// Usage:
//
//	migrate <command> [args]
//
// where command is any goose command (up, down, status, version, ...).
// The database URL comes from configuration or the SPLITLEDGER_DATABASE_URL
// environment variable; migrations are embedded in the binary.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/splitledger/internal/config"
	"github.com/phrazzld/splitledger/internal/platform/logger"
	"github.com/phrazzld/splitledger/internal/platform/postgres"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error
// messages to slog.Error. It does NOT call os.Exit; the error is
// returned to main which handles the exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		parsedURL.User = url.UserPassword(username, "****")
		return parsedURL.String()
	}
	return dbURL
}

func run(command string, args ...string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log = log.With("component", "migrations", "command", command)

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	log.Info("starting migration operation",
		"url", maskDatabaseURL(cfg.Database.URL))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database connection", "error", err)
		}
	}()

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w (check connection string, credentials, and database availability)", err)
	}

	start := time.Now()
	if err := goose.Run(command, db, postgres.MigrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	log.Info("migration operation completed",
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate <command> [args]")
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
