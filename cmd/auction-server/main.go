package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/drazba/internal/api"
	"github.com/erazemk/drazba/internal/db"
	"github.com/erazemk/drazba/internal/store"
)

// minSecretLen is the minimum length for an explicitly configured token
// secret. Auto-generated secrets are always 64 hex characters.
const minSecretLen = 32

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	fs := flag.NewFlagSet("auction-server", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "auction.sqlite3", "")
	fs.StringVar(&dbPath, "d", "auction.sqlite3", "")

	var addr string
	fs.StringVar(&addr, "addr", ":8080", "")
	fs.StringVar(&addr, "a", ":8080", "")

	var secret string
	fs.StringVar(&secret, "secret", "", "")
	fs.StringVar(&secret, "s", "", "")

	var adminPassword string
	fs.StringVar(&adminPassword, "admin-password", "", "")
	fs.StringVar(&adminPassword, "p", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: auction-server [flags]

Flags:
  -d, -db <path>              SQLite database path (default: auction.sqlite3)
  -a, -addr <host:port>       listen address (default: :8080)
  -s, -secret <string>        session token signing secret (default: persisted
                              in the database, auto-generated on first run)
  -p, -admin-password <pass>  admin login password (default: $ADMIN_PASSWORD;
                              admin login is disabled when unset)
  -l, -log <path>             log file path (default: no file, stdout/stderr only)
  -h, -help                   show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Open database and ensure schema exists (idempotent).
	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", dbPath)

	// Token secret: an explicitly configured one must be long enough to
	// sign with; otherwise load the persisted secret (auto-generated on
	// first run) so sessions survive restarts.
	if secret != "" && len(secret) < minSecretLen {
		slog.Error("configured secret is too short", "min_length", minSecretLen)
		os.Exit(1)
	}
	if secret == "" {
		secret, err = store.GetTokenSecret(context.Background(), database)
		if err != nil {
			slog.Error("failed to load token secret", "error", err)
			os.Exit(1)
		}
	}

	// Admin password: flag, then environment. Hashed once at startup;
	// login compares against the hash.
	if adminPassword == "" {
		adminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	var adminPasswordHash []byte
	if adminPassword == "" {
		slog.Warn("no admin password configured, admin login is disabled")
	} else {
		adminPasswordHash, err = bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("failed to hash admin password", "error", err)
			os.Exit(1)
		}
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, secret, adminPasswordHash))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}
