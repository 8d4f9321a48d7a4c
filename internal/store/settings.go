package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// GetTokenSecret retrieves the session-token signing secret from the
// database. If no secret exists, it generates one, stores it, and returns
// it. Uses INSERT OR IGNORE + re-SELECT to avoid a TOCTOU race on
// concurrent startup.
func GetTokenSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('token_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing token secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'token_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying token secret: %w", err)
	}

	return secret, nil
}
