package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/drazba/internal/model"
)

// LoginOrCreateAccount resolves an account by its unique email, creating it
// on first login and overwriting the stored name on repeat logins. The
// upsert is a single statement, so concurrent logins with the same new
// email converge on one row instead of racing on check-then-insert.
func LoginOrCreateAccount(ctx context.Context, db *sql.DB, name, email string) (*model.Account, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO accounts (name, email) VALUES (?, ?)
		 ON CONFLICT (email) DO UPDATE SET name = excluded.name`,
		name, email,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting account: %w", err)
	}

	account, err := GetAccountByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account vanished after upsert")
	}
	if account.ID == model.AdminAccountID {
		// The schema forbids this; fail loudly rather than hand a real
		// bidder the admin principal.
		return nil, fmt.Errorf("account %q resolved to reserved id 0", email)
	}
	return account, nil
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, db *sql.DB, id int64) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByEmail returns an account by its unique email.
func GetAccountByEmail(ctx context.Context, db *sql.DB, email string) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM accounts WHERE email = ?`, email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by email: %w", err)
	}
	return a, nil
}
