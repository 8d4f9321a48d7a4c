package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/drazba/internal/model"
)

// UpsertDonation records an account's donation. One donation row per
// account: donating again overwrites the amount and timestamp instead of
// accumulating.
func UpsertDonation(ctx context.Context, db *sql.DB, accountID, amount int64) (*model.Donation, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO donations (uuid, account_id, amount, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (account_id) DO UPDATE
		     SET amount = excluded.amount, updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), accountID, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting donation: %w", err)
	}

	return GetDonation(ctx, db, accountID)
}

// GetDonation returns an account's donation, or nil if it has none.
func GetDonation(ctx context.Context, db *sql.DB, accountID int64) (*model.Donation, error) {
	d := &model.Donation{}
	err := db.QueryRowContext(ctx,
		`SELECT uuid, account_id, amount, updated_at FROM donations WHERE account_id = ?`,
		accountID,
	).Scan(&d.UUID, &d.AccountID, &d.Amount, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donation: %w", err)
	}
	return d, nil
}

// ListDonations returns all donations with donor names, newest first.
func ListDonations(ctx context.Context, db *sql.DB) ([]model.Donation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT d.uuid, d.account_id, d.amount, d.updated_at, a.name AS donor_name
		 FROM donations d
		 JOIN accounts a ON a.id = d.account_id
		 ORDER BY d.updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.UUID, &d.AccountID, &d.Amount, &d.UpdatedAt, &d.DonorName); err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
