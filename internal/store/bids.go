package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/erazemk/drazba/internal/model"
)

// SQLite extended result code for a UNIQUE constraint violation.
const sqliteConstraintUnique = 2067

// PlaceBid validates and records a bid on an item.
//
// The whole check-then-insert runs inside one transaction that takes the
// database write lock up front (the no-op UPDATE on the item row), so two
// concurrent bids on the same item are serialized: the second one re-reads
// the highest amount after the first has committed. Accepted bids per item
// are therefore strictly increasing in both amount and time. The UNIQUE
// (item_id, amount) index is a backstop for the same invariant.
//
// Returns ErrNotFound for an unknown item, ErrItemClosed, ErrBidTooLow
// when amount is below the item's configured minimum, and ErrBidNotHighest
// when amount does not strictly exceed the current highest bid.
func PlaceBid(ctx context.Context, db *sql.DB, itemID, accountID, amount int64) (*model.Bid, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// A write statement upgrades the transaction to a writer immediately,
	// so the reads below see a snapshot no concurrent PlaceBid can change.
	// Zero rows affected doubles as the existence check.
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET id = id WHERE id = ?`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("locking item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	var minimumBid int64
	var closed bool
	err = tx.QueryRowContext(ctx,
		`SELECT minimum_bid, closed FROM items WHERE id = ?`, itemID,
	).Scan(&minimumBid, &closed)
	if err != nil {
		return nil, fmt.Errorf("reading item: %w", err)
	}
	if closed {
		return nil, ErrItemClosed
	}
	if amount < minimumBid {
		return nil, ErrBidTooLow
	}

	var highest sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(amount) FROM bids WHERE item_id = ?`, itemID,
	).Scan(&highest)
	if err != nil {
		return nil, fmt.Errorf("reading highest bid: %w", err)
	}
	if amount <= highest.Int64 {
		return nil, ErrBidNotHighest
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO bids (uuid, account_id, item_id, amount) VALUES (?, ?, ?, ?)`,
		id, accountID, itemID, amount,
	)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqliteConstraintUnique {
			// Another bid with this amount slipped in; ours is no longer
			// strictly highest.
			return nil, ErrBidNotHighest
		}
		return nil, fmt.Errorf("inserting bid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bid: %w", err)
	}

	return GetBid(ctx, db, id)
}

// GetBid returns a bid by its UUID, or nil if absent.
func GetBid(ctx context.Context, db *sql.DB, bidUUID string) (*model.Bid, error) {
	b := &model.Bid{}
	err := db.QueryRowContext(ctx,
		`SELECT uuid, account_id, item_id, amount, created_at FROM bids WHERE uuid = ?`,
		bidUUID,
	).Scan(&b.UUID, &b.AccountID, &b.ItemID, &b.Amount, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting bid: %w", err)
	}
	return b, nil
}

// DeleteBid removes a bid the account owns, as long as the parent item is
// still open. A bid owned by another account reports ErrNotFound, not a
// permission error, so bid UUIDs reveal nothing about other bidders.
func DeleteBid(ctx context.Context, db *sql.DB, bidUUID string, accountID int64) error {
	var owner int64
	var closed bool
	err := db.QueryRowContext(ctx,
		`SELECT b.account_id, i.closed
		 FROM bids b JOIN items i ON i.id = b.item_id
		 WHERE b.uuid = ?`, bidUUID,
	).Scan(&owner, &closed)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading bid: %w", err)
	}
	if owner != accountID {
		return ErrNotFound
	}
	if closed {
		return ErrItemClosed
	}

	_, err = db.ExecContext(ctx,
		`DELETE FROM bids WHERE uuid = ? AND account_id = ?`, bidUUID, accountID,
	)
	if err != nil {
		return fmt.Errorf("deleting bid: %w", err)
	}
	return nil
}

// UserBidStatus returns the account's most recently created bid on an item
// (nil if none) and whether that bid currently matches or exceeds the
// item's highest amount. Returns ErrNotFound for an unknown item.
func UserBidStatus(ctx context.Context, db *sql.DB, accountID, itemID int64) (*model.BidStatus, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM items WHERE id = ?`, itemID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading item: %w", err)
	}

	status := &model.BidStatus{}

	b := &model.Bid{}
	err = db.QueryRowContext(ctx,
		`SELECT uuid, account_id, item_id, amount, created_at
		 FROM bids WHERE account_id = ? AND item_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		accountID, itemID,
	).Scan(&b.UUID, &b.AccountID, &b.ItemID, &b.Amount, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest bid: %w", err)
	}
	status.Bid = b

	var highest sql.NullInt64
	err = db.QueryRowContext(ctx,
		`SELECT MAX(amount) FROM bids WHERE item_id = ?`, itemID,
	).Scan(&highest)
	if err != nil {
		return nil, fmt.Errorf("reading highest bid: %w", err)
	}
	status.IsHighest = b.Amount >= highest.Int64

	return status, nil
}

// ListAllBids returns every bid joined with its item title and bidder
// name, ordered by item show order and newest first within each item.
// Callers group consecutive rows by item for the admin overview.
func ListAllBids(ctx context.Context, db *sql.DB) ([]model.Bid, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT b.uuid, b.account_id, b.item_id, b.amount, b.created_at,
		        i.title AS item_title, a.name AS bidder_name
		 FROM bids b
		 JOIN items i ON i.id = b.item_id
		 JOIN accounts a ON a.id = b.account_id
		 ORDER BY i.show_order, i.id, b.created_at DESC, b.rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.UUID, &b.AccountID, &b.ItemID, &b.Amount, &b.CreatedAt,
			&b.ItemTitle, &b.BidderName); err != nil {
			return nil, fmt.Errorf("scanning bid: %w", err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}
