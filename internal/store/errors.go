package store

import "errors"

// Domain errors. Handlers translate these to HTTP statuses; everything
// else coming out of the store is an internal error.
var (
	// ErrNotFound covers a missing item, bid or account, and a bid that
	// exists but belongs to a different account.
	ErrNotFound = errors.New("not found")

	// ErrItemClosed rejects bidding (or bid withdrawal) on a closed item.
	ErrItemClosed = errors.New("item is closed")

	// ErrBidTooLow rejects a bid below the item's configured minimum.
	ErrBidTooLow = errors.New("bid below minimum")

	// ErrBidNotHighest rejects a bid that does not strictly exceed the
	// item's current highest bid.
	ErrBidNotHighest = errors.New("bid is not the highest")
)
