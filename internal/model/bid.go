package model

import "time"

// Bid represents a single bid on an item. Bids are append-only except for
// explicit deletion by their owner while the item is still open.
type Bid struct {
	UUID      string    `json:"uuid"`
	AccountID int64     `json:"account_id"`
	ItemID    int64     `json:"item_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemTitle  string `json:"item_title,omitempty"`
	BidderName string `json:"bidder_name,omitempty"`
}

// BidStatus is an account's view of its own latest bid on an item.
type BidStatus struct {
	Bid       *Bid `json:"bid"`
	IsHighest bool `json:"is_highest"`
}
