package model

import "time"

// Item represents an auction item in the catalog.
type Item struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Image             string    `json:"image,omitempty"`
	Author            string    `json:"author,omitempty"`
	AuthorDescription string    `json:"author_description,omitempty"`
	MinimumBid        int64     `json:"minimum_bid"`
	Year              int       `json:"year,omitempty"`
	Description       string    `json:"description,omitempty"`
	ShowOrder         int       `json:"show_order"`
	Closed            bool      `json:"closed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Derived fields (not always populated).
	// EffectiveMinimumBid is max(MinimumBid, highest existing bid).
	// HighestBid is nil when the item has no bids yet.
	EffectiveMinimumBid int64  `json:"effective_minimum_bid"`
	HighestBid          *int64 `json:"highest_bid"`
}
