package model

import "time"

// Donation represents an account's donation. One row per account;
// re-donating overwrites the amount and timestamp.
type Donation struct {
	UUID      string    `json:"uuid"`
	AccountID int64     `json:"account_id"`
	Amount    int64     `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	DonorName string `json:"donor_name,omitempty"`
}
