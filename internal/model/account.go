package model

import "time"

// AdminAccountID is the reserved principal id embedded in admin session
// tokens. It is never assigned to a real account; the accounts table
// enforces id > 0.
const AdminAccountID int64 = 0

// Account represents a bidder, created on first login by email.
type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
