package models

import (
	"time"
)

// Account represents a ledger identity holding a point balance.
// Accounts are created implicitly on first credit; an unknown account
// reads as balance 0.
type Account struct {
	DiscordID int64     `db:"discord_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
