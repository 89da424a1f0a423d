package models

import (
	"time"
)

// Reward is a catalog item redeemable for points while stock lasts
type Reward struct {
	Name      string    `db:"name"`
	Price     int64     `db:"price"`
	Stock     int64     `db:"stock"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// InStock reports whether the reward can currently be redeemed
func (r *Reward) InStock() bool {
	return r.Stock > 0
}
