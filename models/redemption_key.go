package models

import (
	"time"
)

// RedemptionKey is a single-use token granting the rewards described by
// its pool descriptor. Once Used flips to true it never reverts.
type RedemptionKey struct {
	Token      string     `db:"token"`
	RewardPool string     `db:"reward_pool"`
	Used       bool       `db:"used"`
	UsedBy     *int64     `db:"used_by"`
	UsedAt     *time.Time `db:"used_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
