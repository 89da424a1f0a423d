package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// SeedAccount inserts an account with the given balance
func SeedAccount(t *testing.T, db *TestDatabase, discordID int64, balance int64) {
	_, err := db.DB.Exec(context.Background(),
		`INSERT INTO accounts (discord_id, balance) VALUES ($1, $2)`,
		discordID, balance)
	require.NoError(t, err)
}

// SeedReward inserts a reward row
func SeedReward(t *testing.T, db *TestDatabase, name string, price, stock int64) {
	_, err := db.DB.Exec(context.Background(),
		`INSERT INTO rewards (name, price, stock) VALUES ($1, $2, $3)`,
		name, price, stock)
	require.NoError(t, err)
}

// SeedKey inserts an unused redemption key
func SeedKey(t *testing.T, db *TestDatabase, token, rewardPool string) {
	_, err := db.DB.Exec(context.Background(),
		`INSERT INTO redemption_keys (token, reward_pool) VALUES ($1, $2)`,
		token, rewardPool)
	require.NoError(t, err)
}
