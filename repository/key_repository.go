package repository

import (
	"context"
	"errors"
	"fmt"

	"pointsbot/database"
	"pointsbot/models"
	"pointsbot/service"

	"github.com/jackc/pgx/v5"
)

// KeyRepository provides access to single-use redemption keys
type KeyRepository struct {
	q queryable
}

// NewKeyRepository creates a new key repository
func NewKeyRepository(db *database.DB) *KeyRepository {
	return &KeyRepository{q: db.Pool}
}

// newKeyRepositoryWithTx creates a new key repository bound to a transaction
func newKeyRepositoryWithTx(tx queryable) *KeyRepository {
	return &KeyRepository{q: tx}
}

// Create stores a freshly minted, unused key
func (r *KeyRepository) Create(ctx context.Context, token, rewardPool string) error {
	query := `
		INSERT INTO redemption_keys (token, reward_pool)
		VALUES ($1, $2)
	`

	if _, err := r.q.Exec(ctx, query, token, rewardPool); err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}

	return nil
}

// Get retrieves a key by token
func (r *KeyRepository) Get(ctx context.Context, token string) (*models.RedemptionKey, error) {
	query := `
		SELECT token, reward_pool, used, used_by, used_at, created_at
		FROM redemption_keys
		WHERE token = $1
	`

	var key models.RedemptionKey
	err := r.q.QueryRow(ctx, query, token).Scan(
		&key.Token,
		&key.RewardPool,
		&key.Used,
		&key.UsedBy,
		&key.UsedAt,
		&key.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	return &key, nil
}

// Consume marks the key used and returns its pool descriptor. The
// check-then-mark is a single statement, so of any number of concurrent
// callers presenting the same token exactly one succeeds; the rest get
// service.ErrAlreadyUsed (or ErrKeyNotFound for an unissued token).
func (r *KeyRepository) Consume(ctx context.Context, token string, usedBy int64) (string, error) {
	query := `
		UPDATE redemption_keys
		SET used = TRUE, used_by = $2, used_at = NOW()
		WHERE token = $1 AND NOT used
		RETURNING reward_pool
	`

	var rewardPool string
	err := r.q.QueryRow(ctx, query, token, usedBy).Scan(&rewardPool)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.Get(ctx, token); getErr != nil {
			return "", getErr
		}
		return "", service.ErrAlreadyUsed
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume key: %w", err)
	}

	return rewardPool, nil
}
