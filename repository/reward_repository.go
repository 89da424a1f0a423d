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

// RewardRepository provides access to the reward catalog
type RewardRepository struct {
	q queryable
}

// NewRewardRepository creates a new reward repository
func NewRewardRepository(db *database.DB) *RewardRepository {
	return &RewardRepository{q: db.Pool}
}

// newRewardRepositoryWithTx creates a new reward repository bound to a transaction
func newRewardRepositoryWithTx(tx queryable) *RewardRepository {
	return &RewardRepository{q: tx}
}

// List returns all rewards in name order. Listing order is stable so the
// redeem menu and the catalog view always agree.
func (r *RewardRepository) List(ctx context.Context) ([]*models.Reward, error) {
	query := `
		SELECT name, price, stock, created_at, updated_at
		FROM rewards
		ORDER BY name
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []*models.Reward
	for rows.Next() {
		var reward models.Reward
		if err := rows.Scan(
			&reward.Name,
			&reward.Price,
			&reward.Stock,
			&reward.CreatedAt,
			&reward.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, &reward)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rewards: %w", err)
	}

	return rewards, nil
}

// Get retrieves a reward by name
func (r *RewardRepository) Get(ctx context.Context, name string) (*models.Reward, error) {
	query := `
		SELECT name, price, stock, created_at, updated_at
		FROM rewards
		WHERE name = $1
	`

	var reward models.Reward
	err := r.q.QueryRow(ctx, query, name).Scan(
		&reward.Name,
		&reward.Price,
		&reward.Stock,
		&reward.CreatedAt,
		&reward.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrRewardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward %q: %w", name, err)
	}

	return &reward, nil
}

// Upsert creates a reward or fully replaces its price and stock
func (r *RewardRepository) Upsert(ctx context.Context, name string, price, stock int64) error {
	query := `
		INSERT INTO rewards (name, price, stock)
		VALUES ($1, $2, $3)
		ON CONFLICT (name)
		DO UPDATE SET price = $2, stock = $3, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, name, price, stock); err != nil {
		return fmt.Errorf("failed to upsert reward %q: %w", name, err)
	}

	return nil
}

// AdjustStock applies a stock delta, failing with service.ErrInvalidState
// if the result would go negative. Check and mutation are a single statement.
func (r *RewardRepository) AdjustStock(ctx context.Context, name string, delta int64) (int64, error) {
	query := `
		UPDATE rewards
		SET stock = stock + $1, updated_at = NOW()
		WHERE name = $2 AND stock + $1 >= 0
		RETURNING stock
	`

	var stock int64
	err := r.q.QueryRow(ctx, query, delta, name).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing reward from an underflowing adjustment
		if _, getErr := r.Get(ctx, name); getErr != nil {
			return 0, getErr
		}
		return 0, fmt.Errorf("%w: stock cannot go below zero", service.ErrInvalidState)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock for %q: %w", name, err)
	}

	return stock, nil
}

// DecrementStock consumes one unit of stock. Exactly one of any number
// of concurrent callers can take the last unit.
func (r *RewardRepository) DecrementStock(ctx context.Context, name string) (int64, error) {
	query := `
		UPDATE rewards
		SET stock = stock - 1, updated_at = NOW()
		WHERE name = $1 AND stock > 0
		RETURNING stock
	`

	var stock int64
	err := r.q.QueryRow(ctx, query, name).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.Get(ctx, name); getErr != nil {
			return 0, getErr
		}
		return 0, service.ErrOutOfStock
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock for %q: %w", name, err)
	}

	return stock, nil
}

// Delete removes a reward, failing with service.ErrRewardNotFound if absent
func (r *RewardRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM rewards WHERE name = $1`

	result, err := r.q.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to delete reward %q: %w", name, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrRewardNotFound
	}

	return nil
}
