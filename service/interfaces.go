package service

import (
	"context"

	"pointsbot/events"
	"pointsbot/models"
)

// AccountRepository defines the interface for balance data access
type AccountRepository interface {
	// GetByDiscordID retrieves an account, or nil if it was never credited
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error)

	// GetBalance returns the account's balance, 0 if the account is unknown
	GetBalance(ctx context.Context, discordID int64) (int64, error)

	// Credit adds amount atomically, creating the account on first credit
	Credit(ctx context.Context, discordID int64, amount int64) (int64, error)

	// Debit subtracts amount atomically, failing with ErrInsufficientFunds
	Debit(ctx context.Context, discordID int64, amount int64) (int64, error)

	// DebitClamped subtracts amount but floors the balance at 0
	DebitClamped(ctx context.Context, discordID int64, amount int64) (int64, error)

	// GetAll returns every account ordered by balance descending
	GetAll(ctx context.Context) ([]*models.Account, error)

	// TotalBalance returns the sum of all balances
	TotalBalance(ctx context.Context) (int64, error)
}

// RewardRepository defines the interface for reward catalog data access
type RewardRepository interface {
	// List returns all rewards in name order
	List(ctx context.Context) ([]*models.Reward, error)

	// Get retrieves a reward by name
	Get(ctx context.Context, name string) (*models.Reward, error)

	// Upsert creates a reward or fully replaces its price and stock
	Upsert(ctx context.Context, name string, price, stock int64) error

	// AdjustStock applies a stock delta, never letting stock go negative
	AdjustStock(ctx context.Context, name string, delta int64) (int64, error)

	// DecrementStock consumes one unit of stock atomically
	DecrementStock(ctx context.Context, name string) (int64, error)

	// Delete removes a reward
	Delete(ctx context.Context, name string) error
}

// KeyRepository defines the interface for redemption key data access
type KeyRepository interface {
	// Create stores a freshly minted, unused key
	Create(ctx context.Context, token, rewardPool string) error

	// Get retrieves a key by token
	Get(ctx context.Context, token string) (*models.RedemptionKey, error)

	// Consume atomically marks the key used and returns its pool descriptor
	Consume(ctx context.Context, token string, usedBy int64) (string, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// LedgerService defines balance operations
type LedgerService interface {
	// GetBalance returns an account's balance, 0 for unknown accounts
	GetBalance(ctx context.Context, accountID int64) (int64, error)

	// Credit grants points to an account
	Credit(ctx context.Context, accountID int64, amount int64) (int64, error)

	// Debit removes points from an account, flooring the balance at 0
	Debit(ctx context.Context, accountID int64, amount int64) (int64, error)

	// Leaderboard returns the top accounts by balance
	Leaderboard(ctx context.Context, limit int) ([]*models.Account, error)

	// AllBalances returns every account ordered by balance
	AllBalances(ctx context.Context) ([]*models.Account, error)

	// CreditAll grants points to each listed account as independent credits
	CreditAll(ctx context.Context, accountIDs []int64, amount int64) (*models.BulkCreditResult, error)
}

// CatalogService defines reward catalog administration
type CatalogService interface {
	// List returns the full catalog in stable name order
	List(ctx context.Context) ([]*models.Reward, error)

	// AddReward creates or replaces a reward
	AddReward(ctx context.Context, name string, price, stock int64) error

	// AddStock adjusts a reward's stock by delta
	AddStock(ctx context.Context, name string, delta int64) (int64, error)

	// DeleteReward removes a reward from the catalog
	DeleteReward(ctx context.Context, name string) error
}

// RedeemService defines the reward redemption operation
type RedeemService interface {
	// Redeem exchanges points for one unit of the named reward
	Redeem(ctx context.Context, accountID int64, rewardName string) (*models.RedeemResult, error)
}

// KeyService defines redemption key operations
type KeyService interface {
	// GenerateKey mints a single-use key for the given pool descriptor
	GenerateKey(ctx context.Context, rewardPool string) (string, error)

	// RedeemKey consumes a key and applies its grants to the account
	RedeemKey(ctx context.Context, accountID int64, token string) (*models.KeyRedeemResult, error)
}

// DropService defines drop event operations
type DropService interface {
	// CreateEvent announces a drop with one slot per payout
	CreateEvent(ctx context.Context, payouts []int64, visible bool, requiredRole string) (string, []models.SlotLabel, error)

	// Claim attempts to claim a slot for an account holding the given roles
	Claim(ctx context.Context, eventID string, accountID int64, slotIndex int, roles []string) (*models.ClaimResult, error)

	// Snapshot returns the current rendered view of an event
	Snapshot(eventID string) ([]models.SlotLabel, int, int, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	RewardRepository() RewardRepository
	KeyRepository() KeyRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
