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

// AccountRepository provides access to account balances
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository bound to a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByDiscordID retrieves an account, or nil if it has never been credited
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	query := `
		SELECT discord_id, balance, created_at, updated_at
		FROM accounts
		WHERE discord_id = $1
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&account.DiscordID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", discordID, err)
	}

	return &account, nil
}

// GetBalance returns the account's balance, 0 if the account is unknown
func (r *AccountRepository) GetBalance(ctx context.Context, discordID int64) (int64, error) {
	account, err := r.GetByDiscordID(ctx, discordID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, nil
	}
	return account.Balance, nil
}

// Credit adds amount to an account's balance, creating the account on
// first credit. Returns the new balance.
func (r *AccountRepository) Credit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		INSERT INTO accounts (discord_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (discord_id)
		DO UPDATE SET balance = accounts.balance + $2, updated_at = NOW()
		RETURNING balance
	`

	var balance int64
	if err := r.q.QueryRow(ctx, query, discordID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to credit account %d: %w", discordID, err)
	}

	return balance, nil
}

// Debit subtracts amount from an account's balance, failing with
// service.ErrInsufficientFunds unless the balance covers the full amount.
// The sufficiency check and the subtraction are a single statement, so
// two concurrent debits can never both drain the same points.
func (r *AccountRepository) Debit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE discord_id = $2 AND balance >= $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Absent account and underfunded account both read as insufficient
		return 0, service.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit account %d: %w", discordID, err)
	}

	return balance, nil
}

// DebitClamped subtracts amount but floors the balance at 0, matching the
// administrative remove-points behavior. A no-op for unknown accounts.
func (r *AccountRepository) DebitClamped(ctx context.Context, discordID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = GREATEST(0, balance - $1), updated_at = NOW()
		WHERE discord_id = $2
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, amount, discordID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit account %d: %w", discordID, err)
	}

	return balance, nil
}

// GetAll returns every account ordered by balance descending
func (r *AccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT discord_id, balance, created_at, updated_at
		FROM accounts
		ORDER BY balance DESC, discord_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.DiscordID,
			&account.Balance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// TotalBalance returns the sum of all balances across all accounts
func (r *AccountRepository) TotalBalance(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM accounts`

	var total int64
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum balances: %w", err)
	}

	return total, nil
}
