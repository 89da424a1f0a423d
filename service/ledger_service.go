package service

import (
	"context"
	"fmt"

	"pointsbot/events"
	"pointsbot/models"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

// GetBalance returns an account's balance, 0 for unknown accounts
func (s *ledgerService) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	return uow.AccountRepository().GetBalance(ctx, accountID)
}

// Credit grants points to an account
func (s *ledgerService) Credit(ctx context.Context, accountID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", ErrInvalidState)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.AccountRepository().Credit(ctx, accountID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to credit account: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		OldBalance:   newBalance - amount,
		NewBalance:   newBalance,
		ChangeAmount: amount,
		Reason:       "admin_credit",
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

// Debit removes points from an account. The balance floors at 0 — the
// administrative remove operation never fails on an underfunded account.
func (s *ledgerService) Debit(ctx context.Context, accountID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive", ErrInvalidState)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.AccountRepository().DebitClamped(ctx, accountID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to debit account: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		NewBalance:   newBalance,
		ChangeAmount: -amount,
		Reason:       "admin_debit",
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newBalance, nil
}

// Leaderboard returns the top accounts by balance
func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]*models.Account, error) {
	accounts, err := s.AllBalances(ctx)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(accounts) > limit {
		accounts = accounts[:limit]
	}

	return accounts, nil
}

// AllBalances returns every account ordered by balance descending
func (s *ledgerService) AllBalances(ctx context.Context) ([]*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.AccountRepository().GetAll(ctx)
}

// CreditAll grants points to each listed account. Each credit is an
// independent transaction; a failure skips that account and continues,
// so a partial run can be retried without double-crediting becoming a
// correctness problem for the survivors.
func (s *ledgerService) CreditAll(ctx context.Context, accountIDs []int64, amount int64) (*models.BulkCreditResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount must be positive", ErrInvalidState)
	}

	result := &models.BulkCreditResult{}
	for _, accountID := range accountIDs {
		if _, err := s.Credit(ctx, accountID, amount); err != nil {
			log.WithFields(log.Fields{
				"accountID": accountID,
				"amount":    amount,
			}).WithError(err).Error("Bulk credit failed for account")
			result.Failed++
			continue
		}
		result.Credited++
	}

	return result, nil
}
