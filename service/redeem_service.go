package service

import (
	"context"
	"fmt"

	"pointsbot/events"
	"pointsbot/models"
)

type redeemService struct {
	uowFactory UnitOfWorkFactory
}

// NewRedeemService creates a new redeem service
func NewRedeemService(uowFactory UnitOfWorkFactory) RedeemService {
	return &redeemService{
		uowFactory: uowFactory,
	}
}

// Redeem exchanges points for one unit of the named reward. The stock
// decrement and the balance debit run in one transaction, stock first —
// reward-scoped row lock before account-scoped row lock, the fixed global
// order. Concurrent redemptions of the last unit resolve to exactly one
// success; the losers see ErrOutOfStock.
func (s *redeemService) Redeem(ctx context.Context, accountID int64, rewardName string) (*models.RedeemResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	reward, err := uow.RewardRepository().Get(ctx, rewardName)
	if err != nil {
		return nil, err
	}
	if !reward.InStock() {
		return nil, ErrOutOfStock
	}

	balance, err := uow.AccountRepository().GetBalance(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance < reward.Price {
		return nil, ErrInsufficientFunds
	}

	// The conditional updates re-validate what the reads above observed,
	// so a racing redemption can invalidate the checks but never the state
	stockLeft, err := uow.RewardRepository().DecrementStock(ctx, rewardName)
	if err != nil {
		return nil, err
	}

	newBalance, err := uow.AccountRepository().Debit(ctx, accountID, reward.Price)
	if err != nil {
		return nil, err
	}

	logMessage := fmt.Sprintf("<@%d> redeemed **%s** for %d points.", accountID, rewardName, reward.Price)

	uow.EventBus().Publish(events.RewardRedeemedEvent{
		AccountID:  accountID,
		RewardName: rewardName,
		Price:      reward.Price,
		LogMessage: logMessage,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		OldBalance:   balance,
		NewBalance:   newBalance,
		ChangeAmount: -reward.Price,
		Reason:       "redeem",
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.RedeemResult{
		RewardName:    rewardName,
		Price:         reward.Price,
		NewBalance:    newBalance,
		StockLeft:     stockLeft,
		PublicMessage: fmt.Sprintf("You redeemed **%s**!", rewardName),
		LogMessage:    logMessage,
	}, nil
}
