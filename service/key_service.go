package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
	"strings"

	"pointsbot/events"
	"pointsbot/models"
)

type keyService struct {
	uowFactory UnitOfWorkFactory
}

// NewKeyService creates a new key service
func NewKeyService(uowFactory UnitOfWorkFactory) KeyService {
	return &keyService{
		uowFactory: uowFactory,
	}
}

// GenerateKey mints a single-use key for the given pool descriptor and
// returns the token: 8 uppercase hex characters, 32 bits of entropy.
func (s *keyService) GenerateKey(ctx context.Context, rewardPool string) (string, error) {
	rewardPool = strings.TrimSpace(rewardPool)
	if rewardPool == "" {
		return "", fmt.Errorf("%w: reward pool must not be empty", ErrInvalidState)
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if err := uow.KeyRepository().Create(ctx, token, rewardPool); err != nil {
		return "", fmt.Errorf("failed to store key: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return token, nil
}

// RedeemKey consumes a key and applies its grants. Consumption and the
// point credit commit together, so the token is never marked used without
// its credit nor credited twice. The role grant is an instruction for the
// external layer; its delivery is best-effort and never rolls back the
// committed grant.
func (s *keyService) RedeemKey(ctx context.Context, accountID int64, token string) (*models.KeyRedeemResult, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return nil, ErrKeyNotFound
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	descriptor, err := uow.KeyRepository().Consume(ctx, token, accountID)
	if err != nil {
		return nil, err
	}

	pool := ParseRewardPool(descriptor)

	var points, newBalance int64
	if pool.HasPoints {
		points = pool.PointsLow
		if pool.PointsHigh > pool.PointsLow {
			points += mathrand.Int63n(pool.PointsHigh - pool.PointsLow + 1)
		}
	}
	if points > 0 {
		newBalance, err = uow.AccountRepository().Credit(ctx, accountID, points)
		if err != nil {
			return nil, fmt.Errorf("failed to credit key grant: %w", err)
		}
	} else {
		newBalance, err = uow.AccountRepository().GetBalance(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to get balance: %w", err)
		}
	}

	logMessage := fmt.Sprintf("<@%d> redeemed key `%s` (%d points%s).",
		accountID, token, points, roleSuffix(pool.Role))

	uow.EventBus().Publish(events.KeyRedeemedEvent{
		AccountID:  accountID,
		Token:      token,
		Points:     points,
		RoleGrant:  pool.Role,
		LogMessage: logMessage,
	})
	if points > 0 {
		uow.EventBus().Publish(events.BalanceChangeEvent{
			AccountID:    accountID,
			OldBalance:   newBalance - points,
			NewBalance:   newBalance,
			ChangeAmount: points,
			Reason:       "key_redeem",
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	publicMessage := fmt.Sprintf("Key accepted! You received **%d points**.", points)
	if pool.Role != "" {
		publicMessage = fmt.Sprintf("Key accepted! You received **%d points** and the **%s** role.", points, pool.Role)
	}

	return &models.KeyRedeemResult{
		Token:         token,
		Points:        points,
		NewBalance:    newBalance,
		RoleGrant:     pool.Role,
		PublicMessage: publicMessage,
		LogMessage:    logMessage,
	}, nil
}

func roleSuffix(role string) string {
	if role == "" {
		return ""
	}
	return fmt.Sprintf(", role %s", role)
}

// generateToken returns 8 uppercase hex characters from a CSPRNG
func generateToken() (string, error) {
	var raw [4]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(raw[:])), nil
}
