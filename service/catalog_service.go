package service

import (
	"context"
	"fmt"
	"strings"

	"pointsbot/models"
)

type catalogService struct {
	uowFactory UnitOfWorkFactory
}

// NewCatalogService creates a new catalog service
func NewCatalogService(uowFactory UnitOfWorkFactory) CatalogService {
	return &catalogService{
		uowFactory: uowFactory,
	}
}

// List returns the full catalog in stable name order
func (s *catalogService) List(ctx context.Context) ([]*models.Reward, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	return uow.RewardRepository().List(ctx)
}

// AddReward creates a reward or fully replaces its price and stock
func (s *catalogService) AddReward(ctx context.Context, name string, price, stock int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: reward name must not be empty", ErrInvalidState)
	}
	if price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidState)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidState)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RewardRepository().Upsert(ctx, name, price, stock); err != nil {
		return fmt.Errorf("failed to upsert reward: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddStock adjusts a reward's stock by delta and returns the new stock
func (s *catalogService) AddStock(ctx context.Context, name string, delta int64) (int64, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: stock delta must not be zero", ErrInvalidState)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stock, err := uow.RewardRepository().AdjustStock(ctx, name, delta)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stock, nil
}

// DeleteReward removes a reward from the catalog
func (s *catalogService) DeleteReward(ctx context.Context, name string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RewardRepository().Delete(ctx, name); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
