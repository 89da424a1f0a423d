package service

import (
	"context"

	"pointsbot/events"
	"pointsbot/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetBalance(ctx context.Context, discordID int64) (int64, error) {
	args := m.Called(ctx, discordID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Credit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) DebitClamped(ctx context.Context, discordID int64, amount int64) (int64, error) {
	args := m.Called(ctx, discordID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) TotalBalance(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRewardRepository is a mock implementation of RewardRepository
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) List(ctx context.Context) ([]*models.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reward), args.Error(1)
}

func (m *MockRewardRepository) Get(ctx context.Context, name string) (*models.Reward, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reward), args.Error(1)
}

func (m *MockRewardRepository) Upsert(ctx context.Context, name string, price, stock int64) error {
	args := m.Called(ctx, name, price, stock)
	return args.Error(0)
}

func (m *MockRewardRepository) AdjustStock(ctx context.Context, name string, delta int64) (int64, error) {
	args := m.Called(ctx, name, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRewardRepository) DecrementStock(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRewardRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockKeyRepository is a mock implementation of KeyRepository
type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) Create(ctx context.Context, token, rewardPool string) error {
	args := m.Called(ctx, token, rewardPool)
	return args.Error(0)
}

func (m *MockKeyRepository) Get(ctx context.Context, token string) (*models.RedemptionKey, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedemptionKey), args.Error(1)
}

func (m *MockKeyRepository) Consume(ctx context.Context, token string, usedBy int64) (string, error) {
	args := m.Called(ctx, token, usedBy)
	return args.String(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo AccountRepository
	rewardRepo  RewardRepository
	keyRepo     KeyRepository
	eventBus    EventPublisher
}

// SetRepositories wires the repositories this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository, rewardRepo RewardRepository, keyRepo KeyRepository, eventBus EventPublisher) {
	m.accountRepo = accountRepo
	m.rewardRepo = rewardRepo
	m.keyRepo = keyRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) RewardRepository() RewardRepository {
	return m.rewardRepo
}

func (m *MockUnitOfWork) KeyRepository() KeyRepository {
	return m.keyRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return &noopPublisher{}
	}
	return m.eventBus
}

type noopPublisher struct{}

func (p *noopPublisher) Publish(event events.Event) {}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
