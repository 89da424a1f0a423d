package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetBalance_UnknownAccountIsZero(t *testing.T) {
	ctx := context.Background()
	service := NewLedgerService(newMemUnitOfWorkFactory(newMemStore()))

	balance, err := service.GetBalance(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestLedgerService_Credit(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	service := NewLedgerService(newMemUnitOfWorkFactory(store))

	balance, err := service.Credit(ctx, 7, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	balance, err = service.Credit(ctx, 7, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)
	assert.Equal(t, int64(150), store.balances[7])
}

func TestLedgerService_Credit_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	service := NewLedgerService(newMemUnitOfWorkFactory(newMemStore()))

	_, err := service.Credit(ctx, 7, 0)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = service.Credit(ctx, 7, -5)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLedgerService_Debit_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[7] = 30

	service := NewLedgerService(newMemUnitOfWorkFactory(store))

	balance, err := service.Debit(ctx, 7, 100)

	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
	assert.Equal(t, int64(0), store.balances[7])
}

func TestLedgerService_Debit_UnknownAccountStaysZero(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	service := NewLedgerService(newMemUnitOfWorkFactory(store))

	balance, err := service.Debit(ctx, 42, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestLedgerService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[1] = 10
	store.balances[2] = 50
	store.balances[3] = 30

	service := NewLedgerService(newMemUnitOfWorkFactory(store))

	accounts, err := service.Leaderboard(ctx, 2)

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(2), accounts[0].DiscordID)
	assert.Equal(t, int64(50), accounts[0].Balance)
	assert.Equal(t, int64(3), accounts[1].DiscordID)
}

func TestLedgerService_Leaderboard_TiesBreakByID(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.balances[9] = 20
	store.balances[4] = 20

	service := NewLedgerService(newMemUnitOfWorkFactory(store))

	accounts, err := service.Leaderboard(ctx, 0)

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(4), accounts[0].DiscordID)
	assert.Equal(t, int64(9), accounts[1].DiscordID)
}

func TestLedgerService_CreditAll(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	service := NewLedgerService(newMemUnitOfWorkFactory(store))

	result, err := service.CreditAll(ctx, []int64{1, 2, 3}, 25)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Credited)
	assert.Equal(t, 0, result.Failed)
	for id := int64(1); id <= 3; id++ {
		assert.Equal(t, int64(25), store.balances[id])
	}
}

func TestLedgerService_CreditAll_PartialFailureContinues(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil)

	service := NewLedgerService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("Credit", ctx, int64(1), int64(10)).Return(int64(10), nil)
	mockAccountRepo.On("Credit", ctx, int64(2), int64(10)).Return(int64(0), assert.AnError)
	mockAccountRepo.On("Credit", ctx, int64(3), int64(10)).Return(int64(10), nil)

	result, err := service.CreditAll(ctx, []int64{1, 2, 3}, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Credited)
	assert.Equal(t, 1, result.Failed)
	mockAccountRepo.AssertNumberOfCalls(t, "Credit", 3)
}
