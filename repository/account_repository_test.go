package repository

import (
	"context"
	"sync"
	"testing"

	"pointsbot/repository/testutil"
	"pointsbot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetByDiscordID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unknown account is nil", func(t *testing.T) {
		account, err := repo.GetByDiscordID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("existing account", func(t *testing.T) {
		testutil.SeedAccount(t, testDB, 123, 500)

		account, err := repo.GetByDiscordID(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, int64(123), account.DiscordID)
		assert.Equal(t, int64(500), account.Balance)
		assert.False(t, account.CreatedAt.IsZero())
	})
}

func TestAccountRepository_GetBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unknown account reads as zero", func(t *testing.T) {
		balance, err := repo.GetBalance(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("existing account", func(t *testing.T) {
		testutil.SeedAccount(t, testDB, 123, 42)

		balance, err := repo.GetBalance(ctx, 123)
		require.NoError(t, err)
		assert.Equal(t, int64(42), balance)
	})
}

func TestAccountRepository_Credit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("first credit creates the account", func(t *testing.T) {
		balance, err := repo.Credit(ctx, 100, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	})

	t.Run("subsequent credit accumulates", func(t *testing.T) {
		balance, err := repo.Credit(ctx, 100, 25)
		require.NoError(t, err)
		assert.Equal(t, int64(75), balance)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := repo.Credit(ctx, 100, 0)
		assert.Error(t, err)

		_, err = repo.Credit(ctx, 100, -10)
		assert.Error(t, err)
	})
}

func TestAccountRepository_Debit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("sufficient funds", func(t *testing.T) {
		testutil.SeedAccount(t, testDB, 1, 100)

		balance, err := repo.Debit(ctx, 1, 60)
		require.NoError(t, err)
		assert.Equal(t, int64(40), balance)
	})

	t.Run("exact balance drains to zero", func(t *testing.T) {
		balance, err := repo.Debit(ctx, 1, 40)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := repo.Debit(ctx, 1, 1)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)

		// Balance untouched by the failed attempt
		balance, err := repo.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("unknown account reads as insufficient", func(t *testing.T) {
		_, err := repo.Debit(ctx, 999, 1)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	})
}

func TestAccountRepository_Debit_Concurrent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	// Balance covers exactly 3 of 10 concurrent debits
	testutil.SeedAccount(t, testDB, 7, 30)

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Debit(ctx, 7, 10)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, service.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 3, successes)

	balance, err := repo.GetBalance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestAccountRepository_DebitClamped(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("clamps at zero", func(t *testing.T) {
		testutil.SeedAccount(t, testDB, 1, 30)

		balance, err := repo.DebitClamped(ctx, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("unknown account is a no-op", func(t *testing.T) {
		balance, err := repo.DebitClamped(ctx, 999, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})
}

func TestAccountRepository_GetAll(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedAccount(t, testDB, 1, 10)
	testutil.SeedAccount(t, testDB, 2, 50)
	testutil.SeedAccount(t, testDB, 3, 50)
	testutil.SeedAccount(t, testDB, 4, 5)

	accounts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	// Balance descending, ties broken by discord id
	assert.Equal(t, int64(2), accounts[0].DiscordID)
	assert.Equal(t, int64(3), accounts[1].DiscordID)
	assert.Equal(t, int64(1), accounts[2].DiscordID)
	assert.Equal(t, int64(4), accounts[3].DiscordID)
}

func TestAccountRepository_TotalBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty table sums to zero", func(t *testing.T) {
		total, err := repo.TotalBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("sums all balances", func(t *testing.T) {
		testutil.SeedAccount(t, testDB, 1, 10)
		testutil.SeedAccount(t, testDB, 2, 25)

		total, err := repo.TotalBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(35), total)
	})
}
