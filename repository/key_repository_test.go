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

func TestKeyRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewKeyRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get(ctx, "FFFFFFFF")
		assert.ErrorIs(t, err, service.ErrKeyNotFound)
	})

	t.Run("create and read back", func(t *testing.T) {
		err := repo.Create(ctx, "ABCD1234", "Points: 100-300; Role: VIP")
		require.NoError(t, err)

		key, err := repo.Get(ctx, "ABCD1234")
		require.NoError(t, err)
		assert.Equal(t, "ABCD1234", key.Token)
		assert.Equal(t, "Points: 100-300; Role: VIP", key.RewardPool)
		assert.False(t, key.Used)
		assert.Nil(t, key.UsedBy)
		assert.Nil(t, key.UsedAt)
	})

	t.Run("duplicate token rejected", func(t *testing.T) {
		err := repo.Create(ctx, "ABCD1234", "Points: 5")
		assert.Error(t, err)
	})
}

func TestKeyRepository_Consume(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewKeyRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedKey(t, testDB, "ABCD1234", "Points: 100-300; Role: VIP")

	t.Run("first consume wins", func(t *testing.T) {
		pool, err := repo.Consume(ctx, "ABCD1234", 7)
		require.NoError(t, err)
		assert.Equal(t, "Points: 100-300; Role: VIP", pool)

		key, err := repo.Get(ctx, "ABCD1234")
		require.NoError(t, err)
		assert.True(t, key.Used)
		require.NotNil(t, key.UsedBy)
		assert.Equal(t, int64(7), *key.UsedBy)
		assert.NotNil(t, key.UsedAt)
	})

	t.Run("second consume fails", func(t *testing.T) {
		_, err := repo.Consume(ctx, "ABCD1234", 8)
		assert.ErrorIs(t, err, service.ErrAlreadyUsed)

		// First redeemer's attribution survives
		key, err := repo.Get(ctx, "ABCD1234")
		require.NoError(t, err)
		require.NotNil(t, key.UsedBy)
		assert.Equal(t, int64(7), *key.UsedBy)
	})

	t.Run("unissued token", func(t *testing.T) {
		_, err := repo.Consume(ctx, "FFFFFFFF", 7)
		assert.ErrorIs(t, err, service.ErrKeyNotFound)
	})
}

func TestKeyRepository_Consume_Concurrent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewKeyRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedKey(t, testDB, "DEADBEEF", "Points: 50")

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Consume(ctx, "DEADBEEF", int64(i+1))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, service.ErrAlreadyUsed)
		}
	}
	assert.Equal(t, 1, successes, "a key is consumed at most once")
}
