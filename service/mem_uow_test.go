package service

import (
	"context"
	"sort"
	"sync"

	"pointsbot/events"
	"pointsbot/models"
)

// memStore is a concurrency-safe in-memory stand-in for the durable
// stores, used by tests that exercise the engine's serialization
// guarantees with many goroutines. Its conditional mutations mirror the
// single-statement semantics of the SQL repositories.
type memStore struct {
	mu       sync.Mutex
	balances map[int64]int64
	rewards  map[string]*models.Reward
	keys     map[string]*models.RedemptionKey
}

func newMemStore() *memStore {
	return &memStore{
		balances: make(map[int64]int64),
		rewards:  make(map[string]*models.Reward),
		keys:     make(map[string]*models.RedemptionKey),
	}
}

// memUnitOfWorkFactory builds units of work over a shared memStore.
// Commit/rollback are no-ops: every repository call applies immediately
// under the store mutex, which is at least as strict as the SQL
// statement-level atomicity the real repositories provide.
type memUnitOfWorkFactory struct {
	store *memStore
	bus   *events.Bus
}

func newMemUnitOfWorkFactory(store *memStore) *memUnitOfWorkFactory {
	return &memUnitOfWorkFactory{store: store, bus: events.NewBus()}
}

func (f *memUnitOfWorkFactory) Create() UnitOfWork {
	return &memUnitOfWork{store: f.store, bus: events.NewTransactionalBus(f.bus)}
}

type memUnitOfWork struct {
	store *memStore
	bus   *events.TransactionalBus
}

func (u *memUnitOfWork) Begin(ctx context.Context) error { return nil }

func (u *memUnitOfWork) Commit() error {
	u.bus.Flush(context.Background())
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	u.bus.Discard()
	return nil
}

func (u *memUnitOfWork) AccountRepository() AccountRepository { return &memAccountRepo{u.store} }
func (u *memUnitOfWork) RewardRepository() RewardRepository   { return &memRewardRepo{u.store} }
func (u *memUnitOfWork) KeyRepository() KeyRepository         { return &memKeyRepo{u.store} }
func (u *memUnitOfWork) EventBus() EventPublisher             { return u.bus }

type memAccountRepo struct{ s *memStore }

func (r *memAccountRepo) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance, ok := r.s.balances[discordID]
	if !ok {
		return nil, nil
	}
	return &models.Account{DiscordID: discordID, Balance: balance}, nil
}

func (r *memAccountRepo) GetBalance(ctx context.Context, discordID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.balances[discordID], nil
}

func (r *memAccountRepo) Credit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[discordID] += amount
	return r.s.balances[discordID], nil
}

func (r *memAccountRepo) Debit(ctx context.Context, discordID int64, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.balances[discordID] < amount {
		return 0, ErrInsufficientFunds
	}
	r.s.balances[discordID] -= amount
	return r.s.balances[discordID], nil
}

func (r *memAccountRepo) DebitClamped(ctx context.Context, discordID int64, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.balances[discordID]; !ok {
		return 0, nil
	}
	r.s.balances[discordID] -= amount
	if r.s.balances[discordID] < 0 {
		r.s.balances[discordID] = 0
	}
	return r.s.balances[discordID], nil
}

func (r *memAccountRepo) GetAll(ctx context.Context) ([]*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	accounts := make([]*models.Account, 0, len(r.s.balances))
	for id, balance := range r.s.balances {
		accounts = append(accounts, &models.Account{DiscordID: id, Balance: balance})
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].DiscordID < accounts[j].DiscordID
	})
	return accounts, nil
}

func (r *memAccountRepo) TotalBalance(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, balance := range r.s.balances {
		total += balance
	}
	return total, nil
}

type memRewardRepo struct{ s *memStore }

func (r *memRewardRepo) List(ctx context.Context) ([]*models.Reward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rewards := make([]*models.Reward, 0, len(r.s.rewards))
	for _, reward := range r.s.rewards {
		copied := *reward
		rewards = append(rewards, &copied)
	}
	sort.Slice(rewards, func(i, j int) bool { return rewards[i].Name < rewards[j].Name })
	return rewards, nil
}

func (r *memRewardRepo) Get(ctx context.Context, name string) (*models.Reward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reward, ok := r.s.rewards[name]
	if !ok {
		return nil, ErrRewardNotFound
	}
	copied := *reward
	return &copied, nil
}

func (r *memRewardRepo) Upsert(ctx context.Context, name string, price, stock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rewards[name] = &models.Reward{Name: name, Price: price, Stock: stock}
	return nil
}

func (r *memRewardRepo) AdjustStock(ctx context.Context, name string, delta int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reward, ok := r.s.rewards[name]
	if !ok {
		return 0, ErrRewardNotFound
	}
	if reward.Stock+delta < 0 {
		return 0, ErrInvalidState
	}
	reward.Stock += delta
	return reward.Stock, nil
}

func (r *memRewardRepo) DecrementStock(ctx context.Context, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reward, ok := r.s.rewards[name]
	if !ok {
		return 0, ErrRewardNotFound
	}
	if reward.Stock <= 0 {
		return 0, ErrOutOfStock
	}
	reward.Stock--
	return reward.Stock, nil
}

func (r *memRewardRepo) Delete(ctx context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rewards[name]; !ok {
		return ErrRewardNotFound
	}
	delete(r.s.rewards, name)
	return nil
}

type memKeyRepo struct{ s *memStore }

func (r *memKeyRepo) Create(ctx context.Context, token, rewardPool string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.keys[token] = &models.RedemptionKey{Token: token, RewardPool: rewardPool}
	return nil
}

func (r *memKeyRepo) Get(ctx context.Context, token string) (*models.RedemptionKey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key, ok := r.s.keys[token]
	if !ok {
		return nil, ErrKeyNotFound
	}
	copied := *key
	return &copied, nil
}

func (r *memKeyRepo) Consume(ctx context.Context, token string, usedBy int64) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key, ok := r.s.keys[token]
	if !ok {
		return "", ErrKeyNotFound
	}
	if key.Used {
		return "", ErrAlreadyUsed
	}
	key.Used = true
	key.UsedBy = &usedBy
	return key.RewardPool, nil
}
