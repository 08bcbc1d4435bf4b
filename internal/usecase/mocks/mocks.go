package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// InMemoryAccountRepository is an in-memory implementation of AccountRepository.
// Writes made through a *FakeTransaction become visible on Commit.
type InMemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	order    []string

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, number string, balance int64, updatedAt time.Time) error
}

func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Put stores an account as-is, bypassing Create.
func (m *InMemoryAccountRepository) Put(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		if _, ok := m.accounts[a.Number]; !ok {
			m.order = append(m.order, a.Number)
		}
		acc := *a
		m.accounts[a.Number] = &acc
	}
}

// Balance returns the committed balance of an account.
func (m *InMemoryAccountRepository) Balance(number string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[number]; ok {
		return acc.Balance
	}
	return 0
}

func (m *InMemoryAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Number]; ok {
		return fmt.Errorf("account %s already exists", account.Number)
	}
	acc := *account
	m.accounts[account.Number] = &acc
	m.order = append(m.order, account.Number)
	return nil
}

func (m *InMemoryAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[number]; ok {
		out := *acc
		return &out, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *InMemoryAccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (*domain.Account, error) {
	return m.GetByNumber(ctx, number)
}

func (m *InMemoryAccountRepository) LatestNumber(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	latest := ""
	for _, number := range m.order {
		if number > latest {
			latest = number
		}
	}
	return latest, nil
}

func (m *InMemoryAccountRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, acc := range m.accounts {
		if acc.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *InMemoryAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, number string, balance int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, number, balance, updatedAt)
	}
	m.mu.RLock()
	_, ok := m.accounts[number]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrAccountNotFound
	}

	apply := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		acc := m.accounts[number]
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	}

	if ft, ok := tx.(*FakeTransaction); ok {
		ft.stage(apply)
		return nil
	}
	apply()
	return nil
}

// InMemoryTransactionRepository is an in-memory remittance ledger.
type InMemoryTransactionRepository struct {
	mu     sync.RWMutex
	nextID int64
	txns   []*domain.Transaction

	CreateFunc   func(ctx context.Context, txn *domain.Transaction) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
}

func NewInMemoryTransactionRepository() *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{}
}

func (m *InMemoryTransactionRepository) insert(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	txn.ID = m.nextID
	stored := *txn
	m.txns = append(m.txns, &stored)
}

func (m *InMemoryTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.insert(txn)
	return nil
}

func (m *InMemoryTransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, txn)
	}
	if ft, ok := tx.(*FakeTransaction); ok {
		ft.stage(func() { m.insert(txn) })
		return nil
	}
	m.insert(txn)
	return nil
}

func (m *InMemoryTransactionRepository) ListSuccessfulByAccount(ctx context.Context, accountNumber string, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Transaction
	for i := len(m.txns) - 1; i >= 0; i-- {
		txn := m.txns[i]
		if txn.Result == domain.TransactionResultSuccess && txn.Involves(accountNumber) {
			out := *txn
			matched = append(matched, &out)
		}
	}

	if offset >= len(matched) {
		return []*domain.Transaction{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// All returns every stored transaction in insertion order.
func (m *InMemoryTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transaction, 0, len(m.txns))
	for _, txn := range m.txns {
		c := *txn
		out = append(out, &c)
	}
	return out
}

// InMemoryFriendships records directed friend facts.
type InMemoryFriendships struct {
	mu    sync.RWMutex
	facts map[[2]string]bool

	Err error
}

func NewInMemoryFriendships() *InMemoryFriendships {
	return &InMemoryFriendships{facts: make(map[[2]string]bool)}
}

// Add records that userA lists userB as a friend.
func (m *InMemoryFriendships) Add(userA, userB string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts[[2]string{userA, userB}] = true
}

func (m *InMemoryFriendships) Exists(ctx context.Context, userA, userB string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.facts[[2]string{userA, userB}], nil
}

// FakeTransaction buffers writes until Commit.
type FakeTransaction struct {
	mu         sync.Mutex
	pending    []func()
	committed  bool
	rolledBack bool

	CommitErr error
}

var errTxClosed = errors.New("tx is closed")

func (t *FakeTransaction) stage(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, fn)
}

func (t *FakeTransaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed || t.rolledBack {
		return errTxClosed
	}
	if t.CommitErr != nil {
		return t.CommitErr
	}
	for _, fn := range t.pending {
		fn()
	}
	t.pending = nil
	t.committed = true
	return nil
}

func (t *FakeTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed || t.rolledBack {
		return errTxClosed
	}
	t.pending = nil
	t.rolledBack = true
	return nil
}

// Committed reports whether Commit succeeded.
func (t *FakeTransaction) Committed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

// FakeTxManager hands out FakeTransactions.
type FakeTxManager struct {
	mu  sync.Mutex
	txs []*FakeTransaction

	BeginErr  error
	CommitErr error
}

func NewFakeTxManager() *FakeTxManager {
	return &FakeTxManager{}
}

func (m *FakeTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &FakeTransaction{CommitErr: m.CommitErr}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Transactions returns every transaction begun so far.
func (m *FakeTxManager) Transactions() []*FakeTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*FakeTransaction(nil), m.txs...)
}

// InMemoryLockManager is a single-process LockManager with leases.
type InMemoryLockManager struct {
	mu       sync.Mutex
	leases   map[string]usecase.LockHandle
	seq      int
	acquired []string
	released []string

	Now func() time.Time
}

func NewInMemoryLockManager() *InMemoryLockManager {
	return &InMemoryLockManager{
		leases: make(map[string]usecase.LockHandle),
		Now:    time.Now,
	}
}

func (m *InMemoryLockManager) tryAcquire(key string, leaseTime time.Duration) (usecase.LockHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	if held, ok := m.leases[key]; ok && now.Before(held.ExpiresAt) {
		return usecase.LockHandle{}, false
	}

	m.seq++
	handle := usecase.LockHandle{
		Key:       key,
		Token:     fmt.Sprintf("token-%d", m.seq),
		ExpiresAt: now.Add(leaseTime),
	}
	m.leases[key] = handle
	m.acquired = append(m.acquired, key)
	return handle, true
}

func (m *InMemoryLockManager) Acquire(ctx context.Context, key string, waitTimeout, leaseTime time.Duration) (usecase.LockHandle, error) {
	deadline := time.Now().Add(waitTimeout)
	for {
		if handle, ok := m.tryAcquire(key, leaseTime); ok {
			return handle, nil
		}
		if !time.Now().Before(deadline) {
			return usecase.LockHandle{}, domain.ErrLockAcquisitionFailed
		}

		select {
		case <-ctx.Done():
			return usecase.LockHandle{}, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (m *InMemoryLockManager) Release(ctx context.Context, handle usecase.LockHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.leases[handle.Key]; ok && held.Token == handle.Token {
		delete(m.leases, handle.Key)
		m.released = append(m.released, handle.Key)
	}
	return nil
}

// Acquired returns keys in acquisition order.
func (m *InMemoryLockManager) Acquired() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acquired...)
}

// Released returns keys in release order.
func (m *InMemoryLockManager) Released() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.released...)
}

// Held returns the currently leased keys, sorted.
func (m *InMemoryLockManager) Held() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	var keys []string
	for k, h := range m.leases {
		if now.Before(h.ExpiresAt) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// InMemoryIdempotencyStore is an in-memory IdempotencyStore.
type InMemoryIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	Err error
}

func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{data: make(map[string][]byte)}
}

func (m *InMemoryIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.Err != nil {
		return false, nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *InMemoryIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *InMemoryIdempotencyStore) Forget(ctx context.Context, key string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Get returns the stored value for key.
func (m *InMemoryIdempotencyStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Keys returns the stored keys, sorted.
func (m *InMemoryIdempotencyStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
