package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memStore backs the in-memory repos. A single transactor mutex serializes
// whole ledger transactions, giving the same read-check-debit atomicity the
// production SELECT FOR UPDATE path provides, and Begin snapshots the ledger
// state so a rollback restores it.
type memStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*domain.User
	accounts map[uuid.UUID]*domain.Account // keyed by user ID
	txns     map[uuid.UUID]*domain.Transaction

	txMu sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*domain.User),
		accounts: make(map[uuid.UUID]*domain.Account),
		txns:     make(map[uuid.UUID]*domain.Transaction),
	}
}

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	store *memStore
}

func newInMemoryUserRepo(store *memStore) *inMemoryUserRepo {
	return &inMemoryUserRepo{store: store}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Phone == u.Phone {
			return fmt.Errorf("phone already exists")
		}
	}
	cp := *u
	r.store.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[u.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	cp := *u
	r.store.users[u.ID] = &cp
	return nil
}

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	store *memStore
}

func newInMemoryAccountRepo(store *memStore) *inMemoryAccountRepo {
	return &inMemoryAccountRepo{store: store}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *a
	r.store.accounts[a.UserID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.accounts[userID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Account, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryAccountRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, userID uuid.UUID, fiat, points domain.Amount) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[userID]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.FiatBalance = fiat
	a.PointsBalance = points
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	store *memStore

	failMu     sync.Mutex
	failCreate bool
}

func newInMemoryTransactionRepo(store *memStore) *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{store: store}
}

// failNextCreate makes the next Create call return an error, simulating a
// write failure after the balance mutation inside the same transaction.
func (r *inMemoryTransactionRepo) failNextCreate() {
	r.failMu.Lock()
	r.failCreate = true
	r.failMu.Unlock()
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.failMu.Lock()
	if r.failCreate {
		r.failCreate = false
		r.failMu.Unlock()
		return fmt.Errorf("simulated write failure")
	}
	r.failMu.Unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *t
	r.store.txns[t.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransactionRepo) ListByUser(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []domain.Transaction
	for _, t := range r.store.txns {
		if t.UserID != params.UserID {
			continue
		}
		if params.Kind != nil && t.Kind != *params.Kind {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		result = append(result, *t)
	}
	// Newest first, matching the production ORDER BY created_at DESC, id
	// DESC. The id tiebreak keeps repeated listings of same-timestamp rows
	// in one stable order.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() > result[j].ID.String()
	})
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context, userID uuid.UUID) (*ports.TransactionStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := &ports.TransactionStats{}
	for _, t := range r.store.txns {
		if t.UserID != userID {
			continue
		}
		stats.TotalTransactions++
		if t.Status != domain.StatusCompleted {
			continue
		}
		if t.Kind.Debits() {
			stats.TotalSent += int64(t.Total)
		}
		if t.Kind == domain.KindDeposit {
			stats.TotalReceived += int64(t.Amount)
		}
		stats.TotalFees += int64(t.Fee)
	}
	return stats, nil
}

// --- Serializing snapshot transactor ---

// memTransactor serializes ledger transactions with a mutex and snapshots
// account and transaction state at Begin so Rollback can restore it.
type memTransactor struct {
	store *memStore
}

func newMemTransactor(store *memStore) *memTransactor {
	return &memTransactor{store: store}
}

func (t *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.store.txMu.Lock()

	t.store.mu.RLock()
	snapAccounts := make(map[uuid.UUID]*domain.Account, len(t.store.accounts))
	for k, v := range t.store.accounts {
		cp := *v
		snapAccounts[k] = &cp
	}
	snapTxns := make(map[uuid.UUID]*domain.Transaction, len(t.store.txns))
	for k, v := range t.store.txns {
		cp := *v
		snapTxns[k] = &cp
	}
	t.store.mu.RUnlock()

	return &memTx{
		store:        t.store,
		snapAccounts: snapAccounts,
		snapTxns:     snapTxns,
	}, nil
}

// memTx implements the pgx.Tx surface the repos touch. The embedded nil
// interface covers the methods nothing in these tests calls.
type memTx struct {
	pgx.Tx
	store        *memStore
	snapAccounts map[uuid.UUID]*domain.Account
	snapTxns     map[uuid.UUID]*domain.Transaction
	done         bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	t.store.mu.Lock()
	t.store.accounts = t.snapAccounts
	t.store.txns = t.snapTxns
	t.store.mu.Unlock()

	t.store.txMu.Unlock()
	return nil
}
