package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerStore is an in-memory implementation of repo_interfaces.LedgerStore
// used in tests and local runs. It is a single-writer store: an open atomic
// scope holds the store semaphore until Commit or Rollback, so concurrent
// scopes are fully serialized. Begin gives up waiting when the caller's
// context is canceled.
type LedgerStore struct {
	scope    chan struct{}
	balances map[string]domain.Balance
	history  []domain.Transaction
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		scope:    make(chan struct{}, 1),
		balances: make(map[string]domain.Balance),
	}
}

func (s *LedgerStore) acquire() {
	s.scope <- struct{}{}
}

func (s *LedgerStore) release() {
	<-s.scope
}

// CreateBalance provisions a zero balance for the user. Used at registration
// time, never by the ledger service itself.
func (s *LedgerStore) CreateBalance(userID string) error {
	s.acquire()
	defer s.release()

	if _, exists := s.balances[userID]; exists {
		return fmt.Errorf("balance already provisioned for user %s", userID)
	}
	s.balances[userID] = domain.Balance{
		UserID:    userID,
		Amount:    decimal.Zero,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *LedgerStore) Begin(ctx context.Context) (repo_interfaces.LedgerTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case s.scope <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &ledgerTx{
		store:  s,
		staged: make(map[string]decimal.Decimal),
	}, nil
}

func (s *LedgerStore) GetBalance(_ context.Context, userID string) (domain.Balance, error) {
	s.acquire()
	defer s.release()

	balance, exists := s.balances[userID]
	if !exists {
		return domain.Balance{}, domain.ErrBalanceNotFound
	}
	return balance, nil
}

func (s *LedgerStore) ListTransactions(_ context.Context, userID string) ([]domain.Transaction, error) {
	s.acquire()
	defer s.release()

	var records []domain.Transaction
	// history is in insertion order with non-decreasing timestamps; walking
	// it backwards yields newest first with insertion-order tie-breaking.
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].UserID == userID {
			records = append(records, s.history[i])
		}
	}
	return records, nil
}

type ledgerTx struct {
	store    *LedgerStore
	staged   map[string]decimal.Decimal
	appended []domain.Transaction
	done     bool
}

func (t *ledgerTx) ReadBalance(_ context.Context, userID string) (domain.Balance, error) {
	if amount, ok := t.staged[userID]; ok {
		return domain.Balance{UserID: userID, Amount: amount}, nil
	}

	balance, exists := t.store.balances[userID]
	if !exists {
		return domain.Balance{}, domain.ErrBalanceNotFound
	}
	return balance, nil
}

func (t *ledgerTx) WriteBalance(_ context.Context, userID string, amount decimal.Decimal) error {
	if _, exists := t.store.balances[userID]; !exists {
		return domain.ErrBalanceNotFound
	}
	t.staged[userID] = amount
	return nil
}

func (t *ledgerTx) AppendTransaction(_ context.Context, txn domain.Transaction) (domain.Transaction, error) {
	if txn.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	txn.ID = uuid.NewString()
	txn.CreatedAt = time.Now().UTC()
	t.appended = append(t.appended, txn)
	return txn, nil
}

func (t *ledgerTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true

	now := time.Now().UTC()
	for userID, amount := range t.staged {
		t.store.balances[userID] = domain.Balance{
			UserID:    userID,
			Amount:    amount,
			UpdatedAt: now,
		}
	}
	t.store.history = append(t.store.history, t.appended...)

	t.store.release()
	return nil
}

func (t *ledgerTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true

	t.staged = nil
	t.appended = nil

	t.store.release()
	return nil
}

var _ repo_interfaces.LedgerStore = (*LedgerStore)(nil)
