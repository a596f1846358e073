package repo_interfaces

import (
	"context"

	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerTx is one atomic scope against the ledger store. Every read and
// write inside it commits together or not at all. ReadBalance locks the
// balance row for the duration of the scope, so a check-then-write sequence
// on the same row is serialized against concurrent scopes.
type LedgerTx interface {
	ReadBalance(ctx context.Context, userID string) (domain.Balance, error)
	WriteBalance(ctx context.Context, userID string, amount decimal.Decimal) error
	AppendTransaction(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
	Commit() error
	// Rollback after a successful Commit is a no-op.
	Rollback() error
}

type LedgerStore interface {
	Begin(ctx context.Context) (LedgerTx, error)
	// GetBalance reads committed state without locking.
	GetBalance(ctx context.Context, userID string) (domain.Balance, error)
	// ListTransactions returns committed records newest first, ties broken
	// by insertion order.
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}
