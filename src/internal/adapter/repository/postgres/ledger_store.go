package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/api-sage/balance-ledger-service/src/internal/logger"
	"github.com/shopspring/decimal"
)

type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Begin(ctx context.Context) (repo_interfaces.LedgerTx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	return &ledgerTx{tx: tx}, nil
}

func (s *LedgerStore) GetBalance(ctx context.Context, userID string) (domain.Balance, error) {
	const query = `
SELECT user_id, amount, updated_at
FROM balances
WHERE user_id = $1`

	var balance domain.Balance
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&balance.UserID, &balance.Amount, &balance.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Balance{}, domain.ErrBalanceNotFound
	}
	if err != nil {
		return domain.Balance{}, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func (s *LedgerStore) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	const query = `
SELECT id, user_id, amount, kind, description, created_at
FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC, seq DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.Transaction
	for rows.Next() {
		var record domain.Transaction
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Amount,
			&record.Kind,
			&record.Description,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return records, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

// ReadBalance locks the balance row until the scope commits or rolls back,
// so the caller's check-then-write is serialized against concurrent scopes
// touching the same user.
func (t *ledgerTx) ReadBalance(ctx context.Context, userID string) (domain.Balance, error) {
	const query = `
SELECT user_id, amount, updated_at
FROM balances
WHERE user_id = $1
FOR UPDATE`

	var balance domain.Balance
	err := t.tx.QueryRowContext(ctx, query, userID).Scan(&balance.UserID, &balance.Amount, &balance.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Balance{}, domain.ErrBalanceNotFound
	}
	if err != nil {
		return domain.Balance{}, fmt.Errorf("read balance: %w", err)
	}

	return balance, nil
}

func (t *ledgerTx) WriteBalance(ctx context.Context, userID string, amount decimal.Decimal) error {
	const query = `
UPDATE balances
SET amount = $2, updated_at = NOW()
WHERE user_id = $1`

	result, err := t.tx.ExecContext(ctx, query, userID, amount.StringFixed(2))
	if err != nil {
		logger.Error("ledger store write balance failed", err, logger.Fields{
			"userId": userID,
		})
		return fmt.Errorf("write balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write balance rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrBalanceNotFound
	}

	return nil
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	const query = `
INSERT INTO transactions (user_id, amount, kind, description)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

	var (
		id        string
		createdAt time.Time
	)
	if err := t.tx.QueryRowContext(
		ctx,
		query,
		txn.UserID,
		txn.Amount.StringFixed(2),
		txn.Kind,
		txn.Description,
	).Scan(&id, &createdAt); err != nil {
		logger.Error("ledger store append transaction failed", err, logger.Fields{
			"userId": txn.UserID,
			"kind":   txn.Kind,
		})
		return domain.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}

	txn.ID = id
	txn.CreatedAt = createdAt
	return txn, nil
}

func (t *ledgerTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

func (t *ledgerTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("rollback ledger tx: %w", err)
	}
	return nil
}

var _ repo_interfaces.LedgerStore = (*LedgerStore)(nil)
