package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/memory"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCommitAppliesStagedWrites(t *testing.T) {
	store := memory.NewLedgerStore()
	if err := store.CreateBalance("u1"); err != nil {
		t.Fatalf("create balance: %v", err)
	}

	tx, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := tx.WriteBalance(context.Background(), "u1", decimal.RequireFromString("42.00")); err != nil {
		t.Fatalf("write balance: %v", err)
	}
	record, err := tx.AppendTransaction(context.Background(), domain.Transaction{
		UserID: "u1",
		Amount: decimal.RequireFromString("42.00"),
		Kind:   domain.TransactionKindTopUp,
	})
	if err != nil {
		t.Fatalf("append transaction: %v", err)
	}
	if record.ID == "" || record.CreatedAt.IsZero() {
		t.Fatal("expected assigned id and timestamp")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	balance, err := store.GetBalance(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.Amount.Equal(decimal.RequireFromString("42.00")) {
		t.Fatalf("expected 42.00, got %s", balance.Amount)
	}

	records, err := store.ListTransactions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	store := memory.NewLedgerStore()
	if err := store.CreateBalance("u1"); err != nil {
		t.Fatalf("create balance: %v", err)
	}

	tx, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := tx.WriteBalance(context.Background(), "u1", decimal.RequireFromString("42.00")); err != nil {
		t.Fatalf("write balance: %v", err)
	}
	if _, err := tx.AppendTransaction(context.Background(), domain.Transaction{
		UserID: "u1",
		Amount: decimal.RequireFromString("42.00"),
		Kind:   domain.TransactionKindTopUp,
	}); err != nil {
		t.Fatalf("append transaction: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	balance, err := store.GetBalance(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.Amount.IsZero() {
		t.Fatalf("expected zero balance after rollback, got %s", balance.Amount)
	}

	records, err := store.ListTransactions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records after rollback, got %d", len(records))
	}
}

func TestRollbackAfterCommitIsNoop(t *testing.T) {
	store := memory.NewLedgerStore()
	if err := store.CreateBalance("u1"); err != nil {
		t.Fatalf("create balance: %v", err)
	}

	tx, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := tx.WriteBalance(context.Background(), "u1", decimal.RequireFromString("7.00")); err != nil {
		t.Fatalf("write balance: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback after commit: %v", err)
	}

	balance, err := store.GetBalance(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.Amount.Equal(decimal.RequireFromString("7.00")) {
		t.Fatalf("committed write lost: %s", balance.Amount)
	}
}

func TestWriteBalanceUnknownUser(t *testing.T) {
	store := memory.NewLedgerStore()

	tx, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	if err := tx.WriteBalance(context.Background(), "missing", decimal.RequireFromString("1.00")); !errors.Is(err, domain.ErrBalanceNotFound) {
		t.Fatalf("expected ErrBalanceNotFound, got %v", err)
	}
}

func TestAppendTransactionRejectsNonPositiveAmount(t *testing.T) {
	store := memory.NewLedgerStore()

	tx, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.AppendTransaction(context.Background(), domain.Transaction{
		UserID: "u1",
		Amount: decimal.Zero,
		Kind:   domain.TransactionKindTopUp,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestBeginRejectsCanceledContext(t *testing.T) {
	store := memory.NewLedgerStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Begin(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBeginStopsWaitingWhenDeadlineExpires(t *testing.T) {
	store := memory.NewLedgerStore()

	open, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := store.Begin(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}

	if err := open.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if _, err := store.Begin(context.Background()); err != nil {
		t.Fatalf("begin after release: %v", err)
	}
}

func TestHistoryTimestampsFollowCommitOrder(t *testing.T) {
	store := memory.NewLedgerStore()
	if err := store.CreateBalance("u1"); err != nil {
		t.Fatalf("create balance: %v", err)
	}

	for i := 0; i < 5; i++ {
		tx, err := store.Begin(context.Background())
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		if _, err := tx.AppendTransaction(context.Background(), domain.Transaction{
			UserID: "u1",
			Amount: decimal.RequireFromString("1.00"),
			Kind:   domain.TransactionKindTopUp,
		}); err != nil {
			t.Fatalf("append transaction: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	records, err := store.ListTransactions(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Fatalf("record %d is newer than record %d", i, i-1)
		}
	}
}
