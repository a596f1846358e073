package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/api-sage/balance-ledger-service/src/internal/events"
	"github.com/api-sage/balance-ledger-service/src/internal/logger"
	"github.com/shopspring/decimal"
)

// LedgerService owns every balance mutation. Each operation runs inside a
// single atomic scope obtained from the store: all writes commit together or
// the scope is rolled back with no observable effect.
type LedgerService struct {
	store     repo_interfaces.LedgerStore
	users     repo_interfaces.UserRepository
	publisher events.Publisher
}

func NewLedgerService(
	store repo_interfaces.LedgerStore,
	users repo_interfaces.UserRepository,
	publisher events.Publisher,
) *LedgerService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &LedgerService{
		store:     store,
		users:     users,
		publisher: publisher,
	}
}

// TopUp credits the user's balance from outside the system and records one
// TOPUP transaction. Returns the new balance.
func (s *LedgerService) TopUp(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	logger.Info("ledger service top-up request", logger.Fields{
		"userId": userID,
		"amount": amount.StringFixed(2),
	})

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("top-up: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	balance, err := tx.ReadBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	credited, err := balance.Credit(amount)
	if err != nil {
		return decimal.Zero, err
	}
	if err := tx.WriteBalance(ctx, userID, credited.Amount); err != nil {
		return decimal.Zero, err
	}

	record, err := tx.AppendTransaction(ctx, domain.Transaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        domain.TransactionKindTopUp,
		Description: "balance top-up",
	})
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("top-up: %w", err)
	}

	s.publishCompleted(ctx, record, "")

	logger.Info("ledger service top-up success", logger.Fields{
		"userId":     userID,
		"newBalance": credited.Amount.StringFixed(2),
	})

	return credited.Amount, nil
}

// Transfer moves amount from sender to receiver and records one transaction
// per side. On success the sum of the two balances is unchanged. Returns the
// sender's new balance.
func (s *LedgerService) Transfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) (decimal.Decimal, error) {
	logger.Info("ledger service transfer request", logger.Fields{
		"senderId":   senderID,
		"receiverId": receiverID,
		"amount":     amount.StringFixed(2),
	})

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if senderID == receiverID {
		return decimal.Zero, domain.ErrInvalidCounterparty
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return decimal.Zero, err
	}
	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return decimal.Zero, domain.ErrCounterpartyNotFound
		}
		return decimal.Zero, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("transfer: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	senderBalance, receiverBalance, err := s.readBothBalances(ctx, tx, senderID, receiverID)
	if err != nil {
		return decimal.Zero, err
	}

	debited, err := senderBalance.Debit(amount)
	if err != nil {
		return decimal.Zero, err
	}
	credited, err := receiverBalance.Credit(amount)
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.WriteBalance(ctx, senderID, debited.Amount); err != nil {
		return decimal.Zero, err
	}
	if err := tx.WriteBalance(ctx, receiverID, credited.Amount); err != nil {
		return decimal.Zero, err
	}

	record, err := tx.AppendTransaction(ctx, domain.Transaction{
		UserID:      senderID,
		Amount:      amount,
		Kind:        domain.TransactionKindTransfer,
		Description: "transfer to " + receiver.Username,
	})
	if err != nil {
		return decimal.Zero, err
	}
	if _, err := tx.AppendTransaction(ctx, domain.Transaction{
		UserID:      receiverID,
		Amount:      amount,
		Kind:        domain.TransactionKindTopUp,
		Description: "transfer from " + sender.Username,
	}); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("transfer: %w", err)
	}

	s.publishCompleted(ctx, record, receiverID)

	logger.Info("ledger service transfer success", logger.Fields{
		"senderId":         senderID,
		"receiverId":       receiverID,
		"newSenderBalance": debited.Amount.StringFixed(2),
	})

	return debited.Amount, nil
}

// GetBalance is a point-in-time read of committed state.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	balance, err := s.store.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Amount, nil
}

// ListHistory returns the user's committed transactions, newest first.
func (s *LedgerService) ListHistory(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

// readBothBalances locks the two rows in ascending user id order, so two
// concurrent transfers over the same pair cannot deadlock.
func (s *LedgerService) readBothBalances(
	ctx context.Context,
	tx repo_interfaces.LedgerTx,
	senderID, receiverID string,
) (domain.Balance, domain.Balance, error) {
	first, second := senderID, receiverID
	if receiverID < senderID {
		first, second = receiverID, senderID
	}

	firstBalance, err := tx.ReadBalance(ctx, first)
	if err != nil {
		return domain.Balance{}, domain.Balance{}, counterpartyError(err, first == receiverID)
	}
	secondBalance, err := tx.ReadBalance(ctx, second)
	if err != nil {
		return domain.Balance{}, domain.Balance{}, counterpartyError(err, second == receiverID)
	}

	if first == senderID {
		return firstBalance, secondBalance, nil
	}
	return secondBalance, firstBalance, nil
}

// counterpartyError distinguishes an unprovisioned receiver (user error)
// from an unprovisioned sender (fatal precondition violation).
func counterpartyError(err error, isReceiver bool) error {
	if isReceiver && errors.Is(err, domain.ErrBalanceNotFound) {
		return domain.ErrCounterpartyNotFound
	}
	return err
}

func (s *LedgerService) publishCompleted(ctx context.Context, record domain.Transaction, counterpartyID string) {
	event := events.TransactionCompleted{
		TransactionID:  record.ID,
		UserID:         record.UserID,
		CounterpartyID: counterpartyID,
		Amount:         record.Amount,
		Kind:           string(record.Kind),
		OccurredAt:     record.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, events.TopicTransactionCompleted, event); err != nil {
		logger.Error("ledger service publish transaction completed failed", err, logger.Fields{
			"transactionId": record.ID,
		})
	}
}
