package models

import (
	"errors"
	"strings"
	"time"

	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

type TopUpRequest struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

func (r TopUpRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "userId is required")
	}
	errs = appendAmountErrors(errs, r.Amount)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type TopUpResponse struct {
	UserID     string `json:"userId"`
	NewBalance string `json:"newBalance"`
}

type TransferRequest struct {
	SenderID   string          `json:"senderId"`
	ReceiverID string          `json:"receiverId"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SenderID) == "" {
		errs = append(errs, "senderId is required")
	}
	if strings.TrimSpace(r.ReceiverID) == "" {
		errs = append(errs, "receiverId is required")
	}
	errs = appendAmountErrors(errs, r.Amount)

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type TransferResponse struct {
	SenderID         string `json:"senderId"`
	ReceiverID       string `json:"receiverId"`
	Amount           string `json:"amount"`
	NewSenderBalance string `json:"newSenderBalance"`
}

type BalanceResponse struct {
	UserID string `json:"userId"`
	Amount string `json:"amount"`
}

type TransactionResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp"`
}

type HistoryResponse struct {
	UserID       string                `json:"userId"`
	Transactions []TransactionResponse `json:"transactions"`
}

func NewHistoryResponse(userID string, records []domain.Transaction) HistoryResponse {
	transactions := make([]TransactionResponse, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, TransactionResponse{
			ID:          record.ID,
			Amount:      record.Amount.StringFixed(2),
			Kind:        string(record.Kind),
			Description: record.Description,
			Timestamp:   record.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return HistoryResponse{
		UserID:       userID,
		Transactions: transactions,
	}
}

// Amounts are fixed-point with 2 fractional digits; anything finer is
// rejected here so the core never sees a rounding decision.
func appendAmountErrors(errs []string, amount decimal.Decimal) []string {
	if amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if amount.Exponent() < -2 {
		errs = append(errs, "amount must have at most 2 decimal places")
	}
	return errs
}
