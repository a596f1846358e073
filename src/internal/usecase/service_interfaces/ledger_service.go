package service_interfaces

import (
	"context"

	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	TopUp(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	Transfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) (decimal.Decimal, error)
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	ListHistory(ctx context.Context, userID string) ([]domain.Transaction, error)
}
