package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindTopUp    TransactionKind = "TOPUP"
	TransactionKindTransfer TransactionKind = "TRANSFER"
)

// Transaction is an immutable ledger record of a single balance change.
// Amount is always positive; the direction is carried by Kind. Records are
// append-only: no repository exposes an update or delete for them.
type Transaction struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Kind        TransactionKind
	Description string
	CreatedAt   time.Time
}
