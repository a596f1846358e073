package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const TopicTransactionCompleted = "transaction_completed"

// TransactionCompleted is emitted after a top-up or transfer has committed.
// CounterpartyID is empty for top-ups.
type TransactionCompleted struct {
	TransactionID  string          `json:"transaction_id"`
	UserID         string          `json:"user_id"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Kind           string          `json:"kind"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
