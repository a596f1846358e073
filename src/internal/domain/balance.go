package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance holds the current funds of a single user. Exactly one row exists
// per user, created together with the user at registration time. Amount is
// never negative.
type Balance struct {
	UserID    string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}

// Credit returns the balance increased by amount. The amount must be
// strictly positive.
func (b Balance) Credit(amount decimal.Decimal) (Balance, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Balance{}, ErrInvalidAmount
	}
	b.Amount = b.Amount.Add(amount)
	return b, nil
}

// Debit returns the balance decreased by amount. The amount must be strictly
// positive and must not exceed the current funds, so the result is never
// negative.
func (b Balance) Debit(amount decimal.Decimal) (Balance, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Balance{}, ErrInvalidAmount
	}
	if b.Amount.LessThan(amount) {
		return Balance{}, ErrInsufficientFunds
	}
	b.Amount = b.Amount.Sub(amount)
	return b, nil
}
