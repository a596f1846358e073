package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrBalanceNotFound = errors.New("balance not found")
var ErrUsernameTaken = errors.New("username already taken")

var ErrInvalidAmount = errors.New("amount must be positive")
var ErrInvalidCounterparty = errors.New("sender and receiver must be different users")
var ErrCounterpartyNotFound = errors.New("counterparty not found")
var ErrInsufficientFunds = errors.New("insufficient funds")
