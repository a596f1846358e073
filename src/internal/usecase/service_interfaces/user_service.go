package service_interfaces

import (
	"context"

	"github.com/api-sage/balance-ledger-service/src/internal/domain"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
	VerifyPassword(ctx context.Context, username, password string) (domain.User, bool, error)
}
