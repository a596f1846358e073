package repo_interfaces

import (
	"context"

	"github.com/api-sage/balance-ledger-service/src/internal/domain"
)

type UserRepository interface {
	// Create stores the user and provisions a zero balance for them in the
	// same atomic scope.
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}
