package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu     sync.Mutex
	byID   map[string]domain.User
	byName map[string]string
	ledger *LedgerStore
}

func NewUserRepository(ledger *LedgerStore) *UserRepository {
	return &UserRepository{
		byID:   make(map[string]domain.User),
		byName: make(map[string]string),
		ledger: ledger,
	}
}

func (r *UserRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return domain.User{}, domain.ErrUsernameTaken
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.ledger.CreateBalance(user.ID); err != nil {
		return domain.User{}, err
	}

	r.byID[user.ID] = user
	r.byName[user.Username] = user.ID
	return user, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.byID[id]
	if !exists {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, exists := r.byName[username]
	if !exists {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.byID[id], nil
}

var _ repo_interfaces.UserRepository = (*UserRepository)(nil)
