package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/api-sage/balance-ledger-service/src/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users repo_interfaces.UserRepository
}

func NewUserService(users repo_interfaces.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates the user together with their zero balance. The user is
// ready to receive transfers immediately after this returns.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	logger.Info("user service register request", logger.Fields{
		"username": username,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, err
	}

	logger.Info("user service register success", logger.Fields{
		"userId":   user.ID,
		"username": user.Username,
	})

	return user, nil
}

// VerifyPassword reports whether the credentials match. A wrong password is
// a false result, not an error.
func (s *UserService) VerifyPassword(ctx context.Context, username, password string) (domain.User, bool, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.User{}, false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("compare password: %w", err)
	}

	return user, true, nil
}
