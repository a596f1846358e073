package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/repository/memory"
	"github.com/api-sage/balance-ledger-service/src/internal/domain"
	"github.com/api-sage/balance-ledger-service/src/internal/usecase/services"
)

func TestRegisterProvisionsZeroBalance(t *testing.T) {
	store := memory.NewLedgerStore()
	svc := services.NewUserService(memory.NewUserRepository(store))

	user, err := svc.Register(context.Background(), "alice", "correct horse battery staple")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected assigned user id")
	}
	if user.PasswordHash == "correct horse battery staple" {
		t.Fatal("password stored in clear")
	}

	balance, err := store.GetBalance(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.Amount.IsZero() {
		t.Fatalf("expected zero starting balance, got %s", balance.Amount)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	store := memory.NewLedgerStore()
	svc := services.NewUserService(memory.NewUserRepository(store))

	if _, err := svc.Register(context.Background(), "alice", "password-one"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "password-two")
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	store := memory.NewLedgerStore()
	svc := services.NewUserService(memory.NewUserRepository(store))

	registered, err := svc.Register(context.Background(), "alice", "s3cret-passphrase")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, valid, err := svc.VerifyPassword(context.Background(), "alice", "s3cret-passphrase")
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !valid {
		t.Fatal("expected valid password")
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}

	_, valid, err = svc.VerifyPassword(context.Background(), "alice", "wrong-passphrase")
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if valid {
		t.Fatal("expected invalid password")
	}

	_, _, err = svc.VerifyPassword(context.Background(), "nobody", "whatever-passphrase")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
