package models_test

import (
	"strings"
	"testing"

	"github.com/api-sage/balance-ledger-service/src/internal/adapter/http/models"
	"github.com/shopspring/decimal"
)

func TestTopUpRequestValidate(t *testing.T) {
	valid := models.TopUpRequest{UserID: "u1", Amount: decimal.RequireFromString("10.50")}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	missing := models.TopUpRequest{Amount: decimal.RequireFromString("10.50")}
	if err := missing.Validate(); err == nil || !strings.Contains(err.Error(), "userId is required") {
		t.Fatalf("expected userId error, got %v", err)
	}

	zero := models.TopUpRequest{UserID: "u1"}
	if err := zero.Validate(); err == nil || !strings.Contains(err.Error(), "greater than zero") {
		t.Fatalf("expected amount error, got %v", err)
	}

	tooFine := models.TopUpRequest{UserID: "u1", Amount: decimal.RequireFromString("10.505")}
	if err := tooFine.Validate(); err == nil || !strings.Contains(err.Error(), "2 decimal places") {
		t.Fatalf("expected precision error, got %v", err)
	}
}

func TestTransferRequestValidate(t *testing.T) {
	valid := models.TransferRequest{
		SenderID:   "u1",
		ReceiverID: "u2",
		Amount:     decimal.RequireFromString("25.00"),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	negative := models.TransferRequest{
		SenderID:   "u1",
		ReceiverID: "u2",
		Amount:     decimal.RequireFromString("-5.00"),
	}
	if err := negative.Validate(); err == nil || !strings.Contains(err.Error(), "greater than zero") {
		t.Fatalf("expected amount error, got %v", err)
	}

	empty := models.TransferRequest{Amount: decimal.RequireFromString("5.00")}
	err := empty.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "senderId is required") || !strings.Contains(err.Error(), "receiverId is required") {
		t.Fatalf("expected both id errors, got %v", err)
	}
}
