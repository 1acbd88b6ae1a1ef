package usecase

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func seededLedger() *test.MemoryLedger {
	return test.NewMemoryLedger(
		model.Product{ID: 1, Name: "Cookie", Price: decimal.NewFromInt(100), Stock: 5, Active: true},
		model.Product{ID: 2, Name: "Alfajor", Price: decimal.RequireFromString("250.50"), Stock: 10, Active: true},
		model.Product{ID: 3, Name: "Retired", Price: decimal.NewFromInt(80), Stock: 10, Active: false},
	)
}

func newTestIntake(t *testing.T, ledger *test.MemoryLedger, gateway PaymentGateway) *OrderIntake {
	t.Helper()
	intake, err := NewOrderIntake(ledger, gateway, IntakeSettings{
		PublicBaseURL: "https://api.shop.example.com",
		ReturnOrigin:  "https://shop.example.com",
		Currency:      "ARS",
	}, discardLogger(), nil)
	if err != nil {
		t.Fatalf("new order intake: %v", err)
	}
	return intake
}

func newTestReconciler(ledger *test.MemoryLedger, gateway PaymentGateway) *WebhookReconciler {
	return NewWebhookReconciler(ledger, ledger, gateway, discardLogger(), nil)
}

func cartFor(items ...model.CartItemInput) model.CartSubmission {
	return model.CartSubmission{
		Customer: model.CustomerInput{Name: "Ana", Email: "a@x.com"},
		Items:    items,
	}
}
