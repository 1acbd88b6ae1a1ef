package usecase

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// PaymentGateway is the payment provider consumed by the use cases.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*model.Payment, error)
	SearchPayments(ctx context.Context, externalReference string) ([]model.Payment, error)
}
