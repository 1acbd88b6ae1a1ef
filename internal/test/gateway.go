package test

import (
	"context"
	"strconv"
	"sync"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// GatewayStub simulates the payment gateway and records preference requests.
type GatewayStub struct {
	CreatePreferenceFn func(context.Context, model.PreferenceRequest) (*model.Preference, error)
	GetPaymentFn       func(context.Context, string) (*model.Payment, error)
	SearchPaymentsFn   func(context.Context, string) ([]model.Payment, error)

	mu       sync.Mutex
	Requests []model.PreferenceRequest
	Lookups  []string
}

// CreatePreference records req and returns a preference derived from its reference.
func (s *GatewayStub) CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.CreatePreferenceFn != nil {
		return s.CreatePreferenceFn(ctx, req)
	}
	return &model.Preference{
		ID:          "pref-" + req.ExternalReference,
		CheckoutURL: "https://checkout.example.com/" + req.ExternalReference,
	}, nil
}

// GetPayment records the lookup and delegates to the configured function.
func (s *GatewayStub) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	s.mu.Lock()
	s.Lookups = append(s.Lookups, paymentID)
	s.mu.Unlock()
	if s.GetPaymentFn != nil {
		return s.GetPaymentFn(ctx, paymentID)
	}
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusPending}, nil
}

// SearchPayments delegates to the configured function or returns no payments.
func (s *GatewayStub) SearchPayments(ctx context.Context, externalReference string) ([]model.Payment, error) {
	if s.SearchPaymentsFn != nil {
		return s.SearchPaymentsFn(ctx, externalReference)
	}
	return nil, nil
}

// ApprovedPayment builds an approved payment for orderID.
func ApprovedPayment(paymentID string, orderID int64) *model.Payment {
	return &model.Payment{
		ID:                paymentID,
		Status:            model.PaymentStatusApproved,
		ExternalReference: strconv.FormatInt(orderID, 10),
	}
}
