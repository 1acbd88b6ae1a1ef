package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn func(context.Context, model.CartSubmission) (*model.PlacedOrder, error)
	OrderFn func(context.Context, int64) (*model.OrderDetails, error)
}

// PlaceOrder delegates to provided function or returns a default placed order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, submission model.CartSubmission) (*model.PlacedOrder, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, submission)
	}
	return &model.PlacedOrder{OrderID: 1, Total: decimal.NewFromInt(100), PaymentURL: "https://checkout.example.com/1"}, nil
}

// Order returns configured details or a pending order with id.
func (s OrderFacadeStub) Order(ctx context.Context, id int64) (*model.OrderDetails, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.OrderDetails{
		Order: model.Order{ID: id, Status: model.OrderStatusPending, Total: decimal.NewFromInt(100), CreatedAt: time.Unix(0, 0).UTC()},
	}, nil
}

// WebhookFacadeStub records received notifications.
type WebhookFacadeStub struct {
	HandleFn func(context.Context, model.Notification) error

	mu       sync.Mutex
	Received []model.Notification
}

// HandlePaymentNotification records n and delegates to provided function.
func (s *WebhookFacadeStub) HandlePaymentNotification(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	s.Received = append(s.Received, n)
	s.mu.Unlock()
	if s.HandleFn != nil {
		return s.HandleFn(ctx, n)
	}
	return nil
}

// Notifications returns a copy of received notifications.
func (s *WebhookFacadeStub) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.Received...)
}

// CatalogFacadeStub simulates catalog operations.
type CatalogFacadeStub struct {
	ProductsFn func(context.Context) ([]model.Product, error)
	CreateFn   func(context.Context, model.ProductDraft) (*model.Product, error)
	UpdateFn   func(context.Context, int64, model.ProductPatch) (*model.Product, error)
}

// Products returns configured products or a single default one.
func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: 1, Name: "Cookie", Price: decimal.NewFromInt(100), Stock: 5, Active: true}}, nil
}

// CreateProduct delegates to provided function or echoes the draft.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.Product{ID: 1, Name: draft.Name, Price: draft.Price, Stock: draft.Stock, Active: draft.Active}, nil
}

// UpdateProduct delegates to provided function or returns a default product.
func (s CatalogFacadeStub) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	return &model.Product{ID: id, Name: "Cookie", Price: decimal.NewFromInt(100), Active: true}, nil
}

// HealthFacadeStub reports configured health.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// StoreFacadeStub aggregates facade dependencies for HTTP layer tests.
type StoreFacadeStub struct {
	OrderFacadeStub
	*WebhookFacadeStub
	CatalogFacadeStub
	HealthFacadeStub
}

// NewStoreFacadeStub builds a StoreFacadeStub with a fresh webhook recorder.
func NewStoreFacadeStub() *StoreFacadeStub {
	return &StoreFacadeStub{WebhookFacadeStub: &WebhookFacadeStub{}}
}

// SweepFacadeStub mimics worker interactions with the store facade.
type SweepFacadeStub struct {
	Batches     [][]int64
	PendingFn   func(context.Context, time.Duration, int64, int) ([]int64, error)
	ReconcileFn func(context.Context, int64) error

	mu         sync.Mutex
	calls      int
	Reconciled []int64
}

// PendingOrders returns the configured batches one per call.
func (s *SweepFacadeStub) PendingOrders(ctx context.Context, minAge time.Duration, afterID int64, limit int) ([]int64, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, minAge, afterID, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= len(s.Batches) {
		return s.Batches[s.calls-1], nil
	}
	return nil, nil
}

// ReconcileOrder records the order id and delegates to provided function.
func (s *SweepFacadeStub) ReconcileOrder(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	s.Reconciled = append(s.Reconciled, orderID)
	s.mu.Unlock()
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, orderID)
	}
	return nil
}

// ReconciledOrders returns a copy of reconciled ids.
func (s *SweepFacadeStub) ReconciledOrders() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Reconciled...)
}
