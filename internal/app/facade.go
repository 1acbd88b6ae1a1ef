package app

import (
	"context"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/usecase"
)

// HealthChecker reports whether the store backend is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StoreFacade aggregates use cases behind the operations used by the HTTP
// layer and the sweeper.
type StoreFacade struct {
	intake     *usecase.OrderIntake
	reconciler *usecase.WebhookReconciler
	query      *usecase.OrderQuery
	catalog    *usecase.ProductCatalog
	health     HealthChecker
}

func NewStoreFacade(intake *usecase.OrderIntake, reconciler *usecase.WebhookReconciler, query *usecase.OrderQuery, catalog *usecase.ProductCatalog, health HealthChecker) *StoreFacade {
	return &StoreFacade{intake: intake, reconciler: reconciler, query: query, catalog: catalog, health: health}
}

func (f *StoreFacade) PlaceOrder(ctx context.Context, submission model.CartSubmission) (*model.PlacedOrder, error) {
	return f.intake.PlaceOrder(ctx, submission)
}

func (f *StoreFacade) Order(ctx context.Context, id int64) (*model.OrderDetails, error) {
	return f.query.Get(ctx, id)
}

func (f *StoreFacade) HandlePaymentNotification(ctx context.Context, n model.Notification) error {
	_, err := f.reconciler.HandleNotification(ctx, n)
	return err
}

func (f *StoreFacade) PendingOrders(ctx context.Context, minAge time.Duration, afterID int64, limit int) ([]int64, error) {
	return f.reconciler.PendingOrders(ctx, minAge, afterID, limit)
}

func (f *StoreFacade) ReconcileOrder(ctx context.Context, orderID int64) error {
	return f.reconciler.ReconcileOrder(ctx, orderID)
}

func (f *StoreFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.ListActive(ctx)
}

func (f *StoreFacade) CreateProduct(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	return f.catalog.Create(ctx, draft)
}

func (f *StoreFacade) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	return f.catalog.Update(ctx, id, patch)
}

func (f *StoreFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
