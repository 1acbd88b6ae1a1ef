package handlers

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderFacade exposes order intake and lookup.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, submission model.CartSubmission) (*model.PlacedOrder, error)
	Order(ctx context.Context, id int64) (*model.OrderDetails, error)
}

// WebhookFacade reconciles payment notifications.
type WebhookFacade interface {
	HandlePaymentNotification(ctx context.Context, n model.Notification) error
}

// CatalogFacade exposes product catalog operations.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, draft model.ProductDraft) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
}

// HealthFacade reports backing store availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StoreFacade aggregates the facades required by HTTP handlers.
type StoreFacade interface {
	OrderFacade
	WebhookFacade
	CatalogFacade
	HealthFacade
}

// SignatureVerifier checks the webhook signature header.
type SignatureVerifier interface {
	Verify(header, dataID, requestID string) error
}
