package test

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	GetByIDFn           func(context.Context, int64) (*model.Order, error)
	ListItemsFn         func(context.Context, int64) ([]model.OrderItem, error)
	ListPendingBeforeFn func(context.Context, time.Time, int64, int) ([]int64, error)
}

// GetByID delegates to the configured function or reports not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

// ListItems delegates to the configured function or returns no items.
func (s *OrderRepositoryStub) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	if s.ListItemsFn != nil {
		return s.ListItemsFn(ctx, orderID)
	}
	return nil, nil
}

// ListPendingBefore delegates to the configured function or returns no ids.
func (s *OrderRepositoryStub) ListPendingBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]int64, error) {
	if s.ListPendingBeforeFn != nil {
		return s.ListPendingBeforeFn(ctx, before, afterID, limit)
	}
	return nil, nil
}

// ProductRepositoryStub allows tests to customize catalog persistence.
type ProductRepositoryStub struct {
	ListActiveFn func(context.Context) ([]model.Product, error)
	CreateFn     func(context.Context, model.ProductDraft) (*model.Product, error)
	UpdateFn     func(context.Context, int64, model.ProductPatch) (*model.Product, error)
}

// ListActive delegates to the configured function or returns an empty list.
func (s *ProductRepositoryStub) ListActive(ctx context.Context) ([]model.Product, error) {
	if s.ListActiveFn != nil {
		return s.ListActiveFn(ctx)
	}
	return []model.Product{}, nil
}

// Create delegates to the configured function or echoes the draft.
func (s *ProductRepositoryStub) Create(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.Product{
		ID:          1,
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		ImageURL:    draft.ImageURL,
		Stock:       draft.Stock,
		Active:      draft.Active,
	}, nil
}

// Update delegates to the configured function or reports not found.
func (s *ProductRepositoryStub) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	return nil, domainErrors.ErrNotFound
}

var (
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
	_ repository.ProductRepository = (*ProductRepositoryStub)(nil)
)
