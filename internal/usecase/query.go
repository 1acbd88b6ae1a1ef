package usecase

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// OrderQuery reads orders without modifying them.
type OrderQuery struct {
	orders repository.OrderRepository
}

// NewOrderQuery constructs OrderQuery.
func NewOrderQuery(orders repository.OrderRepository) *OrderQuery {
	return &OrderQuery{orders: orders}
}

// Get returns the order with its line items or ErrNotFound.
func (q *OrderQuery) Get(ctx context.Context, id int64) (*model.OrderDetails, error) {
	order, err := q.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := q.orders.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.OrderDetails{Order: *order, Items: items}, nil
}
