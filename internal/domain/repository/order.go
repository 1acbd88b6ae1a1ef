package repository

import (
	"context"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderRepository describes read access to orders outside transactions.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// ListPendingBefore pages pending orders created before the given time by ascending id, starting after afterID.
	ListPendingBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]int64, error)
}
