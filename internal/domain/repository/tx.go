package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// Tx exposes ledger operations bound to one database transaction.
type Tx interface {
	UpsertCustomer(ctx context.Context, customer model.Customer) (int64, error)
	ProductsByID(ctx context.Context, ids []int64) (map[int64]model.Product, error)
	InsertOrder(ctx context.Context, customerID int64, total decimal.Decimal) (int64, error)
	InsertOrderItems(ctx context.Context, orderID int64, items []model.OrderItem) error
	AttachPreference(ctx context.Context, orderID int64, preferenceID string) error

	// LockOrderStatus reads the current status and holds the order row until
	// the transaction ends.
	LockOrderStatus(ctx context.Context, orderID int64) (model.OrderStatus, error)
	AdjustStock(ctx context.Context, orderID int64, effect model.StockEffect) ([]model.StockLevel, error)
	ApplyStatus(ctx context.Context, orderID int64, status model.OrderStatus, paymentID string) error
}

// Transactor runs fn inside one transaction: commit when fn returns nil,
// rollback otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}
