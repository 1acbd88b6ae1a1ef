package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the payment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusRejected   OrderStatus = "rejected"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusChargeback OrderStatus = "chargeback"
)

// OrderStatuses lists every known status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusRejected,
	OrderStatusCancelled,
	OrderStatusRefunded,
	OrderStatusChargeback,
}

// orderTransitions holds the allowed target statuses per current status.
// A paid order may only move to refunded or chargeback; refunded and
// chargeback are absorbing. Unpaid statuses stay open because a preference
// can collect a later payment after a rejected or cancelled attempt.
var orderTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending: {
		OrderStatusPaid:       true,
		OrderStatusRejected:   true,
		OrderStatusCancelled:  true,
		OrderStatusRefunded:   true,
		OrderStatusChargeback: true,
	},
	OrderStatusRejected: {
		OrderStatusPaid:       true,
		OrderStatusCancelled:  true,
		OrderStatusRefunded:   true,
		OrderStatusChargeback: true,
	},
	OrderStatusCancelled: {
		OrderStatusPaid:       true,
		OrderStatusRejected:   true,
		OrderStatusRefunded:   true,
		OrderStatusChargeback: true,
	},
	OrderStatusPaid: {
		OrderStatusRefunded:   true,
		OrderStatusChargeback: true,
	},
	OrderStatusRefunded:   {},
	OrderStatusChargeback: {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Absorbing reports whether no transition may leave s.
func (s OrderStatus) Absorbing() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to target is allowed.
// Staying in the same status is never a transition.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return orderTransitions[s][target]
}

// StockEffect is the sign applied to line item quantities when an order
// changes status.
type StockEffect int

const (
	StockUnchanged StockEffect = 0
	StockDecrement StockEffect = -1
	StockRestore   StockEffect = 1
)

// StockEffectOf returns the stock adjustment implied by moving from one
// status to another. Only entering paid consumes stock and only leaving paid
// for refunded or chargeback gives it back.
func StockEffectOf(from, to OrderStatus) StockEffect {
	switch {
	case from == to:
		return StockUnchanged
	case to == OrderStatusPaid:
		return StockDecrement
	case from == OrderStatusPaid && (to == OrderStatusRefunded || to == OrderStatusChargeback):
		return StockRestore
	default:
		return StockUnchanged
	}
}

// Order is a customer's confirmed cart.
type Order struct {
	ID           int64
	CustomerID   int64
	Status       OrderStatus
	Total        decimal.Decimal
	PreferenceID string
	PaymentID    string
	CreatedAt    time.Time
	PaidAt       *time.Time
	CancelledAt  *time.Time
	RefundedAt   *time.Time
	ChargebackAt *time.Time
}

// OrderItem is a product line with the unit price captured at order time.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal returns quantity times captured unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderTotal sums the subtotals of items.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderDetails bundles an order with its line items.
type OrderDetails struct {
	Order Order
	Items []OrderItem
}

// PlacedOrder is the outcome of a successful intake.
type PlacedOrder struct {
	OrderID    int64
	Total      decimal.Decimal
	PaymentURL string
}
