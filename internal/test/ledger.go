package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// MemoryLedger is an in-memory ledger with serialized transactions.
// A transaction works on a copy of the state that replaces the committed
// state only when the transaction body succeeds.
type MemoryLedger struct {
	mu        sync.Mutex
	state     ledgerState
	now       func() time.Time
	Commits   int
	Rollbacks int
}

type ledgerState struct {
	customers    []model.Customer
	products     map[int64]model.Product
	orders       map[int64]model.Order
	items        []model.OrderItem
	nextCustomer int64
	nextOrder    int64
	nextItem     int64
}

// NewMemoryLedger creates a ledger seeded with products.
func NewMemoryLedger(products ...model.Product) *MemoryLedger {
	l := &MemoryLedger{
		state: ledgerState{
			products: make(map[int64]model.Product, len(products)),
			orders:   make(map[int64]model.Order),
		},
		now: time.Now,
	}
	for _, p := range products {
		l.state.products[p.ID] = p
	}
	return l
}

func (s ledgerState) clone() ledgerState {
	out := s
	out.customers = append([]model.Customer(nil), s.customers...)
	out.items = append([]model.OrderItem(nil), s.items...)
	out.products = make(map[int64]model.Product, len(s.products))
	for id, p := range s.products {
		out.products[id] = p
	}
	out.orders = make(map[int64]model.Order, len(s.orders))
	for id, o := range s.orders {
		out.orders[id] = o
	}
	return out
}

// WithinTransaction runs fn against a private copy of the state.
func (l *MemoryLedger) WithinTransaction(ctx context.Context, fn func(repository.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	work := l.state.clone()
	if err := fn(&memoryTx{state: &work, now: l.now}); err != nil {
		l.Rollbacks++
		return err
	}
	l.state = work
	l.Commits++
	return nil
}

// Product returns the committed product.
func (l *MemoryLedger) Product(id int64) model.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.products[id]
}

// SetPrice changes a catalog price outside any order.
func (l *MemoryLedger) SetPrice(id int64, price decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.state.products[id]
	p.Price = price
	l.state.products[id] = p
}

// Order returns the committed order.
func (l *MemoryLedger) Order(id int64) (model.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.state.orders[id]
	return o, ok
}

// OrderCount returns the number of committed orders.
func (l *MemoryLedger) OrderCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.state.orders)
}

// Customers returns the committed customers.
func (l *MemoryLedger) Customers() []model.Customer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Customer(nil), l.state.customers...)
}

// GetByID implements repository.OrderRepository.
func (l *MemoryLedger) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	o, ok := l.Order(id)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

// ListItems implements repository.OrderRepository.
func (l *MemoryLedger) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.OrderItem
	for _, item := range l.state.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

// ListPendingBefore implements repository.OrderRepository.
func (l *MemoryLedger) ListPendingBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ids []int64
	for id, o := range l.state.orders {
		if id > afterID && o.Status == model.OrderStatusPending && o.CreatedAt.Before(before) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type memoryTx struct {
	state *ledgerState
	now   func() time.Time
}

func (t *memoryTx) UpsertCustomer(ctx context.Context, customer model.Customer) (int64, error) {
	if customer.Email != "" {
		for i, existing := range t.state.customers {
			if existing.Email == customer.Email {
				customer.ID = existing.ID
				t.state.customers[i] = customer
				return customer.ID, nil
			}
		}
	}
	t.state.nextCustomer++
	customer.ID = t.state.nextCustomer
	t.state.customers = append(t.state.customers, customer)
	return customer.ID, nil
}

func (t *memoryTx) ProductsByID(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	out := make(map[int64]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.state.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (t *memoryTx) InsertOrder(ctx context.Context, customerID int64, total decimal.Decimal) (int64, error) {
	t.state.nextOrder++
	id := t.state.nextOrder
	t.state.orders[id] = model.Order{
		ID:         id,
		CustomerID: customerID,
		Status:     model.OrderStatusPending,
		Total:      total,
		CreatedAt:  t.now(),
	}
	return id, nil
}

func (t *memoryTx) InsertOrderItems(ctx context.Context, orderID int64, items []model.OrderItem) error {
	for _, item := range items {
		t.state.nextItem++
		item.ID = t.state.nextItem
		item.OrderID = orderID
		item.ProductName = t.state.products[item.ProductID].Name
		t.state.items = append(t.state.items, item)
	}
	return nil
}

func (t *memoryTx) AttachPreference(ctx context.Context, orderID int64, preferenceID string) error {
	o, ok := t.state.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.PreferenceID = preferenceID
	t.state.orders[orderID] = o
	return nil
}

func (t *memoryTx) LockOrderStatus(ctx context.Context, orderID int64) (model.OrderStatus, error) {
	o, ok := t.state.orders[orderID]
	if !ok {
		return "", domainErrors.ErrNotFound
	}
	return o.Status, nil
}

func (t *memoryTx) AdjustStock(ctx context.Context, orderID int64, effect model.StockEffect) ([]model.StockLevel, error) {
	if effect == model.StockUnchanged {
		return nil, nil
	}
	totals := make(map[int64]int)
	for _, item := range t.state.items {
		if item.OrderID == orderID {
			totals[item.ProductID] += item.Quantity
		}
	}
	levels := make([]model.StockLevel, 0, len(totals))
	for productID, qty := range totals {
		p := t.state.products[productID]
		p.Stock += int(effect) * qty
		t.state.products[productID] = p
		levels = append(levels, model.StockLevel{ProductID: productID, Stock: p.Stock})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ProductID < levels[j].ProductID })
	return levels, nil
}

func (t *memoryTx) ApplyStatus(ctx context.Context, orderID int64, status model.OrderStatus, paymentID string) error {
	o, ok := t.state.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	now := t.now()
	stamp := func(ts **time.Time) {
		if *ts == nil {
			*ts = &now
		}
	}
	switch status {
	case model.OrderStatusPaid:
		stamp(&o.PaidAt)
	case model.OrderStatusCancelled:
		stamp(&o.CancelledAt)
	case model.OrderStatusRefunded:
		stamp(&o.RefundedAt)
	case model.OrderStatusChargeback:
		stamp(&o.ChargebackAt)
	}
	o.Status = status
	o.PaymentID = paymentID
	t.state.orders[orderID] = o
	return nil
}

var (
	_ repository.Transactor      = (*MemoryLedger)(nil)
	_ repository.OrderRepository = (*MemoryLedger)(nil)
	_ repository.Tx              = (*memoryTx)(nil)
)
