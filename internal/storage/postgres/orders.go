package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT id, cliente_id, estado, total::text, COALESCE(mp_preference_id, ''), COALESCE(mp_payment_id, ''),
                   created_at, pagado_at, cancelado_at, reembolsado_at, chargeback_at
                   FROM pedidos WHERE id=$1`
	var (
		order  model.Order
		status string
		total  string
	)
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &status, &total, &order.PreferenceID, &order.PaymentID,
		&order.CreatedAt, &order.PaidAt, &order.CancelledAt, &order.RefundedAt, &order.ChargebackAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	order.Status = model.OrderStatus(status)
	if order.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT i.id, i.pedido_id, i.producto_id, p.nombre, i.cantidad, i.precio_unit::text
                   FROM pedido_items i JOIN productos p ON p.id = i.producto_id
                   WHERE i.pedido_id=$1 ORDER BY i.id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderItem
	for rows.Next() {
		var (
			item  model.OrderItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &price); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse unit price: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListPendingBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]int64, error) {
	const query = `SELECT id FROM pedidos
                   WHERE estado=$1 AND created_at < $2 AND id > $3
                   ORDER BY id
                   LIMIT $4`
	rows, err := r.storage.pool.Query(ctx, query, string(model.OrderStatusPending), before, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
