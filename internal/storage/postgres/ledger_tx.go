package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// ledgerTx implements repository.Tx on top of an open pgx transaction.
type ledgerTx struct {
	tx pgx.Tx
}

// NULL emails never conflict, so customers without email always get a new row.
const upsertCustomerQuery = `INSERT INTO customers (nombre, email, telefono, direccion)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (email) DO UPDATE
    SET nombre = EXCLUDED.nombre, telefono = EXCLUDED.telefono, direccion = EXCLUDED.direccion
    RETURNING id`

func (l *ledgerTx) UpsertCustomer(ctx context.Context, customer model.Customer) (int64, error) {
	var id int64
	err := l.tx.QueryRow(ctx, upsertCustomerQuery,
		customer.Name, nullable(customer.Email), nullable(customer.Phone), nullable(customer.Address),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert customer: %w", err)
	}
	return id, nil
}

const productsByIDQuery = `SELECT id, nombre, COALESCE(descripcion, ''), precio::text, COALESCE(imagen_url, ''), stock, activo
    FROM productos WHERE id = ANY($1)`

func (l *ledgerTx) ProductsByID(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	rows, err := l.tx.Query(ctx, productsByIDQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]model.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (l *ledgerTx) InsertOrder(ctx context.Context, customerID int64, total decimal.Decimal) (int64, error) {
	const query = `INSERT INTO pedidos (cliente_id, estado, total) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := l.tx.QueryRow(ctx, query, customerID, string(model.OrderStatusPending), total.String()).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

func (l *ledgerTx) InsertOrderItems(ctx context.Context, orderID int64, items []model.OrderItem) error {
	const query = `INSERT INTO pedido_items (pedido_id, producto_id, cantidad, precio_unit) VALUES ($1, $2, $3, $4)`
	for _, item := range items {
		if _, err := l.tx.Exec(ctx, query, orderID, item.ProductID, item.Quantity, item.UnitPrice.String()); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (l *ledgerTx) AttachPreference(ctx context.Context, orderID int64, preferenceID string) error {
	const query = `UPDATE pedidos SET mp_preference_id=$2 WHERE id=$1`
	tag, err := l.tx.Exec(ctx, query, orderID, preferenceID)
	if err != nil {
		return fmt.Errorf("attach preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (l *ledgerTx) LockOrderStatus(ctx context.Context, orderID int64) (model.OrderStatus, error) {
	const query = `SELECT estado FROM pedidos WHERE id=$1 FOR UPDATE`
	var status string
	if err := l.tx.QueryRow(ctx, query, orderID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domainErrors.ErrNotFound
		}
		return "", fmt.Errorf("lock order: %w", err)
	}
	return model.OrderStatus(status), nil
}

// Quantities are summed per product so repeated lines move stock by the full amount.
const adjustStockQuery = `UPDATE productos p SET stock = p.stock + ($2 * i.cantidad)
    FROM (SELECT producto_id, SUM(cantidad) AS cantidad FROM pedido_items WHERE pedido_id = $1 GROUP BY producto_id) i
    WHERE p.id = i.producto_id
    RETURNING p.id, p.stock`

func (l *ledgerTx) AdjustStock(ctx context.Context, orderID int64, effect model.StockEffect) ([]model.StockLevel, error) {
	if effect == model.StockUnchanged {
		return nil, nil
	}

	rows, err := l.tx.Query(ctx, adjustStockQuery, orderID, int(effect))
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	defer rows.Close()

	var levels []model.StockLevel
	for rows.Next() {
		var level model.StockLevel
		if err := rows.Scan(&level.ProductID, &level.Stock); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return levels, nil
}

// Terminal timestamps are sticky: COALESCE keeps the first stamp.
var applyStatusQueries = map[model.OrderStatus]string{
	model.OrderStatusPaid:       `UPDATE pedidos SET estado=$2, mp_payment_id=$3, pagado_at=COALESCE(pagado_at, NOW()) WHERE id=$1`,
	model.OrderStatusRefunded:   `UPDATE pedidos SET estado=$2, mp_payment_id=$3, reembolsado_at=COALESCE(reembolsado_at, NOW()) WHERE id=$1`,
	model.OrderStatusChargeback: `UPDATE pedidos SET estado=$2, mp_payment_id=$3, chargeback_at=COALESCE(chargeback_at, NOW()) WHERE id=$1`,
	model.OrderStatusCancelled:  `UPDATE pedidos SET estado=$2, mp_payment_id=$3, cancelado_at=COALESCE(cancelado_at, NOW()) WHERE id=$1`,
	model.OrderStatusRejected:   `UPDATE pedidos SET estado=$2, mp_payment_id=$3 WHERE id=$1`,
}

func (l *ledgerTx) ApplyStatus(ctx context.Context, orderID int64, status model.OrderStatus, paymentID string) error {
	query, ok := applyStatusQueries[status]
	if !ok {
		return fmt.Errorf("apply status %q: %w", status, domainErrors.ErrInvalidTransition)
	}
	tag, err := l.tx.Exec(ctx, query, orderID, string(status), nullable(paymentID))
	if err != nil {
		return fmt.Errorf("apply status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
