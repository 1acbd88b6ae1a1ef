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

const productColumns = `id, nombre, COALESCE(descripcion, ''), precio::text, COALESCE(imagen_url, ''), stock, activo`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p     model.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.ImageURL, &p.Stock, &p.Active); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	return &p, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT `+productColumns+` FROM productos WHERE activo = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) Create(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	const query = `INSERT INTO productos (nombre, descripcion, precio, imagen_url, stock, activo)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING ` + productColumns
	return scanProduct(r.storage.pool.QueryRow(ctx, query,
		draft.Name, nullable(draft.Description), draft.Price.String(), nullable(draft.ImageURL), draft.Stock, draft.Active,
	))
}

func (r *productRepository) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	const query = `UPDATE productos SET
                   nombre = COALESCE($2, nombre),
                   descripcion = COALESCE($3, descripcion),
                   precio = COALESCE($4::numeric, precio),
                   imagen_url = COALESCE($5, imagen_url),
                   stock = COALESCE($6, stock),
                   activo = COALESCE($7, activo)
                   WHERE id=$1
                   RETURNING ` + productColumns
	var price *string
	if patch.Price != nil {
		s := patch.Price.String()
		price = &s
	}
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, query,
		id, patch.Name, patch.Description, price, patch.ImageURL, patch.Stock, patch.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
