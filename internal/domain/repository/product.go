package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// ProductRepository describes catalog persistence.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, draft model.ProductDraft) (*model.Product, error)
	Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
}
