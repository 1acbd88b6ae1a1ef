package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// ProductCatalog manages catalog entries.
type ProductCatalog struct {
	products repository.ProductRepository
}

// NewProductCatalog constructs ProductCatalog.
func NewProductCatalog(products repository.ProductRepository) *ProductCatalog {
	return &ProductCatalog{products: products}
}

// ListActive returns the products on sale ordered by id.
func (c *ProductCatalog) ListActive(ctx context.Context) ([]model.Product, error) {
	return c.products.ListActive(ctx)
}

// Create validates and stores a new product.
func (c *ProductCatalog) Create(ctx context.Context, draft model.ProductDraft) (*model.Product, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.ImageURL = strings.TrimSpace(draft.ImageURL)
	if err := validate.Struct(draft); err != nil {
		return nil, fieldError("", err)
	}
	if draft.Price.IsNegative() {
		return nil, domainErrors.Invalid("price", "must be zero or greater")
	}
	draft.Price = draft.Price.Round(2)
	return c.products.Create(ctx, draft)
}

// Update applies a partial change to a product.
func (c *ProductCatalog) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if id <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	patch.Name = trimmed(patch.Name)
	patch.Description = trimmed(patch.Description)
	patch.ImageURL = trimmed(patch.ImageURL)
	if patch.Name != nil && *patch.Name == "" {
		return nil, domainErrors.Invalid("name", "is required")
	}
	if err := validate.Struct(patch); err != nil {
		return nil, fieldError("", err)
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, domainErrors.Invalid("price", "must be zero or greater")
		}
		rounded := patch.Price.Round(2)
		patch.Price = &rounded
	}
	return c.products.Update(ctx, id, patch)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
