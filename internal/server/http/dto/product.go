package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// ProductResponse describes a catalog entry.
type ProductResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	ImageURL    string      `json:"image_url"`
	Stock       int         `json:"stock"`
	Active      bool        `json:"active"`
}

// NewProductResponse maps a product to its response body.
func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       Money(p.Price),
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Active:      p.Active,
	}
}

// ProductCreateRequest is the body of POST /api/admin/productos.
type ProductCreateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	Active      *bool           `json:"active"`
}

// Draft converts the request; products are active unless stated otherwise.
func (r ProductCreateRequest) Draft() model.ProductDraft {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return model.ProductDraft{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		Active:      active,
	}
}

// ProductUpdateRequest is the body of PUT /api/admin/productos/:id.
type ProductUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Stock       *int             `json:"stock"`
	Active      *bool            `json:"active"`
}

// Patch converts the request into a partial update.
func (r ProductUpdateRequest) Patch() model.ProductPatch {
	return model.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		Active:      r.Active,
	}
}
