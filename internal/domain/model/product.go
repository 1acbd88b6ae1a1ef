package model

import "github.com/shopspring/decimal"

// Product is a catalog entry.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stock       int
	Active      bool
}

// ProductDraft carries the fields of a new catalog entry.
type ProductDraft struct {
	Name        string          `validate:"required,max=100"`
	Description string          `validate:"max=1000"`
	Price       decimal.Decimal `validate:"-"`
	ImageURL    string          `validate:"omitempty,max=500"`
	Stock       int             `validate:"min=0"`
	Active      bool
}

// ProductPatch carries a partial catalog update; nil fields are kept.
type ProductPatch struct {
	Name        *string          `validate:"omitempty,min=1,max=100"`
	Description *string          `validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `validate:"-"`
	ImageURL    *string          `validate:"omitempty,max=500"`
	Stock       *int             `validate:"omitempty,min=0"`
	Active      *bool
}

// StockLevel is a product stock count after an adjustment.
type StockLevel struct {
	ProductID int64
	Stock     int
}
