package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// Stock aquí es el stock inicial; después solo se muta vía movimientos.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int64           `json:"stock" validate:"min=0"`
	Barcode     string          `json:"barcode"`
}

// UpdateProductRequest body para PUT /api/products/:id. Sin Stock: el stock
// solo se modifica registrando movimientos.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Stock       int64           `json:"stock"`
	Barcode     string          `json:"barcode,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Page     PageResponse      `json:"page"`
}

// AvailabilityResponse respuesta del pre-chequeo consultivo de stock.
type AvailabilityResponse struct {
	ItemID    int64 `json:"item_id"`
	Quantity  int64 `json:"quantity"`
	Available bool  `json:"available"`
}
