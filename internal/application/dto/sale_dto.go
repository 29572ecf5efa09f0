package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutLineRequest línea del carrito: producto o servicio.
type CheckoutLineRequest struct {
	Kind      string          `json:"kind" validate:"required,oneof=product service"`
	ItemID    int64           `json:"item_id" validate:"required,gt=0"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CheckoutRequest body para POST /api/sales. Total es opcional: el servidor
// siempre recalcula y rechaza un total que no cuadre.
type CheckoutRequest struct {
	CustomerID    *int64                `json:"customer_id,omitempty"`
	PaymentMethod string                `json:"payment_method" validate:"required"`
	Total         decimal.Decimal       `json:"total"`
	Items         []CheckoutLineRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleLineWarning cumplimiento parcial de una línea (stock limitado a 0).
type SaleLineWarning struct {
	LineIndex int   `json:"line_index"`
	ItemID    int64 `json:"item_id"`
	Requested int64 `json:"requested"`
	NewStock  int64 `json:"new_stock"`
}

// CheckoutResponse resultado del checkout.
type CheckoutResponse struct {
	SaleID   int64             `json:"sale_id"`
	Status   string            `json:"status"`
	Total    decimal.Decimal   `json:"total"`
	Warnings []SaleLineWarning `json:"warnings,omitempty"`
}

// SaleItemResponse línea de una venta persistida.
type SaleItemResponse struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind"`
	ItemID    int64           `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleResponse representación HTTP de una venta con sus líneas.
type SaleResponse struct {
	ID            int64              `json:"id"`
	CustomerID    *int64             `json:"customer_id,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Date          time.Time          `json:"date"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Page  PageResponse   `json:"page"`
}
