package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceRequest body para POST /api/services.
type CreateServiceRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateServiceRequest body para PUT /api/services/:id.
type UpdateServiceRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// ServiceResponse representación HTTP de un servicio del catálogo.
type ServiceResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ServiceListResponse listado paginado de servicios.
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Page     PageResponse      `json:"page"`
}
