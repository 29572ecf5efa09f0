package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateConsumableRequest body para POST /api/consumables.
type CreateConsumableRequest struct {
	Name     string          `json:"name" validate:"required"`
	Unit     string          `json:"unit"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Stock    int64           `json:"stock" validate:"min=0"`
}

// UpdateConsumableRequest body para PUT /api/consumables/:id. Sin Stock.
type UpdateConsumableRequest struct {
	Name     *string          `json:"name,omitempty"`
	Unit     *string          `json:"unit,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ConsumableResponse representación HTTP de un insumo.
type ConsumableResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Stock     int64           `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ConsumableListResponse listado paginado de insumos.
type ConsumableListResponse struct {
	Consumables []ConsumableResponse `json:"consumables"`
	Page        PageResponse         `json:"page"`
}
