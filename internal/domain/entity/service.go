package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service es un servicio del catálogo del taller (mano de obra).
// No tiene stock: una línea de venta de servicio nunca genera movimientos.
type Service struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
