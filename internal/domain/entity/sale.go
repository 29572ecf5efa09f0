package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Máquina de estados: pendiente → completada | fallida.
// Los estados terminales no son re-enterables; una venta fallida se reintenta
// como una venta nueva.
const (
	SaleStatusPending   = "pendiente"
	SaleStatusCompleted = "completada"
	SaleStatusFailed    = "fallida"
)

// Tipos de línea de venta.
const (
	SaleLineProduct = "product"
	SaleLineService = "service"
)

// Sale representa una venta del punto de venta. Cada línea de producto de una
// venta completada tiene exactamente un movimiento de salida asociado
// (motivo "Venta #<id>").
type Sale struct {
	ID            int64
	CustomerID    *int64
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	Date          time.Time
	Items         []SaleItem
}

// SaleItem es una línea de venta: producto (descuenta stock) o servicio (no).
type SaleItem struct {
	ID        int64
	SaleID    int64
	Kind      string
	ItemID    int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal devuelve cantidad * precio unitario de la línea.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
