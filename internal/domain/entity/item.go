package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem con stock. El tipo determina la tabla de respaldo
// (productos o insumos); ambos comparten el mismo contrato de stock.
const (
	ItemKindProduct    = "product"
	ItemKindConsumable = "consumable"
)

// ValidItemKind reporta si kind es un tipo de ítem conocido.
func ValidItemKind(kind string) bool {
	return kind == ItemKindProduct || kind == ItemKindConsumable
}

// Product representa un producto vendible del taller.
// Stock es entero y nunca negativo; solo lo muta el reconciliador vía movimientos.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Stock       int64
	Barcode     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Consumable representa un insumo de taller (aceite, filtros, etc.)
// con costo unitario y unidad de medida. Mismo contrato de stock que Product.
type Consumable struct {
	ID        int64
	Name      string
	Unit      string
	UnitCost  decimal.Decimal
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemStock es la vista mínima de stock que maneja el reconciliador,
// independiente de si el ítem es producto o insumo.
type ItemStock struct {
	ItemID    int64
	ItemKind  string
	Name      string
	Stock     int64
	UpdatedAt time.Time
}
