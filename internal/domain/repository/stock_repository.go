package repository

import "github.com/tallerpro/taller-api/internal/domain/entity"

// StockRepository define el puerto de stock unificado para productos e insumos.
// SetStock es el único mutador de stock y debe invocarse exclusivamente desde
// el reconciliador, dentro de su transacción.
type StockRepository interface {
	// Get devuelve la vista de stock del ítem, o (nil, nil) si no existe.
	Get(kind string, itemID int64) (*entity.ItemStock, error)
	// GetForUpdate devuelve la vista de stock bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(kind string, itemID int64) (*entity.ItemStock, error)
	// SetStock escribe el stock resultante calculado por el reconciliador.
	SetStock(kind string, itemID int64, stock int64) error
}
