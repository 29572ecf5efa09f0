package repository

import "github.com/tallerpro/taller-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// Create inserta la cabecera y asigna s.ID.
	Create(s *entity.Sale) error
	CreateItem(it *entity.SaleItem) error
	// GetByID devuelve la venta con sus líneas, o (nil, nil) si no existe.
	GetByID(id int64) (*entity.Sale, error)
	// List devuelve ventas recientes (cabeceras con líneas), más nuevas primero.
	List(limit, offset int) ([]*entity.Sale, error)
	// UpdateStatus transiciona la venta de from a to. Retorna ErrSaleNotPending
	// si la venta ya no está en el estado from (estados terminales no re-enterables).
	UpdateStatus(id int64, from, to string) error
}
