package repository

import "github.com/tallerpro/taller-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos.
// El stock no se modifica por Update: solo el reconciliador lo muta.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	GetByBarcode(code string) (*entity.Product, error)
	// List filtra por nombre/categoría normalizados si q no es vacío.
	List(q string, limit, offset int) ([]*entity.Product, error)
	Update(p *entity.Product) error
	Delete(id int64) error
}
