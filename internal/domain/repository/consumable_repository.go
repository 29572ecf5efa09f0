package repository

import "github.com/tallerpro/taller-api/internal/domain/entity"

// ConsumableRepository define el puerto de persistencia para insumos.
// Igual que productos, el stock solo lo muta el reconciliador.
type ConsumableRepository interface {
	Create(c *entity.Consumable) error
	GetByID(id int64) (*entity.Consumable, error)
	List(q string, limit, offset int) ([]*entity.Consumable, error)
	Update(c *entity.Consumable) error
	Delete(id int64) error
}
