package repository

import "github.com/tallerpro/taller-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(c *entity.Customer) error
	GetByID(id int64) (*entity.Customer, error)
	// List filtra por nombre/teléfono/email normalizados si q no es vacío.
	List(q string, limit, offset int) ([]*entity.Customer, error)
	Update(c *entity.Customer) error
	Delete(id int64) error
}

// VehicleRepository define el puerto de persistencia para vehículos.
type VehicleRepository interface {
	Create(v *entity.Vehicle) error
	GetByID(id int64) (*entity.Vehicle, error)
	GetByPlate(plate string) (*entity.Vehicle, error)
	ListByCustomer(customerID int64) ([]*entity.Vehicle, error)
	Update(v *entity.Vehicle) error
	Delete(id int64) error
}
