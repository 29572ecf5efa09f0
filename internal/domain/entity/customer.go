package entity

import "time"

// Customer es un cliente del taller. Puede tener varios vehículos asociados.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vehicle es un vehículo registrado a nombre de un cliente. La placa es única.
type Vehicle struct {
	ID         int64
	CustomerID int64
	Plate      string
	Brand      string
	Model      string
	Year       int
	CreatedAt  time.Time
}
