package dto

import "time"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Notes string `json:"notes"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Notes *string `json:"notes,omitempty"`
}

// CustomerResponse representación HTTP de un cliente.
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse listado paginado de clientes.
type CustomerListResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Page      PageResponse       `json:"page"`
}

// CreateVehicleRequest body para POST /api/vehicles.
type CreateVehicleRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Plate      string `json:"plate" validate:"required"`
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Year       int    `json:"year" validate:"omitempty,min=1900"`
}

// UpdateVehicleRequest body para PUT /api/vehicles/:id.
type UpdateVehicleRequest struct {
	Plate *string `json:"plate,omitempty"`
	Brand *string `json:"brand,omitempty"`
	Model *string `json:"model,omitempty"`
	Year  *int    `json:"year,omitempty" validate:"omitempty,min=1900"`
}

// VehicleResponse representación HTTP de un vehículo.
type VehicleResponse struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Plate      string    `json:"plate"`
	Brand      string    `json:"brand,omitempty"`
	Model      string    `json:"model,omitempty"`
	Year       int       `json:"year,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
