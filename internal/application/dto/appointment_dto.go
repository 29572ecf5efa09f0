package dto

import "time"

// CreateAppointmentRequest body para POST /api/appointments.
type CreateAppointmentRequest struct {
	CustomerID int64     `json:"customer_id" validate:"required,gt=0"`
	VehicleID  *int64    `json:"vehicle_id,omitempty"`
	ServiceID  *int64    `json:"service_id,omitempty"`
	Date       time.Time `json:"date" validate:"required"`
	Notes      string    `json:"notes"`
}

// UpdateAppointmentRequest body para PUT /api/appointments/:id.
type UpdateAppointmentRequest struct {
	VehicleID *int64     `json:"vehicle_id,omitempty"`
	ServiceID *int64     `json:"service_id,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// UpdateAppointmentStatusRequest body para PATCH /api/appointments/:id/status.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completada cancelada"`
}

// AppointmentResponse representación HTTP de una cita.
type AppointmentResponse struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	VehicleID  *int64    `json:"vehicle_id,omitempty"`
	ServiceID  *int64    `json:"service_id,omitempty"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AppointmentListResponse listado paginado de citas.
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Page         PageResponse          `json:"page"`
}
