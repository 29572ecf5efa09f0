package entity

import "time"

// Estados de una cita. programada → completada | cancelada.
const (
	AppointmentStatusScheduled = "programada"
	AppointmentStatusCompleted = "completada"
	AppointmentStatusCancelled = "cancelada"
)

// ValidAppointmentStatus reporta si status es un estado de cita conocido.
func ValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment es una cita agendada para un cliente, opcionalmente ligada a un
// vehículo y a un servicio del catálogo.
type Appointment struct {
	ID         int64
	CustomerID int64
	VehicleID  *int64
	ServiceID  *int64
	Date       time.Time
	Status     string
	Notes      string
	CreatedAt  time.Time
}
