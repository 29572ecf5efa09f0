package repository

import (
	"time"

	"github.com/tallerpro/taller-api/internal/domain/entity"
)

// AppointmentFilter acota los listados de citas.
type AppointmentFilter struct {
	CustomerID int64 // 0 = todos
	Status     string
	From, To   *time.Time
	Limit      int
	Offset     int
}

// AppointmentRepository define el puerto de persistencia para citas.
type AppointmentRepository interface {
	Create(a *entity.Appointment) error
	GetByID(id int64) (*entity.Appointment, error)
	List(filter AppointmentFilter) ([]*entity.Appointment, error)
	Update(a *entity.Appointment) error
	// UpdateStatus transiciona una cita programada a completada o cancelada.
	// Retorna ErrConflict si la cita ya está en estado terminal.
	UpdateStatus(id int64, status string) error
	Delete(id int64) error
}
