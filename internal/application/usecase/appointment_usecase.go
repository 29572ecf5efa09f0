package usecase

import (
	"time"

	"github.com/tallerpro/taller-api/internal/application/dto"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// AppointmentUseCase casos de uso para citas del taller.
type AppointmentUseCase struct {
	repo         repository.AppointmentRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
	serviceRepo  repository.ServiceRepository
}

// NewAppointmentUseCase construye el caso de uso.
func NewAppointmentUseCase(
	repo repository.AppointmentRepository,
	customerRepo repository.CustomerRepository,
	vehicleRepo repository.VehicleRepository,
	serviceRepo repository.ServiceRepository,
) *AppointmentUseCase {
	return &AppointmentUseCase{
		repo:         repo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		serviceRepo:  serviceRepo,
	}
}

// Create agenda una cita validando cliente, vehículo y servicio referenciados.
func (uc *AppointmentUseCase) Create(in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if in.CustomerID <= 0 || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.VehicleID != nil {
		vehicle, err := uc.vehicleRepo.GetByID(*in.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil || vehicle.CustomerID != in.CustomerID {
			return nil, domain.ErrNotFound
		}
	}
	if in.ServiceID != nil {
		service, err := uc.serviceRepo.GetByID(*in.ServiceID)
		if err != nil {
			return nil, err
		}
		if service == nil {
			return nil, domain.ErrNotFound
		}
	}
	appointment := &entity.Appointment{
		CustomerID: in.CustomerID,
		VehicleID:  in.VehicleID,
		ServiceID:  in.ServiceID,
		Date:       in.Date,
		Status:     entity.AppointmentStatusScheduled,
		Notes:      in.Notes,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// GetByID obtiene una cita por ID.
func (uc *AppointmentUseCase) GetByID(id int64) (*dto.AppointmentResponse, error) {
	appointment, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, nil
	}
	return toAppointmentResponse(appointment), nil
}

// List lista citas según filtro (cliente, estado, rango de fechas).
func (uc *AppointmentUseCase) List(filter repository.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	if filter.Status != "" && !entity.ValidAppointmentStatus(filter.Status) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	appointments, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	out := &dto.AppointmentListResponse{
		Appointments: make([]dto.AppointmentResponse, 0, len(appointments)),
		Page:         dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, a := range appointments {
		out.Appointments = append(out.Appointments, *toAppointmentResponse(a))
	}
	return out, nil
}

// Update modifica fecha, vehículo, servicio o notas de una cita programada.
func (uc *AppointmentUseCase) Update(id int64, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, nil
	}
	if appointment.Status != entity.AppointmentStatusScheduled {
		return nil, domain.ErrConflict
	}
	if in.VehicleID != nil {
		vehicle, err := uc.vehicleRepo.GetByID(*in.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle == nil || vehicle.CustomerID != appointment.CustomerID {
			return nil, domain.ErrNotFound
		}
		appointment.VehicleID = in.VehicleID
	}
	if in.ServiceID != nil {
		service, err := uc.serviceRepo.GetByID(*in.ServiceID)
		if err != nil {
			return nil, err
		}
		if service == nil {
			return nil, domain.ErrNotFound
		}
		appointment.ServiceID = in.ServiceID
	}
	if in.Date != nil {
		appointment.Date = *in.Date
	}
	if in.Notes != nil {
		appointment.Notes = *in.Notes
	}
	if err := uc.repo.Update(appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// UpdateStatus transiciona programada → completada | cancelada.
func (uc *AppointmentUseCase) UpdateStatus(id int64, status string) error {
	if status != entity.AppointmentStatusCompleted && status != entity.AppointmentStatusCancelled {
		return domain.ErrInvalidInput
	}
	return uc.repo.UpdateStatus(id, status)
}

// Delete elimina una cita.
func (uc *AppointmentUseCase) Delete(id int64) error {
	return uc.repo.Delete(id)
}

func toAppointmentResponse(a *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		VehicleID:  a.VehicleID,
		ServiceID:  a.ServiceID,
		Date:       a.Date,
		Status:     a.Status,
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
	}
}
