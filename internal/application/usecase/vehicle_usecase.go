package usecase

import (
	"strings"
	"time"

	"github.com/tallerpro/taller-api/internal/application/dto"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// VehicleUseCase casos de uso CRUD para vehículos de clientes.
type VehicleUseCase struct {
	repo         repository.VehicleRepository
	customerRepo repository.CustomerRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository, customerRepo repository.CustomerRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo, customerRepo: customerRepo}
}

// Create registra un vehículo para un cliente existente. La placa es única.
func (uc *VehicleUseCase) Create(in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	plate := strings.ToUpper(strings.TrimSpace(in.Plate))
	if plate == "" || in.CustomerID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByPlate(plate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	vehicle := &entity.Vehicle{
		CustomerID: in.CustomerID,
		Plate:      plate,
		Brand:      in.Brand,
		Model:      in.Model,
		Year:       in.Year,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(vehicle); err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

// GetByID obtiene un vehículo por ID.
func (uc *VehicleUseCase) GetByID(id int64) (*dto.VehicleResponse, error) {
	vehicle, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, nil
	}
	return toVehicleResponse(vehicle), nil
}

// ListByCustomer lista los vehículos de un cliente.
func (uc *VehicleUseCase) ListByCustomer(customerID int64) ([]dto.VehicleResponse, error) {
	if customerID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	vehicles, err := uc.repo.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, *toVehicleResponse(v))
	}
	return out, nil
}

// Update actualiza un vehículo.
func (uc *VehicleUseCase) Update(id int64, in dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	vehicle, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, nil
	}
	if in.Plate != nil {
		plate := strings.ToUpper(strings.TrimSpace(*in.Plate))
		if plate == "" {
			return nil, domain.ErrInvalidInput
		}
		if plate != vehicle.Plate {
			existing, err := uc.repo.GetByPlate(plate)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrDuplicate
			}
		}
		vehicle.Plate = plate
	}
	if in.Brand != nil {
		vehicle.Brand = *in.Brand
	}
	if in.Model != nil {
		vehicle.Model = *in.Model
	}
	if in.Year != nil {
		vehicle.Year = *in.Year
	}
	if err := uc.repo.Update(vehicle); err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

// Delete elimina un vehículo.
func (uc *VehicleUseCase) Delete(id int64) error {
	return uc.repo.Delete(id)
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:         v.ID,
		CustomerID: v.CustomerID,
		Plate:      v.Plate,
		Brand:      v.Brand,
		Model:      v.Model,
		Year:       v.Year,
		CreatedAt:  v.CreatedAt,
	}
}
