package usecase

import (
	"time"

	"github.com/tallerpro/taller-api/internal/application/dto"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// ConsumableUseCase casos de uso CRUD para insumos. Mismo contrato de stock
// que productos: el stock solo lo muta el reconciliador.
type ConsumableUseCase struct {
	repo repository.ConsumableRepository
}

// NewConsumableUseCase construye el caso de uso.
func NewConsumableUseCase(repo repository.ConsumableRepository) *ConsumableUseCase {
	return &ConsumableUseCase{repo: repo}
}

// Create crea un nuevo insumo.
func (uc *ConsumableUseCase) Create(in dto.CreateConsumableRequest) (*dto.ConsumableResponse, error) {
	if in.Name == "" || in.Stock < 0 || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	consumable := &entity.Consumable{
		Name:      in.Name,
		Unit:      in.Unit,
		UnitCost:  in.UnitCost,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(consumable); err != nil {
		return nil, err
	}
	return toConsumableResponse(consumable), nil
}

// GetByID obtiene un insumo por ID.
func (uc *ConsumableUseCase) GetByID(id int64) (*dto.ConsumableResponse, error) {
	consumable, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if consumable == nil {
		return nil, nil
	}
	return toConsumableResponse(consumable), nil
}

// List lista insumos; q filtra por nombre sin distinguir tildes.
func (uc *ConsumableUseCase) List(q string, limit, offset int) (*dto.ConsumableListResponse, error) {
	consumables, err := uc.repo.List(NormalizeQuery(q), limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ConsumableListResponse{
		Consumables: make([]dto.ConsumableResponse, 0, len(consumables)),
		Page:        dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, c := range consumables {
		out.Consumables = append(out.Consumables, *toConsumableResponse(c))
	}
	return out, nil
}

// Update actualiza un insumo. Sin Stock: se maneja vía movimientos.
func (uc *ConsumableUseCase) Update(id int64, in dto.UpdateConsumableRequest) (*dto.ConsumableResponse, error) {
	consumable, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if consumable == nil {
		return nil, nil
	}
	if in.Name != nil {
		consumable.Name = *in.Name
	}
	if in.Unit != nil {
		consumable.Unit = *in.Unit
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		consumable.UnitCost = *in.UnitCost
	}
	consumable.UpdatedAt = time.Now()
	if err := uc.repo.Update(consumable); err != nil {
		return nil, err
	}
	return toConsumableResponse(consumable), nil
}

// Delete elimina un insumo sin tocar su historial de movimientos.
func (uc *ConsumableUseCase) Delete(id int64) error {
	return uc.repo.Delete(id)
}

func toConsumableResponse(c *entity.Consumable) *dto.ConsumableResponse {
	return &dto.ConsumableResponse{
		ID:        c.ID,
		Name:      c.Name,
		Unit:      c.Unit,
		UnitCost:  c.UnitCost,
		Stock:     c.Stock,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
