package inventory

import (
	"context"

	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

// HistoryUseCase sirve las vistas de auditoría del libro de movimientos.
// Lecturas puras, paginadas y reiniciables; nunca muta estado.
type HistoryUseCase struct {
	movRepo repository.MovementRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movRepo repository.MovementRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo}
}

// List devuelve movimientos del más reciente al más antiguo según el filtro.
func (uc *HistoryUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.ItemKind != "" && !entity.ValidItemKind(filter.ItemKind) {
		return nil, domain.ErrInvalidInput
	}
	if filter.Direction != "" && !entity.ValidDirection(filter.Direction) {
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
	return uc.movRepo.List(filter)
}

// ListByItem devuelve el historial de un ítem, más reciente primero.
func (uc *HistoryUseCase) ListByItem(ctx context.Context, kind string, itemID int64, limit, offset int) ([]*entity.Movement, error) {
	if !entity.ValidItemKind(kind) || itemID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.List(ctx, repository.MovementFilter{
		ItemKind: kind,
		ItemID:   itemID,
		Limit:    limit,
		Offset:   offset,
	})
}
