package repository

import (
	"time"

	"github.com/tallerpro/taller-api/internal/domain/entity"
)

// MovementFilter acota los listados del libro de movimientos.
type MovementFilter struct {
	ItemKind  string
	ItemID    int64 // 0 = todos los ítems del tipo
	Direction string
	From, To  *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Es append-only: no expone update ni delete; las correcciones son movimientos
// compensatorios.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id int64) (*entity.Movement, error)
	// GetByIntentID devuelve el movimiento ya aplicado para una clave de
	// idempotencia, o (nil, nil) si la intención no se ha procesado.
	GetByIntentID(intentID string) (*entity.Movement, error)
	// List devuelve movimientos del más reciente al más antiguo.
	List(filter MovementFilter) ([]*entity.Movement, error)
}
