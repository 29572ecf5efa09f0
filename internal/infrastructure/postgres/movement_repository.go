package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/taller-api/internal/domain"
	"github.com/tallerpro/taller-api/internal/domain/entity"
	"github.com/tallerpro/taller-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (tabla movimientos, esquema heredado de la consola). Append-only; sin FK a
// productos/insumos para que borrar un ítem no altere su historial.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, intent_id, producto_id, insumo_id, tipo, cantidad, motivo, stock_anterior, stock_resultante, fecha`

// Create persiste un movimiento y asigna m.ID. Una intención repetida choca
// con el índice único de intent_id y retorna domain.ErrDuplicate.
func (r *MovementRepo) Create(m *entity.Movement) error {
	var productoID, insumoID *int64
	switch m.ItemKind {
	case entity.ItemKindProduct:
		productoID = &m.ItemID
	case entity.ItemKindConsumable:
		insumoID = &m.ItemID
	default:
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO movimientos (intent_id, producto_id, insumo_id, tipo, cantidad, motivo, stock_anterior, stock_resultante, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		m.IntentID, productoID, insumoID, m.Direction, m.Quantity, m.Reason,
		m.PreviousStock, m.ResultingStock, m.Date,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID, o (nil, nil) si no existe.
func (r *MovementRepo) GetByID(id int64) (*entity.Movement, error) {
	return r.getBy("id = $1", id)
}

// GetByIntentID obtiene el movimiento aplicado para una clave de idempotencia.
func (r *MovementRepo) GetByIntentID(intentID string) (*entity.Movement, error) {
	return r.getBy("intent_id = $1", intentID)
}

func (r *MovementRepo) getBy(cond string, arg any) (*entity.Movement, error) {
	query := fmt.Sprintf(`SELECT %s FROM movimientos WHERE %s`, movementColumns, cond)
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return m, nil
}

// List devuelve movimientos del más reciente al más antiguo según el filtro.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := fmt.Sprintf(`SELECT %s FROM movimientos WHERE 1=1`, movementColumns)
	args := []any{}
	pos := 1

	switch filter.ItemKind {
	case entity.ItemKindProduct:
		query += " AND producto_id IS NOT NULL"
		if filter.ItemID > 0 {
			query += fmt.Sprintf(" AND producto_id = $%d", pos)
			args = append(args, filter.ItemID)
			pos++
		}
	case entity.ItemKindConsumable:
		query += " AND insumo_id IS NOT NULL"
		if filter.ItemID > 0 {
			query += fmt.Sprintf(" AND insumo_id = $%d", pos)
			args = append(args, filter.ItemID)
			pos++
		}
	}
	if filter.Direction != "" {
		query += fmt.Sprintf(" AND tipo = $%d", pos)
		args = append(args, filter.Direction)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND fecha >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND fecha <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var productoID, insumoID *int64
	if err := row.Scan(&m.ID, &m.IntentID, &productoID, &insumoID, &m.Direction,
		&m.Quantity, &m.Reason, &m.PreviousStock, &m.ResultingStock, &m.Date); err != nil {
		return nil, err
	}
	if productoID != nil {
		m.ItemKind = entity.ItemKindProduct
		m.ItemID = *productoID
	} else if insumoID != nil {
		m.ItemKind = entity.ItemKindConsumable
		m.ItemID = *insumoID
	}
	return &m, nil
}
