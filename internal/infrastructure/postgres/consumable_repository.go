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

var _ repository.ConsumableRepository = (*ConsumableRepo)(nil)

// ConsumableRepo implementación del puerto ConsumableRepository sobre
// PostgreSQL (tabla insumos).
type ConsumableRepo struct {
	q Querier
}

// NewConsumableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumableRepository(q Querier) *ConsumableRepo {
	return &ConsumableRepo{q: q}
}

const consumableColumns = `id, nombre, unidad, costo_unitario, stock, creado_en, actualizado_en`

// Create persiste un insumo nuevo y asigna c.ID.
func (r *ConsumableRepo) Create(c *entity.Consumable) error {
	query := `
		INSERT INTO insumos (nombre, unidad, costo_unitario, stock, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		c.Name, c.Unit, c.UnitCost, c.Stock, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert insumo: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID, o (nil, nil) si no existe.
func (r *ConsumableRepo) GetByID(id int64) (*entity.Consumable, error) {
	query := fmt.Sprintf(`SELECT %s FROM insumos WHERE id = $1`, consumableColumns)
	c, err := scanConsumable(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get insumo: %w", err)
	}
	return c, nil
}

// List lista insumos ordenados por nombre; q ya viene normalizado.
func (r *ConsumableRepo) List(q string, limit, offset int) ([]*entity.Consumable, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM insumos
		WHERE ($1 = '' OR unaccent(lower(nombre)) LIKE '%%' || $1 || '%%')
		ORDER BY nombre LIMIT $2 OFFSET $3`, consumableColumns)
	rows, err := r.q.Query(context.Background(), query, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list insumos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Consumable
	for rows.Next() {
		c, err := scanConsumable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insumo: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables de un insumo (sin stock).
func (r *ConsumableRepo) Update(c *entity.Consumable) error {
	query := `
		UPDATE insumos
		SET nombre = $2, unidad = $3, costo_unitario = $4, actualizado_en = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.Unit, c.UnitCost, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update insumo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un insumo sin tocar su historial de movimientos.
func (r *ConsumableRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM insumos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete insumo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanConsumable(row pgx.Row) (*entity.Consumable, error) {
	var c entity.Consumable
	var unidad *string
	if err := row.Scan(&c.ID, &c.Name, &unidad, &c.UnitCost, &c.Stock,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if unidad != nil {
		c.Unit = *unidad
	}
	return &c, nil
}
