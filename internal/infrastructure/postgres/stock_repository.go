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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del puerto de stock sobre PostgreSQL. El tipo de
// ítem decide la tabla (productos o insumos); ambas exponen el mismo contrato.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func stockTable(kind string) (string, error) {
	switch kind {
	case entity.ItemKindProduct:
		return "productos", nil
	case entity.ItemKindConsumable:
		return "insumos", nil
	}
	return "", domain.ErrInvalidInput
}

// Get obtiene la vista de stock de un ítem, o (nil, nil) si no existe.
func (r *StockRepo) Get(kind string, itemID int64) (*entity.ItemStock, error) {
	return r.get(kind, itemID, false)
}

// GetForUpdate obtiene la vista de stock bloqueando la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(kind string, itemID int64) (*entity.ItemStock, error) {
	return r.get(kind, itemID, true)
}

func (r *StockRepo) get(kind string, itemID int64, forUpdate bool) (*entity.ItemStock, error) {
	table, err := stockTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, nombre, stock, actualizado_en FROM %s WHERE id = $1`, table)
	if forUpdate {
		query += " FOR UPDATE"
	}
	s := entity.ItemStock{ItemKind: kind}
	err = r.q.QueryRow(context.Background(), query, itemID).Scan(
		&s.ItemID, &s.Name, &s.Stock, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock %s: %w", kind, err)
	}
	return &s, nil
}

// SetStock escribe el stock resultante calculado por el reconciliador.
func (r *StockRepo) SetStock(kind string, itemID int64, stock int64) error {
	table, err := stockTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET stock = $2, actualizado_en = now() WHERE id = $1`, table)
	tag, err := r.q.Exec(context.Background(), query, itemID, stock)
	if err != nil {
		return fmt.Errorf("set stock %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
