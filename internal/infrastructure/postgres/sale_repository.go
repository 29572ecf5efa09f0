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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL
// (tablas ventas y detalle_ventas, esquema heredado de la consola).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera de la venta y asigna s.ID.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO ventas (cliente_id, total, metodo_pago, estado, fecha)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		s.CustomerID, s.Total, s.PaymentMethod, s.Status, s.Date,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de venta y asigna it.ID.
func (r *SaleRepo) CreateItem(it *entity.SaleItem) error {
	var productoID, servicioID *int64
	switch it.Kind {
	case entity.SaleLineProduct:
		productoID = &it.ItemID
	case entity.SaleLineService:
		servicioID = &it.ItemID
	default:
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO detalle_ventas (venta_id, producto_id, servicio_id, cantidad, precio_unitario)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		it.SaleID, productoID, servicioID, it.Quantity, it.UnitPrice,
	).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("insert detalle venta: %w", err)
	}
	return nil
}

// GetByID obtiene una venta con sus líneas, o (nil, nil) si no existe.
func (r *SaleRepo) GetByID(id int64) (*entity.Sale, error) {
	query := `
		SELECT id, cliente_id, total, metodo_pago, estado, fecha
		FROM ventas WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	items, err := r.itemsBySale([]int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

// List devuelve ventas recientes con sus líneas, más nuevas primero.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, cliente_id, total, metodo_pago, estado, fecha
		FROM ventas ORDER BY fecha DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	var ids []int64
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		sales = append(sales, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return sales, nil
	}
	items, err := r.itemsBySale(ids)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		s.Items = items[s.ID]
	}
	return sales, nil
}

// UpdateStatus transiciona la venta de from a to. Los estados terminales no
// son re-enterables: si la venta ya no está en from retorna ErrSaleNotPending.
func (r *SaleRepo) UpdateStatus(id int64, from, to string) error {
	query := `UPDATE ventas SET estado = $3 WHERE id = $1 AND estado = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to)
	if err != nil {
		return fmt.Errorf("update estado venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.exists(id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrSaleNotPending
	}
	return nil
}

func (r *SaleRepo) exists(id int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM ventas WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists venta: %w", err)
	}
	return ok, nil
}

func (r *SaleRepo) itemsBySale(saleIDs []int64) (map[int64][]entity.SaleItem, error) {
	query := `
		SELECT id, venta_id, producto_id, servicio_id, cantidad, precio_unitario
		FROM detalle_ventas WHERE venta_id = ANY($1) ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list detalle ventas: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]entity.SaleItem)
	for rows.Next() {
		var it entity.SaleItem
		var productoID, servicioID *int64
		if err := rows.Scan(&it.ID, &it.SaleID, &productoID, &servicioID,
			&it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan detalle venta: %w", err)
		}
		if productoID != nil {
			it.Kind = entity.SaleLineProduct
			it.ItemID = *productoID
		} else if servicioID != nil {
			it.Kind = entity.SaleLineService
			it.ItemID = *servicioID
		}
		out[it.SaleID] = append(out[it.SaleID], it)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.CustomerID, &s.Total, &s.PaymentMethod,
		&s.Status, &s.Date); err != nil {
		return nil, err
	}
	return &s, nil
}
