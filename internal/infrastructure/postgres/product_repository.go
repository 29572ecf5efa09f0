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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (tabla productos). La correspondencia columna↔campo queda fija en las
// listas de columnas; nada de remapeo dinámico.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, nombre, descripcion, precio, categoria, stock, codigo_barras, creado_en, actualizado_en`

// Create persiste un producto nuevo y asigna p.ID.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO productos (nombre, descripcion, precio, categoria, stock, codigo_barras, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.Name, p.Description, p.Price, p.Category, p.Stock, p.Barcode, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID, o (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	return r.getBy("id = $1", id)
}

// GetByBarcode obtiene un producto por código de barras (escáner del POS).
func (r *ProductRepo) GetByBarcode(code string) (*entity.Product, error) {
	return r.getBy("codigo_barras = $1", code)
}

func (r *ProductRepo) getBy(cond string, arg any) (*entity.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM productos WHERE %s`, productColumns, cond)
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// List lista productos ordenados por nombre. q ya viene normalizado (minúsculas
// sin tildes); el lado SQL pasa por unaccent para empatar.
func (r *ProductRepo) List(q string, limit, offset int) ([]*entity.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM productos
		WHERE ($1 = '' OR unaccent(lower(nombre)) LIKE '%%' || $1 || '%%'
			OR unaccent(lower(coalesce(categoria, ''))) LIKE '%%' || $1 || '%%')
		ORDER BY nombre LIMIT $2 OFFSET $3`, productColumns)
	rows, err := r.q.Query(context.Background(), query, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables de un producto. El stock no se toca
// por este camino: solo lo escribe el reconciliador.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE productos
		SET nombre = $2, descripcion = $3, precio = $4, categoria = $5,
			codigo_barras = NULLIF($6, ''), actualizado_en = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Barcode, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto. Los movimientos históricos que lo referencian
// no se tocan (sin FK desde movimientos).
func (r *ProductRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var descripcion, categoria, barcode *string
	if err := row.Scan(&p.ID, &p.Name, &descripcion, &p.Price, &categoria,
		&p.Stock, &barcode, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if descripcion != nil {
		p.Description = *descripcion
	}
	if categoria != nil {
		p.Category = *categoria
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	return &p, nil
}
