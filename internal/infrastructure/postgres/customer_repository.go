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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL
// (tabla clientes).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, nombre, telefono, email, notas, creado_en, actualizado_en`

// Create persiste un cliente nuevo y asigna c.ID.
func (r *CustomerRepo) Create(c *entity.Customer) error {
	query := `
		INSERT INTO clientes (nombre, telefono, email, notas, creado_en, actualizado_en)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		c.Name, c.Phone, c.Email, c.Notes, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID, o (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(id int64) (*entity.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM clientes WHERE id = $1`, customerColumns)
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return c, nil
}

// List lista clientes ordenados por nombre; q ya viene normalizado y filtra
// por nombre, teléfono o email.
func (r *CustomerRepo) List(q string, limit, offset int) ([]*entity.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM clientes
		WHERE ($1 = '' OR unaccent(lower(nombre)) LIKE '%%' || $1 || '%%'
			OR coalesce(telefono, '') LIKE '%%' || $1 || '%%'
			OR lower(coalesce(email, '')) LIKE '%%' || $1 || '%%')
		ORDER BY nombre LIMIT $2 OFFSET $3`, customerColumns)
	rows, err := r.q.Query(context.Background(), query, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(c *entity.Customer) error {
	query := `
		UPDATE clientes
		SET nombre = $2, telefono = $3, email = $4, notas = $5, actualizado_en = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.Phone, c.Email, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente (sus vehículos caen en cascada).
func (r *CustomerRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var telefono, email, notas *string
	if err := row.Scan(&c.ID, &c.Name, &telefono, &email, &notas,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if telefono != nil {
		c.Phone = *telefono
	}
	if email != nil {
		c.Email = *email
	}
	if notas != nil {
		c.Notes = *notas
	}
	return &c, nil
}
