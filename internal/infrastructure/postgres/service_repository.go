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

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación del puerto ServiceRepository sobre PostgreSQL
// (tabla servicios).
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador.
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, nombre, descripcion, precio, creado_en, actualizado_en`

// Create persiste un servicio del catálogo y asigna s.ID.
func (r *ServiceRepo) Create(s *entity.Service) error {
	query := `
		INSERT INTO servicios (nombre, descripcion, precio, creado_en, actualizado_en)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		s.Name, s.Description, s.Price, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert servicio: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID, o (nil, nil) si no existe.
func (r *ServiceRepo) GetByID(id int64) (*entity.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM servicios WHERE id = $1`, serviceColumns)
	s, err := scanService(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicio: %w", err)
	}
	return s, nil
}

// List lista servicios, filtrando por nombre normalizado si q no es vacío.
func (r *ServiceRepo) List(q string, limit, offset int) ([]*entity.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM servicios`, serviceColumns)
	args := []any{}
	if q != "" {
		query += ` WHERE unaccent(lower(nombre)) LIKE '%' || $1 || '%'`
		args = append(args, q)
	}
	query += fmt.Sprintf(` ORDER BY nombre LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list servicios: %w", err)
	}
	defer rows.Close()

	var list []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza un servicio del catálogo.
func (r *ServiceRepo) Update(s *entity.Service) error {
	query := `
		UPDATE servicios
		SET nombre = $2, descripcion = NULLIF($3, ''), precio = $4, actualizado_en = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.Description, s.Price,
	)
	if err != nil {
		return fmt.Errorf("update servicio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un servicio del catálogo.
func (r *ServiceRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM servicios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete servicio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	var descripcion *string
	if err := row.Scan(&s.ID, &s.Name, &descripcion, &s.Price,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if descripcion != nil {
		s.Description = *descripcion
	}
	return &s, nil
}
