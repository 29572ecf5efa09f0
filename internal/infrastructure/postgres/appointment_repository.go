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

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

// AppointmentRepo implementación del puerto AppointmentRepository sobre
// PostgreSQL (tabla citas).
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador.
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

const appointmentColumns = `id, cliente_id, vehiculo_id, servicio_id, fecha, estado, notas, creado_en`

// Create persiste una cita y asigna a.ID.
func (r *AppointmentRepo) Create(a *entity.Appointment) error {
	query := `
		INSERT INTO citas (cliente_id, vehiculo_id, servicio_id, fecha, estado, notas, creado_en)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		a.CustomerID, a.VehicleID, a.ServiceID, a.Date, a.Status, a.Notes, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert cita: %w", err)
	}
	return nil
}

// GetByID obtiene una cita por ID, o (nil, nil) si no existe.
func (r *AppointmentRepo) GetByID(id int64) (*entity.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM citas WHERE id = $1`, appointmentColumns)
	a, err := scanAppointment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cita: %w", err)
	}
	return a, nil
}

// List lista citas según el filtro, de la más próxima a la más lejana.
func (r *AppointmentRepo) List(filter repository.AppointmentFilter) ([]*entity.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM citas WHERE 1=1`, appointmentColumns)
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CustomerID != 0 {
		query += ` AND cliente_id = ` + arg(filter.CustomerID)
	}
	if filter.Status != "" {
		query += ` AND estado = ` + arg(filter.Status)
	}
	if filter.From != nil {
		query += ` AND fecha >= ` + arg(*filter.From)
	}
	if filter.To != nil {
		query += ` AND fecha <= ` + arg(*filter.To)
	}
	query += ` ORDER BY fecha ASC, id ASC`
	query += ` LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list citas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cita: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update actualiza los datos de una cita aún programada.
func (r *AppointmentRepo) Update(a *entity.Appointment) error {
	query := `
		UPDATE citas
		SET vehiculo_id = $2, servicio_id = $3, fecha = $4, notas = NULLIF($5, '')
		WHERE id = $1 AND estado = 'programada'`
	tag, err := r.q.Exec(context.Background(), query,
		a.ID, a.VehicleID, a.ServiceID, a.Date, a.Notes,
	)
	if err != nil {
		return fmt.Errorf("update cita: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMiss(a.ID)
	}
	return nil
}

// UpdateStatus transiciona una cita programada a un estado terminal.
func (r *AppointmentRepo) UpdateStatus(id int64, status string) error {
	query := `UPDATE citas SET estado = $2 WHERE id = $1 AND estado = 'programada'`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update estado cita: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMiss(id)
	}
	return nil
}

// Delete elimina una cita.
func (r *AppointmentRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM citas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cita: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// classifyMiss distingue cita inexistente de cita en estado terminal cuando
// un UPDATE condicionado por estado no afectó filas.
func (r *AppointmentRepo) classifyMiss(id int64) error {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM citas WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("verificar cita: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	var notas *string
	if err := row.Scan(&a.ID, &a.CustomerID, &a.VehicleID, &a.ServiceID,
		&a.Date, &a.Status, &notas, &a.CreatedAt); err != nil {
		return nil, err
	}
	if notas != nil {
		a.Notes = *notas
	}
	return &a, nil
}
