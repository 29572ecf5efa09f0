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

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo implementación del puerto VehicleRepository sobre PostgreSQL
// (tabla vehiculos).
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

const vehicleColumns = `id, cliente_id, placa, marca, modelo, anio, creado_en`

// Create persiste un vehículo nuevo y asigna v.ID.
func (r *VehicleRepo) Create(v *entity.Vehicle) error {
	query := `
		INSERT INTO vehiculos (cliente_id, placa, marca, modelo, anio, creado_en)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		v.CustomerID, v.Plate, v.Brand, v.Model, v.Year, v.CreatedAt,
	).Scan(&v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vehiculo: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo por ID, o (nil, nil) si no existe.
func (r *VehicleRepo) GetByID(id int64) (*entity.Vehicle, error) {
	return r.getBy("id = $1", id)
}

// GetByPlate obtiene un vehículo por placa.
func (r *VehicleRepo) GetByPlate(plate string) (*entity.Vehicle, error) {
	return r.getBy("placa = $1", plate)
}

func (r *VehicleRepo) getBy(cond string, arg any) (*entity.Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehiculos WHERE %s`, vehicleColumns, cond)
	v, err := scanVehicle(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehiculo: %w", err)
	}
	return v, nil
}

// ListByCustomer lista los vehículos de un cliente.
func (r *VehicleRepo) ListByCustomer(customerID int64) ([]*entity.Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehiculos WHERE cliente_id = $1 ORDER BY placa`, vehicleColumns)
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list vehiculos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehiculo: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Update actualiza un vehículo.
func (r *VehicleRepo) Update(v *entity.Vehicle) error {
	query := `
		UPDATE vehiculos
		SET placa = $2, marca = $3, modelo = $4, anio = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		v.ID, v.Plate, v.Brand, v.Model, v.Year,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update vehiculo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un vehículo.
func (r *VehicleRepo) Delete(id int64) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM vehiculos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehiculo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (*entity.Vehicle, error) {
	var v entity.Vehicle
	var marca, modelo *string
	var anio *int
	if err := row.Scan(&v.ID, &v.CustomerID, &v.Plate, &marca, &modelo,
		&anio, &v.CreatedAt); err != nil {
		return nil, err
	}
	if marca != nil {
		v.Brand = *marca
	}
	if modelo != nil {
		v.Model = *modelo
	}
	if anio != nil {
		v.Year = *anio
	}
	return &v, nil
}
