package postgres

import (
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tallerpro/taller-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isTransient clasifica fallas recuperables: problemas de conexión (clase 08),
// fallas de serialización (40001), deadlocks (40P01), apagados del servidor
// (clase 57) y errores de red. El reconciliador reintenta solo estos.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
		if len(pgErr.Code) >= 2 {
			switch pgErr.Code[:2] {
			case "08", "57":
				return true
			}
		}
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

// wrapTransient marca el error con domain.ErrTransientStore si es recuperable,
// conservando la causa para el log.
func wrapTransient(err error) error {
	if err == nil || !isTransient(err) {
		return err
	}
	return errors.Join(domain.ErrTransientStore, err)
}
