package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/taller-api/internal/domain"
)

// checkStockConstraint protege stock_current >= 0 a nivel de tabla.
const checkStockConstraint = "products_stock_current_check"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// constraintName devuelve el nombre del constraint violado, si el error lo trae.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// mapError traduce errores de pgx a errores de dominio:
// sin filas -> ErrNotFound; bloqueo/deadlock/serialización -> ErrContention; el resto -> ErrStorage.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.LockNotAvailable, pgerrcode.DeadlockDetected, pgerrcode.SerializationFailure:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrContention, err)
		case pgerrcode.CheckViolation:
			if pgErr.ConstraintName == checkStockConstraint {
				return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
			}
		}
	}
	// Errores de dominio producidos dentro del callback no se reetiquetan.
	if domain.IsBusiness(err) || errors.Is(err, domain.ErrContention) || errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
