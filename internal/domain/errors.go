package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicateCode     = errors.New("código de producto duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyVoid       = errors.New("la orden ya está anulada")
	ErrContention        = errors.New("recurso bloqueado por otra operación, reintente")
	ErrStorage           = errors.New("fallo de almacenamiento")
	// ErrDuplicateRequest: la clave de idempotencia ya fue usada por otra orden.
	ErrDuplicateRequest = errors.New("solicitud duplicada")
)

// Invalid construye un ErrInvalidInput con el detalle del campo rechazado.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StockError detalla un rechazo por stock insuficiente. errors.Is(err, ErrInsufficientStock) es true.
type StockError struct {
	ProductID int64
	Code      string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", e.Code, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// IsBusiness indica si el error es un resultado de negocio esperado (no una falla del sistema).
func IsBusiness(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateCode) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrAlreadyVoid)
}
