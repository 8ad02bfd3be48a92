package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia del kardex. Solo inserción.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByProduct devuelve los movimientos más recientes primero.
	// beforeID > 0 reanuda el listado a partir de movimientos con id menor.
	ListByProduct(ctx context.Context, productID, beforeID int64, limit int) ([]*entity.InventoryMovement, error)
	// SumQuantityByProduct devuelve la suma de cantidades y el número de movimientos del producto.
	SumQuantityByProduct(ctx context.Context, productID int64) (sum int, count int, err error)
}
