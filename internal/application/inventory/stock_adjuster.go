package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	domaininv "github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// AdjustInput describe un cambio de stock con signo y su referencia en el kardex.
type AdjustInput struct {
	ProductID     int64
	Delta         int // positivo suma, negativo resta
	Type          string
	ReferenceType string
	ReferenceID   *int64
	Note          string
	User          string
}

// StockAdjuster es el único punto por donde cambia products.stock_current.
// Toda escritura de stock va acompañada de su fila en inventory_movements en la misma transacción.
type StockAdjuster struct {
	now func() time.Time
}

// NewStockAdjuster construye el ajustador.
func NewStockAdjuster() *StockAdjuster {
	return &StockAdjuster{now: time.Now}
}

// AdjustInTx aplica el delta usando los repositorios del caller (misma transacción).
// Bloquea la fila del producto (SELECT FOR UPDATE), lee el stock bajo el bloqueo y rechaza
// con *domain.StockError si el resultado fuera negativo. Devuelve el movimiento y el producto actualizado.
// Si retorna error el caller debe hacer rollback.
func (a *StockAdjuster) AdjustInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	in AdjustInput,
) (*entity.InventoryMovement, *entity.Product, error) {
	if in.ProductID <= 0 {
		return nil, nil, domain.Invalid("product_id requerido")
	}
	if in.Delta == 0 {
		return nil, nil, domain.Invalid("la cantidad no puede ser cero")
	}

	product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, nil, err
	}

	before := product.StockCurrent
	after, err := domaininv.ApplyDelta(before, in.Delta)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, nil, &domain.StockError{
				ProductID: product.ID,
				Code:      product.Code,
				Available: before,
				Requested: -in.Delta,
			}
		}
		return nil, nil, err
	}

	if err := productRepo.UpdateStock(ctx, product.ID, after); err != nil {
		return nil, nil, err
	}
	product.StockCurrent = after

	mov := &entity.InventoryMovement{
		ProductID:     product.ID,
		Type:          in.Type,
		Quantity:      in.Delta,
		StockBefore:   before,
		StockAfter:    after,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Note:          in.Note,
		CreatedBy:     in.User,
		CreatedAt:     a.now(),
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return mov, product, nil
}
