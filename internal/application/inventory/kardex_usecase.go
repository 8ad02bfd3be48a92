package inventory

import (
	"context"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// Límites del listado del kardex.
const (
	DefaultKardexLimit = 30
	MaxKardexLimit     = 200
)

// KardexUseCase consultas de solo lectura sobre el kardex. Nunca es la fuente del stock.
type KardexUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) *KardexUseCase {
	return &KardexUseCase{productRepo: productRepo, movRepo: movRepo}
}

// History devuelve los movimientos del producto, más reciente primero.
// limit <= 0 usa el valor por defecto y se acota a MaxKardexLimit; before > 0 continúa desde ese id.
func (uc *KardexUseCase) History(ctx context.Context, productID int64, limit int, before int64) (*dto.KardexResponse, error) {
	if limit <= 0 {
		limit = DefaultKardexLimit
	}
	if limit > MaxKardexLimit {
		limit = MaxKardexLimit
	}
	if before < 0 {
		before = 0
	}
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	movs, err := uc.movRepo.ListByProduct(ctx, productID, before, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.KardexResponse{ProductID: productID, Items: make([]dto.MovementResponse, 0, len(movs))}
	for _, m := range movs {
		out.Items = append(out.Items, dto.ToMovementResponse(m))
	}
	if len(movs) == limit {
		next := movs[len(movs)-1].ID
		out.NextBefore = &next
	}
	return out, nil
}

// Reconcile verifica stock_initial + suma del kardex = stock_current para el producto.
func (uc *KardexUseCase) Reconcile(ctx context.Context, productID int64) (*dto.ReconcileResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	sum, count, err := uc.movRepo.SumQuantityByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	expected := product.StockInitial + sum
	return &dto.ReconcileResponse{
		ProductID:     product.ID,
		StockInitial:  product.StockInitial,
		LedgerSum:     sum,
		MovementCount: count,
		Expected:      expected,
		StockCurrent:  product.StockCurrent,
		Consistent:    expected == product.StockCurrent,
	}, nil
}
