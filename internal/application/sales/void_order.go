package sales

import (
	"context"
	"sort"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// VoidOrderUseCase anula una orden devolviendo al inventario lo vendido en cada línea.
type VoidOrderUseCase struct {
	txRunner SalesTxRunner
	adjuster StockAdjusterInTx
	notifier ports.Notifier
}

// NewVoidOrderUseCase construye el caso de uso. notifier puede ser nil.
func NewVoidOrderUseCase(txRunner SalesTxRunner, adjuster StockAdjusterInTx, notifier ports.Notifier) *VoidOrderUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &VoidOrderUseCase{txRunner: txRunner, adjuster: adjuster, notifier: notifier}
}

// VoidOrder bloquea la cabecera, rechaza con domain.ErrAlreadyVoid si ya estaba anulada, suma de vuelta
// cada línea (tipo void) y marca la orden como anulada, todo en una transacción. Nada se borra;
// el total de la cabecera se conserva como histórico.
func (uc *VoidOrderUseCase) VoidOrder(ctx context.Context, user string, orderID int64) (*dto.OrderResponse, error) {
	if orderID <= 0 {
		return nil, domain.Invalid("id de orden inválido")
	}

	var (
		order *entity.Order
		lines []*entity.OrderLine
		movs  []*entity.InventoryMovement
	)
	err := uc.txRunner.RunSales(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error {
		movs = nil
		var err error
		order, err = orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsVoid() {
			return domain.ErrAlreadyVoid
		}
		lines, err = orderRepo.GetLines(ctx, orderID)
		if err != nil {
			return err
		}

		byProduct := make([]*entity.OrderLine, len(lines))
		copy(byProduct, lines)
		sort.Slice(byProduct, func(i, j int) bool { return byProduct[i].ProductID < byProduct[j].ProductID })

		for _, l := range byProduct {
			ref := order.ID
			mov, _, err := uc.adjuster.AdjustInTx(ctx, movRepo, productRepo, inventory.AdjustInput{
				ProductID:     l.ProductID,
				Delta:         l.Quantity,
				Type:          entity.MovementTypeVoid,
				ReferenceType: entity.ReferenceVoid,
				ReferenceID:   &ref,
				Note:          "Anulación " + order.Code,
				User:          user,
			})
			if err != nil {
				return err
			}
			movs = append(movs, mov)
		}
		if err := orderRepo.MarkVoid(ctx, order.ID, user); err != nil {
			return err
		}
		order, err = orderRepo.GetByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := dto.ToOrderResponse(order, lines)
	for _, m := range movs {
		uc.notifier.Publish(ctx, ports.TopicInventoryMovement, dto.ToMovementResponse(m))
	}
	uc.notifier.Publish(ctx, ports.TopicOrderVoided, out)
	return &out, nil
}
