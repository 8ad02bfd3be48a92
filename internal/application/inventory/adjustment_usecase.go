package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	domaininv "github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// AdjustmentUseCase registra ajustes manuales de stock (entrada/salida) de forma transaccional.
type AdjustmentUseCase struct {
	txRunner TxRunner
	adjuster *StockAdjuster
	notifier ports.Notifier
}

// NewAdjustmentUseCase construye el caso de uso. notifier puede ser nil.
func NewAdjustmentUseCase(txRunner TxRunner, adjuster *StockAdjuster, notifier ports.Notifier) *AdjustmentUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &AdjustmentUseCase{txRunner: txRunner, adjuster: adjuster, notifier: notifier}
}

// RegisterAdjustment valida el ajuste antes de tomar el bloqueo, aplica el delta en una transacción
// y publica el movimiento después del commit.
func (uc *AdjustmentUseCase) RegisterAdjustment(ctx context.Context, user string, in dto.AdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if in.ProductID <= 0 {
		return nil, domain.Invalid("product_id requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("la cantidad debe ser un entero positivo")
	}
	if in.Quantity > domaininv.MaxQuantity {
		return nil, domain.Invalid("la cantidad no puede superar %d", domaininv.MaxQuantity)
	}
	delta := in.Quantity
	switch in.Type {
	case entity.MovementTypeEntry:
	case entity.MovementTypeExit:
		delta = -in.Quantity
	default:
		return nil, domain.Invalid("tipo de ajuste %q no soportado (entry|exit)", in.Type)
	}

	var (
		mov     *entity.InventoryMovement
		product *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		mov, product, err = uc.adjuster.AdjustInTx(ctx, movRepo, productRepo, AdjustInput{
			ProductID:     in.ProductID,
			Delta:         delta,
			Type:          in.Type,
			ReferenceType: entity.ReferenceAdjustment,
			Note:          strings.TrimSpace(in.Note),
			User:          user,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &dto.AdjustmentResponse{
		Product:  dto.ToProductResponse(product),
		Movement: dto.ToMovementResponse(mov),
	}
	uc.notifier.Publish(ctx, ports.TopicInventoryMovement, out.Movement)
	return out, nil
}
