package sales

import (
	"context"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y órdenes.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// StockAdjusterInTx interfaz para integrar ventas con inventario.
// AdjustInTx usa los repositorios del caller (misma transacción); si retorna error
// (ej: stock insuficiente) el caller debe hacer rollback.
type StockAdjusterInTx interface {
	AdjustInTx(
		ctx context.Context,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		in inventory.AdjustInput,
	) (*entity.InventoryMovement, *entity.Product, error)
}

// ReceiptPDFGenerator genera el comprobante de una orden en PDF.
type ReceiptPDFGenerator interface {
	GenerateOrderReceipt(order *entity.Order, lines []*entity.OrderLine) ([]byte, error)
}
