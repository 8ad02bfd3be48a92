package sales

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// LineInput una línea de venta ya consolidada. UnitPrice nil = precio de venta vigente.
type LineInput struct {
	ProductID int64
	Quantity  int
	UnitPrice *decimal.Decimal
	Note      string
}

// LineProcessor crea una línea de orden y descuenta su stock dentro de la transacción del caller.
type LineProcessor struct {
	adjuster StockAdjusterInTx
}

// NewLineProcessor construye el procesador de líneas.
func NewLineProcessor(adjuster StockAdjusterInTx) *LineProcessor {
	return &LineProcessor{adjuster: adjuster}
}

// CreateLineInTx descuenta el stock (tipo sale, referencia a la orden) y guarda la línea con
// el nombre del producto y el precio resueltos bajo el mismo bloqueo de fila.
func (p *LineProcessor) CreateLineInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	order *entity.Order,
	in LineInput,
	user string,
) (*entity.OrderLine, *entity.InventoryMovement, error) {
	if in.Quantity <= 0 {
		return nil, nil, domain.Invalid("cantidad inválida para el producto %d", in.ProductID)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, nil, domain.Invalid("precio unitario negativo para el producto %d", in.ProductID)
	}

	orderID := order.ID
	mov, product, err := p.adjuster.AdjustInTx(ctx, movRepo, productRepo, inventory.AdjustInput{
		ProductID:     in.ProductID,
		Delta:         -in.Quantity,
		Type:          entity.MovementTypeSale,
		ReferenceType: entity.ReferenceSale,
		ReferenceID:   &orderID,
		Note:          "Venta " + order.Code,
		User:          user,
	})
	if err != nil {
		return nil, nil, err
	}

	price := product.SalePrice
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	price = price.Round(2)

	line := &entity.OrderLine{
		OrderID:     order.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   price,
		Quantity:    in.Quantity,
		Total:       price.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
		Note:        strings.TrimSpace(in.Note),
		CreatedAt:   mov.CreatedAt,
	}
	if err := orderRepo.CreateLine(ctx, line); err != nil {
		return nil, nil, err
	}
	return line, mov, nil
}
