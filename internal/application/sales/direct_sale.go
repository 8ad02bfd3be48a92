package sales

import (
	"context"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
)

// CreateSale registra la venta directa de un producto como una orden de una sola línea.
// A diferencia de las órdenes con varias líneas, una línea inválida se rechaza en vez de descartarse.
func (uc *CreateOrderUseCase) CreateSale(ctx context.Context, user, idempotencyKey string, in dto.CreateSaleRequest) (*CreateOrderResult, error) {
	if in.ProductID <= 0 {
		return nil, domain.Invalid("product_id requerido")
	}
	if in.Quantity < 1 {
		return nil, domain.Invalid("la cantidad debe ser un entero positivo")
	}
	return uc.CreateOrder(ctx, user, idempotencyKey, dto.CreateOrderRequest{
		CustomerName:     in.CustomerName,
		CustomerDocument: in.CustomerDocument,
		CustomerPhone:    in.CustomerPhone,
		Description:      in.Description,
		Lines: []dto.OrderLineRequest{{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			Note:      in.Note,
		}},
	})
}

// RecentSales devuelve las últimas líneas vendidas, más reciente primero.
func (uc *OrderQueryUseCase) RecentSales(ctx context.Context, limit int) (*dto.SaleListResponse, error) {
	if limit <= 0 {
		limit = dto.DefaultRecentSales
	}
	if limit > dto.MaxPageLimit {
		limit = dto.MaxPageLimit
	}
	records, err := uc.orderRepo.ListRecentLines(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleLineResponse, 0, len(records))}
	for _, r := range records {
		out.Items = append(out.Items, dto.ToSaleLineResponse(r))
	}
	return out, nil
}
