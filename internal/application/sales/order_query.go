package sales

import (
	"context"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// OrderQueryUseCase consultas de órdenes.
type OrderQueryUseCase struct {
	orderRepo repository.OrderRepository
}

// NewOrderQueryUseCase construye el caso de uso.
func NewOrderQueryUseCase(orderRepo repository.OrderRepository) *OrderQueryUseCase {
	return &OrderQueryUseCase{orderRepo: orderRepo}
}

// GetByID devuelve la cabecera con sus líneas.
func (uc *OrderQueryUseCase) GetByID(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.orderRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToOrderResponse(order, lines)
	return &out, nil
}

// List devuelve las órdenes más recientes con su conteo de líneas.
func (uc *OrderQueryUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	orders, err := uc.orderRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, o := range orders {
		out.Items = append(out.Items, dto.ToOrderResponse(o, nil))
	}
	return out, nil
}
