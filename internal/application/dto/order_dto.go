package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerName     string             `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerDocument string             `json:"customer_document" validate:"required,min=1,max=30"`
	CustomerPhone    string             `json:"customer_phone" validate:"required,min=1,max=30"`
	Description      string             `json:"description" validate:"max=500"`
	Lines            []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderLineRequest línea solicitada. UnitPrice nil = precio de venta del catálogo.
// Las líneas sin producto o con cantidad menor a 1 se descartan al crear la orden.
type OrderLineRequest struct {
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity" validate:"max=2147483647"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Note      string           `json:"note" validate:"max=300"`
}

// OrderLineResponse línea de una orden.
type OrderLineResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	Note        string          `json:"note,omitempty"`
}

// OrderResponse cabecera de la orden con sus líneas.
type OrderResponse struct {
	ID               int64               `json:"id"`
	Code             string              `json:"code"`
	CustomerName     string              `json:"customer_name"`
	CustomerDocument string              `json:"customer_document,omitempty"`
	CustomerPhone    string              `json:"customer_phone,omitempty"`
	Description      string              `json:"description,omitempty"`
	Total            decimal.Decimal     `json:"total"`
	Status           string              `json:"status"`
	CreatedBy        string              `json:"created_by"`
	VoidedBy         string              `json:"voided_by,omitempty"`
	VoidedAt         *time.Time          `json:"voided_at,omitempty"`
	LineCount        int                 `json:"line_count"`
	Lines            []OrderLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes recientes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToOrderResponse arma la respuesta de una orden; lines puede ser nil en listados.
func ToOrderResponse(o *entity.Order, lines []*entity.OrderLine) OrderResponse {
	out := OrderResponse{
		ID:               o.ID,
		Code:             o.Code,
		CustomerName:     o.CustomerName,
		CustomerDocument: o.CustomerDocument,
		CustomerPhone:    o.CustomerPhone,
		Description:      o.Description,
		Total:            o.Total,
		Status:           o.Status,
		CreatedBy:        o.CreatedBy,
		VoidedBy:         o.VoidedBy,
		VoidedAt:         o.VoidedAt,
		LineCount:        o.LineCount,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if lines != nil {
		out.LineCount = len(lines)
		out.Lines = make([]OrderLineResponse, 0, len(lines))
		for _, l := range lines {
			out.Lines = append(out.Lines, OrderLineResponse{
				ID:          l.ID,
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
				UnitPrice:   l.UnitPrice,
				Quantity:    l.Quantity,
				Total:       l.Total,
				Note:        l.Note,
			})
		}
	}
	return out
}

// CreateSaleRequest body para POST /api/sales: venta directa de un solo producto.
type CreateSaleRequest struct {
	CustomerName     string           `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerDocument string           `json:"customer_document" validate:"required,min=1,max=30"`
	CustomerPhone    string           `json:"customer_phone" validate:"required,min=1,max=30"`
	Description      string           `json:"description" validate:"max=500"`
	ProductID        int64            `json:"product_id" validate:"required,gt=0"`
	Quantity         int              `json:"quantity" validate:"required,gt=0,max=2147483647"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	Note             string           `json:"note" validate:"max=300"`
}

// RecentSalesRequest filtros de GET /api/sales.
type RecentSalesRequest struct {
	Limit int `query:"limit" validate:"min=0,max=200"`
}

// DefaultRecentSales cantidad de líneas del listado de ventas si no se indica limit.
const DefaultRecentSales = 50

// SaleLineResponse línea vendida con los datos de su orden.
type SaleLineResponse struct {
	OrderLineResponse
	OrderID          int64     `json:"order_id"`
	OrderCode        string    `json:"order_code"`
	OrderStatus      string    `json:"order_status"`
	CustomerName     string    `json:"customer_name"`
	CustomerDocument string    `json:"customer_document,omitempty"`
	CustomerPhone    string    `json:"customer_phone,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SaleListResponse ventas recientes, más reciente primero.
type SaleListResponse struct {
	Items []SaleLineResponse `json:"items"`
}

// ToSaleLineResponse convierte la línea vendida a su representación de salida.
func ToSaleLineResponse(r *entity.SaleRecord) SaleLineResponse {
	return SaleLineResponse{
		OrderLineResponse: OrderLineResponse{
			ID:          r.ID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			UnitPrice:   r.UnitPrice,
			Quantity:    r.Quantity,
			Total:       r.Total,
			Note:        r.Note,
		},
		OrderID:          r.OrderID,
		OrderCode:        r.OrderCode,
		OrderStatus:      r.OrderStatus,
		CustomerName:     r.CustomerName,
		CustomerDocument: r.CustomerDocument,
		CustomerPhone:    r.CustomerPhone,
		CreatedAt:        r.CreatedAt,
	}
}
