package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de venta y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateLine(ctx context.Context, line *entity.OrderLine) error
	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	// GetByIDForUpdate bloquea la cabecera hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Order, error)
	GetLines(ctx context.Context, orderID int64) ([]*entity.OrderLine, error)
	MarkVoid(ctx context.Context, orderID int64, voidedBy string) error
	// List devuelve las órdenes más recientes con el conteo de líneas.
	List(ctx context.Context, limit, offset int) ([]*entity.Order, error)
	// ListRecentLines devuelve las líneas vendidas más recientes (id descendente) con su cabecera.
	ListRecentLines(ctx context.Context, limit int) ([]*entity.SaleRecord, error)
}
