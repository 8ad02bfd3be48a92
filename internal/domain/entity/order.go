package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta. Única transición permitida: issued -> void.
const (
	OrderStatusIssued = "issued"
	OrderStatusVoid   = "void"
)

// Order representa la cabecera de una orden de venta.
type Order struct {
	ID               int64
	Code             string
	CustomerName     string
	CustomerDocument string // cédula
	CustomerPhone    string
	Description      string
	Total            decimal.Decimal // suma de los totales de las líneas
	Status           string
	CreatedBy        string
	IdempotencyKey   string
	VoidedBy         string
	VoidedAt         *time.Time
	LineCount        int // solo en listados
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsVoid indica si la orden ya fue anulada.
func (o *Order) IsVoid() bool {
	return o.Status == OrderStatusVoid
}

// OrderLine representa una línea de la orden. ProductName es una copia del nombre al momento de la venta.
type OrderLine struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Total       decimal.Decimal // UnitPrice * Quantity, calculado al crear
	Note        string
	CreatedAt   time.Time
}

// SaleRecord línea vendida con los datos de su orden, para el listado de ventas recientes.
type SaleRecord struct {
	OrderLine
	OrderCode        string
	OrderStatus      string
	CustomerName     string
	CustomerDocument string
	CustomerPhone    string
}
