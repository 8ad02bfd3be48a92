package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry = "entry" // entrada manual
	MovementTypeExit  = "exit"  // salida manual
	MovementTypeSale  = "sale"  // venta (línea de orden)
	MovementTypeVoid  = "void"  // anulación de orden
)

// Tipos de referencia del movimiento (entidad que lo causó).
const (
	ReferenceAdjustment = "adjustment"
	ReferenceSale       = "sale"
	ReferenceVoid       = "void"
)

// InventoryMovement es una fila del kardex. Inmutable una vez escrita.
// StockAfter = StockBefore + Quantity.
type InventoryMovement struct {
	ID            int64
	ProductID     int64
	Type          string
	Quantity      int // positivo entrada/anulación, negativo salida/venta
	StockBefore   int
	StockAfter    int
	ReferenceType string
	ReferenceID   *int64
	Note          string
	CreatedBy     string
	CreatedAt     time.Time
}
