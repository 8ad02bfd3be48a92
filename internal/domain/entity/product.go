package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// StockCurrent solo cambia a través del ajustador de stock; StockInitial se fija al crear.
type Product struct {
	ID           int64
	Code         string // código único, inmutable
	Name         string
	Category     string
	Brand        string
	Description  string
	CostPrice    decimal.Decimal // precio de compra
	SalePrice    decimal.Decimal // precio de venta
	StockInitial int
	StockCurrent int
	CreatedAt    time.Time
}
