package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
}

func TestGenerateOrderReceipt(t *testing.T) {
	order := &entity.Order{
		ID:           1,
		Code:         "OV-1A2B3C4D",
		CustomerName: "Ana Pérez",
		Total:        decimal.RequireFromString("70.00"),
		Status:       entity.OrderStatusIssued,
		CreatedBy:    "admin",
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	lines := []*entity.OrderLine{{
		ID: 1, OrderID: 1, ProductID: 7, ProductName: "Pantalla",
		UnitPrice: decimal.NewFromInt(10), Quantity: 7, Total: decimal.NewFromInt(70),
	}}

	out, err := NewReceiptGenerator("Taller").GenerateOrderReceipt(order, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
