package dto

import (
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Type      string `json:"type" validate:"required,oneof=entry exit"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,max=2147483647"`
	Note      string `json:"note" validate:"max=500"`
}

// MovementResponse fila del kardex.
type MovementResponse struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	StockBefore   int       `json:"stock_before"`
	StockAfter    int       `json:"stock_after"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   *int64    `json:"reference_id,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdjustmentResponse resultado de un ajuste manual: producto actualizado y movimiento registrado.
type AdjustmentResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
}

// KardexResponse página del kardex, más reciente primero. NextBefore es el cursor de la página siguiente.
type KardexResponse struct {
	ProductID  int64              `json:"product_id"`
	Items      []MovementResponse `json:"items"`
	NextBefore *int64             `json:"next_before,omitempty"`
}

// ReconcileResponse compara stock inicial + suma del kardex contra el stock actual.
type ReconcileResponse struct {
	ProductID     int64 `json:"product_id"`
	StockInitial  int   `json:"stock_initial"`
	LedgerSum     int   `json:"ledger_sum"`
	MovementCount int   `json:"movement_count"`
	Expected      int   `json:"expected"`
	StockCurrent  int   `json:"stock_current"`
	Consistent    bool  `json:"consistent"`
}

// ToMovementResponse convierte el movimiento a su representación de salida.
func ToMovementResponse(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Note:          m.Note,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
