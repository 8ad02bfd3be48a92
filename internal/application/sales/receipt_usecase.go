package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una orden.
type ReceiptUseCase struct {
	orderRepo repository.OrderRepository
	generator ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(orderRepo repository.OrderRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{orderRepo: orderRepo, generator: generator}
}

// Receipt devuelve el PDF y un nombre de archivo sugerido.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, orderID int64) ([]byte, string, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	lines, err := uc.orderRepo.GetLines(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateOrderReceipt(order, lines)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("comprobante-%s.pdf", order.Code), nil
}
