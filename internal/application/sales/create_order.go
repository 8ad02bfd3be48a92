package sales

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	domaininv "github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// CreateOrderResult orden creada. Replayed indica que la clave de idempotencia ya existía
// y se devolvió la orden original sin volver a descontar stock.
type CreateOrderResult struct {
	Order    dto.OrderResponse
	Replayed bool
}

// CreateOrderUseCase crea una orden consolidada y descuenta el inventario en una sola transacción.
type CreateOrderUseCase struct {
	txRunner  SalesTxRunner
	lines     *LineProcessor
	orderRepo repository.OrderRepository
	notifier  ports.Notifier
	now       func() time.Time
}

// NewCreateOrderUseCase construye el caso de uso. orderRepo se usa fuera de la tx (idempotencia).
func NewCreateOrderUseCase(
	txRunner SalesTxRunner,
	lines *LineProcessor,
	orderRepo repository.OrderRepository,
	notifier ports.Notifier,
) *CreateOrderUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &CreateOrderUseCase{
		txRunner:  txRunner,
		lines:     lines,
		orderRepo: orderRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// CreateOrder valida y consolida las líneas fuera de la tx; luego crea cabecera (total 0), una línea
// por producto y el total en la misma transacción. Cualquier falla (ej: sin stock en la línea k)
// revierte todo. Los eventos se publican solo después del commit.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, user, idempotencyKey string, in dto.CreateOrderRequest) (*CreateOrderResult, error) {
	customer := strings.TrimSpace(in.CustomerName)
	document := strings.TrimSpace(in.CustomerDocument)
	phone := strings.TrimSpace(in.CustomerPhone)
	if customer == "" || document == "" || phone == "" {
		return nil, domain.Invalid("customer_name, customer_document y customer_phone son obligatorios")
	}
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("la orden debe tener al menos una línea")
	}
	valid, err := validLines(in.Lines)
	if err != nil {
		return nil, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" {
		if res, err := uc.replay(ctx, idempotencyKey); res != nil || err != nil {
			return res, err
		}
	}

	items := consolidate(valid)
	now := uc.now()
	order := &entity.Order{
		Code:             newOrderCode(),
		CustomerName:     customer,
		CustomerDocument: document,
		CustomerPhone:    phone,
		Description:      strings.TrimSpace(in.Description),
		Total:            decimal.Zero,
		Status:           entity.OrderStatusIssued,
		CreatedBy:        user,
		IdempotencyKey:   idempotencyKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	var (
		lines []*entity.OrderLine
		movs  []*entity.InventoryMovement
	)

	err = uc.txRunner.RunSales(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error {
		lines, movs = nil, nil
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		total := decimal.Zero
		for _, item := range items {
			line, mov, err := uc.lines.CreateLineInTx(ctx, movRepo, productRepo, orderRepo, order, item, user)
			if err != nil {
				return err
			}
			total = total.Add(line.Total)
			lines = append(lines, line)
			movs = append(movs, mov)
		}
		if err := orderRepo.UpdateTotal(ctx, order.ID, total); err != nil {
			return err
		}
		order.Total = total
		return nil
	})
	if err != nil {
		if idempotencyKey != "" && errors.Is(err, domain.ErrDuplicateRequest) {
			// Otra solicitud con la misma clave ganó la carrera.
			if res, rerr := uc.replay(ctx, idempotencyKey); res != nil || rerr != nil {
				return res, rerr
			}
		}
		return nil, err
	}

	out := dto.ToOrderResponse(order, lines)
	for _, m := range movs {
		uc.notifier.Publish(ctx, ports.TopicInventoryMovement, dto.ToMovementResponse(m))
	}
	uc.notifier.Publish(ctx, ports.TopicOrderCreated, out)
	return &CreateOrderResult{Order: out}, nil
}

// replay devuelve la orden ya creada con la clave, o (nil, nil) si no existe.
func (uc *CreateOrderUseCase) replay(ctx context.Context, key string) (*CreateOrderResult, error) {
	existing, err := uc.orderRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	lines, err := uc.orderRepo.GetLines(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: dto.ToOrderResponse(existing, lines), Replayed: true}, nil
}

// validLines descarta las líneas sin producto o con cantidad menor a 1. Falla si no queda ninguna,
// si una cantidad supera el tope o si una línea conservada trae precio negativo.
func validLines(in []dto.OrderLineRequest) ([]dto.OrderLineRequest, error) {
	out := make([]dto.OrderLineRequest, 0, len(in))
	for i, l := range in {
		if l.Quantity > domaininv.MaxQuantity {
			return nil, domain.Invalid("lines[%d]: la cantidad no puede superar %d", i, domaininv.MaxQuantity)
		}
		if l.ProductID <= 0 || l.Quantity < 1 {
			continue
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			return nil, domain.Invalid("lines[%d]: precio unitario negativo", i)
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil, domain.Invalid("la orden no tiene líneas válidas")
	}
	return out, nil
}

// consolidate agrupa las líneas por producto sumando cantidades. Precio y nota de la primera
// aparición se conservan. El resultado va ordenado por product_id para que órdenes concurrentes
// tomen los bloqueos de fila siempre en el mismo orden.
func consolidate(in []dto.OrderLineRequest) []LineInput {
	keys := make([]int64, len(in))
	qtys := make([]int, len(in))
	first := make(map[int64]dto.OrderLineRequest, len(in))
	for i, l := range in {
		keys[i] = l.ProductID
		qtys[i] = l.Quantity
		if _, ok := first[l.ProductID]; !ok {
			first[l.ProductID] = l
		}
	}
	ids, sums := domaininv.Consolidate(keys, qtys)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]LineInput, 0, len(ids))
	for _, id := range ids {
		f := first[id]
		out = append(out, LineInput{
			ProductID: id,
			Quantity:  sums[id],
			UnitPrice: f.UnitPrice,
			Note:      f.Note,
		})
	}
	return out
}

func newOrderCode() string {
	return "OV-" + strings.ToUpper(uuid.New().String()[:8])
}
