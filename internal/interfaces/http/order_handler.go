package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/sales"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// HeaderIdempotencyKey cabecera opcional para reintentos seguros de POST /api/orders y /api/sales.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler maneja las órdenes de venta (protegido).
type OrderHandler struct {
	create  *sales.CreateOrderUseCase
	void    *sales.VoidOrderUseCase
	query   *sales.OrderQueryUseCase
	receipt *sales.ReceiptUseCase
	log     *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(
	create *sales.CreateOrderUseCase,
	void *sales.VoidOrderUseCase,
	query *sales.OrderQueryUseCase,
	receipt *sales.ReceiptUseCase,
	log *logger.Logger,
) *OrderHandler {
	return &OrderHandler{create: create, void: void, query: query, receipt: receipt, log: log}
}

// Create godoc
// @Summary      Crear orden de venta consolidada
// @Description  Productos repetidos se consolidan en una línea. Todo o nada.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Clave para reintentos seguros"
// @Param        body             body    dto.CreateOrderRequest  true   "Cliente y líneas"
// @Success      201  {object}  dto.OrderResponse
// @Success      200  {object}  dto.OrderResponse  "Orden ya creada con la misma clave"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return badRequest(c, err)
	}
	res, err := h.create.CreateOrder(c.UserContext(), actingUser(c), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	status := fiber.StatusCreated
	if res.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(res.Order)
}

// CreateSale godoc
// @Summary      Venta directa de un producto
// @Description  Crea una orden de una sola línea. Misma semántica de stock e idempotencia que /api/orders.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave para reintentos seguros"
// @Param        body             body    dto.CreateSaleRequest  true   "Cliente y producto"
// @Success      201  {object}  dto.OrderResponse
// @Success      200  {object}  dto.OrderResponse  "Venta ya creada con la misma clave"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *OrderHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return badRequest(c, err)
	}
	res, err := h.create.CreateSale(c.UserContext(), actingUser(c), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	status := fiber.StatusCreated
	if res.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(res.Order)
}

// RecentSales godoc
// @Summary      Últimas líneas vendidas con su orden
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite (por defecto 50, máximo 200)"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *OrderHandler) RecentSales(c *fiber.Ctx) error {
	var in dto.RecentSalesRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return badRequest(c, err)
	}
	out, err := h.query.RecentSales(c.UserContext(), in.Limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Órdenes recientes con conteo de líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(page); err != nil {
		return badRequest(c, err)
	}
	out, err := h.query.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.query.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular orden (devuelve el stock)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/void [post]
func (h *OrderHandler) Void(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.void.VoidOrder(c.UserContext(), actingUser(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la orden
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	pdf, filename, err := h.receipt.Receipt(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
