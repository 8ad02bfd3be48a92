package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/sales"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/infrastructure/notify"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	KardexUC     *inventory.KardexUseCase
	CreateOrder  *sales.CreateOrderUseCase
	VoidOrder    *sales.VoidOrderUseCase
	OrderQuery   *sales.OrderQueryUseCase
	Receipt      *sales.ReceiptUseCase
	Broker       *notify.Broker
	SSEHeartbeat time.Duration
	// Done se cancela al apagar el servidor para cerrar los streams SSE abiertos.
	Done      context.Context
	Logger    *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token con rol administrador o empleado.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	done := deps.Done
	if done == nil {
		done = context.Background()
	}
	api := app.Group("/api")
	staff := RequireRole(RoleAdmin, RoleEmployee)

	// Events (SSE): el token puede venir en ?token= para EventSource
	if deps.Broker != nil {
		eventsHandler := NewEventsHandler(done, deps.Broker, deps.SSEHeartbeat, log)
		api.Get("/events/stream", QueryTokenAuthMiddleware(deps.JWTSecret), staff, eventsHandler.Stream)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), staff)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)

	// Inventory: ajustes manuales y kardex
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustmentUC, deps.KardexUC, log)
	invGroup.Post("/adjustments", inventoryHandler.RegisterAdjustment)
	invGroup.Get("/kardex/:id", inventoryHandler.Kardex)
	invGroup.Get("/reconcile/:id", inventoryHandler.Reconcile)

	// Orders
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.VoidOrder, deps.OrderQuery, deps.Receipt, log)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/void", orderHandler.Void)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	// Sales: venta directa de una línea y ventas recientes
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", orderHandler.CreateSale)
	salesGroup.Get("/", orderHandler.RecentSales)
}
