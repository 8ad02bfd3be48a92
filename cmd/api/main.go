package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/application/sales"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/taller-api/internal/interfaces/http"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage agrupa los adaptadores de persistencia elegidos por STORAGE_DRIVER.
type storage struct {
	invTx       inventory.TxRunner
	salesTx     sales.SalesTxRunner
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
	orderRepo   repository.OrderRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Notifier: broker en proceso (SSE) y, si está configurado, Redis Pub/Sub
	broker := notify.NewBroker(64, log)
	notifiers := notify.Fanout{broker}
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se seguirá intentando publicar")
		}
		cancel()
		notifiers = append(notifiers, notify.NewRedisPublisher(rdb, cfg.Redis.ChannelPrefix, log))
	}
	var notifier ports.Notifier = notifiers

	adjuster := inventory.NewStockAdjuster()
	lineProcessor := sales.NewLineProcessor(adjuster)

	productUC := usecase.NewProductUseCase(store.productRepo)
	adjustmentUC := inventory.NewAdjustmentUseCase(store.invTx, adjuster, notifier)
	kardexUC := inventory.NewKardexUseCase(store.productRepo, store.movRepo)
	createOrderUC := sales.NewCreateOrderUseCase(store.salesTx, lineProcessor, store.orderRepo, notifier)
	voidOrderUC := sales.NewVoidOrderUseCase(store.salesTx, adjuster, notifier)
	orderQueryUC := sales.NewOrderQueryUseCase(store.orderRepo)
	receiptUC := sales.NewReceiptUseCase(store.orderRepo, infrapdf.NewReceiptGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Taller API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	streamsCtx, closeStreams := context.WithCancel(ctx)
	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		AdjustmentUC: adjustmentUC,
		KardexUC:     kardexUC,
		CreateOrder:  createOrderUC,
		VoidOrder:    voidOrderUC,
		OrderQuery:   orderQueryUC,
		Receipt:      receiptUC,
		Broker:       broker,
		SSEHeartbeat: cfg.SSE.Heartbeat,
		Done:         streamsCtx,
		Logger:       log,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	closeStreams()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &storage{
			invTx:       mem,
			salesTx:     mem,
			productRepo: mem.Products(),
			movRepo:     mem.Movements(),
			orderRepo:   mem.Orders(),
			close:       func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			return nil, err
		}
		err = m.Up()
		_ = m.Close()
		if err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout.Milliseconds())
	return &storage{
		invTx:       txRunner,
		salesTx:     txRunner,
		productRepo: postgres.NewProductRepository(pool),
		movRepo:     postgres.NewInventoryMovementRepository(pool),
		orderRepo:   postgres.NewOrderRepository(pool),
		close:       pool.Close,
	}, nil
}
