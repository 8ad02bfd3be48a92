package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/application/sales"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// Base compartida por el paquete: TEST_DATABASE_URL (env o .env) o un contenedor efímero.
var (
	dbOnce    sync.Once
	dbDSN     string
	dbErr     error
	container testcontainers.Container
)

func TestMain(m *testing.M) {
	code := m.Run()
	if container != nil {
		_ = container.Terminate(context.Background())
	}
	os.Exit(code)
}

func startDatabase() (dsn string, err error) {
	_ = godotenv.Load("../../../.env")
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn, nil
	}

	// Sin Docker el proveedor puede entrar en pánico en lugar de devolver error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("testcontainers: %v", r)
		}
	}()
	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("taller_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return "", err
	}
	container = ctr
	return ctr.ConnectionString(ctx, "sslmode=disable")
}

// testPool devuelve un pool sobre una base migrada y vacía.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	dbOnce.Do(func() {
		dbDSN, dbErr = startDatabase()
		if dbErr != nil {
			return
		}
		var m *postgres.Migrator
		if m, dbErr = postgres.NewMigrator(dbDSN, logger.Nop()); dbErr != nil {
			return
		}
		defer m.Close()
		dbErr = m.Up()
	})
	if dbErr != nil {
		t.Skipf("PostgreSQL no disponible: %v", dbErr)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dbDSN})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE inventory_movements, order_lines, orders, products RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func insertProduct(t *testing.T, pool *pgxpool.Pool, code string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Code:         code,
		Name:         "Producto " + code,
		Category:     "repuestos",
		CostPrice:    decimal.RequireFromString("5"),
		SalePrice:    decimal.RequireFromString("12.50"),
		StockInitial: stock,
		StockCurrent: stock,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, postgres.NewProductRepository(pool).Create(context.Background(), p))
	return p
}

func TestIntegration_ProductRepository(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	p := insertProduct(t, pool, "FIL-100%", 3)
	insertProduct(t, pool, "FIL-200", 3)
	insertProduct(t, pool, "BUJ-1", 3)

	err := repo.Create(ctx, &entity.Product{Code: "BUJ-1", Name: "x", Category: "x", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	got, err := repo.GetByCode(ctx, "FIL-100%")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "12.50", got.SalePrice.StringFixed(2))

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := repo.List(ctx, repository.ProductFilter{CodePrefix: "fil-"}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.List(ctx, repository.ProductFilter{Query: "FIL-100%"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1, "el comodín se busca literal")

	err = repo.UpdateStock(ctx, p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestIntegration_VentaAnulacionYConciliacion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	p := insertProduct(t, pool, "P", 10)

	runner := postgres.NewTxRunner(pool, 2000)
	orders := postgres.NewOrderRepository(pool)
	adjuster := inventory.NewStockAdjuster()
	create := sales.NewCreateOrderUseCase(runner, sales.NewLineProcessor(adjuster), orders, nil)
	void := sales.NewVoidOrderUseCase(runner, adjuster, nil)
	kardex := inventory.NewKardexUseCase(postgres.NewProductRepository(pool), postgres.NewInventoryMovementRepository(pool))

	res, err := create.CreateOrder(ctx, "ana", "clave-1", dto.CreateOrderRequest{
		CustomerName:     "Juan",
		CustomerDocument: "1020",
		CustomerPhone:    "3001234567",
		Lines: []dto.OrderLineRequest{
			{ProductID: p.ID, Quantity: 4},
			{ProductID: p.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Order.Lines, 1)
	assert.Equal(t, "87.50", res.Order.Total.StringFixed(2))

	again, err := create.CreateOrder(ctx, "ana", "clave-1", dto.CreateOrderRequest{
		CustomerName:     "Juan",
		CustomerDocument: "1020",
		CustomerPhone:    "3001234567",
		Lines:            []dto.OrderLineRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, res.Order.ID, again.Order.ID)

	_, err = create.CreateOrder(ctx, "ana", "", dto.CreateOrderRequest{
		CustomerName:     "Ana",
		CustomerDocument: "2030",
		CustomerPhone:    "3107654321",
		Lines:            []dto.OrderLineRequest{{ProductID: p.ID, Quantity: 5}},
	})
	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr), "%v", err)
	assert.Equal(t, 3, stockErr.Available)

	voided, err := void.VoidOrder(ctx, "jefe", res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusVoid, voided.Status)
	assert.Equal(t, "jefe", voided.VoidedBy)

	_, err = void.VoidOrder(ctx, "jefe", res.Order.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoid)

	hist, err := kardex.History(ctx, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, hist.Items, 2)
	assert.Equal(t, entity.MovementTypeVoid, hist.Items[0].Type)
	assert.Equal(t, 7, hist.Items[0].Quantity)

	rec, err := kardex.Reconcile(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.Equal(t, 10, rec.StockCurrent)

	list, err := orders.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].LineCount)

	recent, err := orders.ListRecentLines(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, res.Order.Code, recent[0].OrderCode)
	assert.Equal(t, entity.OrderStatusVoid, recent[0].OrderStatus)
	assert.Equal(t, 7, recent[0].Quantity)
	assert.Equal(t, "1020", recent[0].CustomerDocument)
}

func TestIntegration_SalidasConcurrentes(t *testing.T) {
	pool := testPool(t)
	p := insertProduct(t, pool, "P", 10)
	uc := inventory.NewAdjustmentUseCase(postgres.NewTxRunner(pool, 5000), inventory.NewStockAdjuster(), nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterAdjustment(context.Background(), "w", dto.AdjustmentRequest{
				ProductID: p.ID, Type: entity.MovementTypeExit, Quantity: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				fail++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, fail)
	got, err := postgres.NewProductRepository(pool).GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockCurrent)
}

func TestIntegration_LockTimeoutEsContencion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	p := insertProduct(t, pool, "P", 10)

	holder, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = holder.Exec(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, p.ID)
	require.NoError(t, err)

	uc := inventory.NewAdjustmentUseCase(postgres.NewTxRunner(pool, 100), inventory.NewStockAdjuster(), nil)
	_, err = uc.RegisterAdjustment(ctx, "ana", dto.AdjustmentRequest{ProductID: p.ID, Type: entity.MovementTypeEntry, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrContention)
}

func TestIntegration_KardexSoloInsercion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	p := insertProduct(t, pool, "P", 1)
	uc := inventory.NewAdjustmentUseCase(postgres.NewTxRunner(pool, 1000), inventory.NewStockAdjuster(), nil)
	_, err := uc.RegisterAdjustment(ctx, "ana", dto.AdjustmentRequest{ProductID: p.ID, Type: entity.MovementTypeEntry, Quantity: 2})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `UPDATE inventory_movements SET note = 'x'`)
	assert.Error(t, err)
	_, err = pool.Exec(ctx, `DELETE FROM inventory_movements`)
	assert.Error(t, err)
}

func TestIntegration_ClaveDeIdempotenciaRepetida(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewOrderRepository(pool)
	now := time.Now()
	newOrder := func(code string) *entity.Order {
		return &entity.Order{
			Code: code, CustomerName: "x", Status: entity.OrderStatusIssued, CreatedBy: "ana",
			IdempotencyKey: "k", Total: decimal.Zero, CreatedAt: now, UpdatedAt: now,
		}
	}
	require.NoError(t, repo.Create(ctx, newOrder("OV-1")))
	assert.ErrorIs(t, repo.Create(ctx, newOrder("OV-2")), domain.ErrDuplicateRequest)

	got, err := repo.GetByIdempotencyKey(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "OV-1", got.Code)
}
