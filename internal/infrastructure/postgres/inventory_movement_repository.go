package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla es de solo inserción; un trigger rechaza UPDATE y DELETE.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario y asigna su ID.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (product_id, type, quantity, stock_before, stock_after, reference_type, reference_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.Type, m.Quantity, m.StockBefore, m.StockAfter,
		m.ReferenceType, m.ReferenceID, m.Note, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	return mapError("create inventory movement", err)
}

// ListByProduct lista movimientos del producto, más reciente primero (id descendente).
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID, beforeID int64, limit int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, stock_before, stock_after, reference_type, reference_id, note, created_by, created_at
		FROM inventory_movements
		WHERE product_id = $1 AND ($2::bigint = 0 OR id < $2)
		ORDER BY id DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, productID, beforeID, limit)
	if err != nil {
		return nil, mapError("list inventory movements", err)
	}
	defer rows.Close()

	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError("scan inventory movement", err)
		}
		list = append(list, m)
	}
	return list, mapError("list inventory movements", rows.Err())
}

// SumQuantityByProduct suma las cantidades con signo del kardex del producto.
func (r *InventoryMovementRepo) SumQuantityByProduct(ctx context.Context, productID int64) (int, int, error) {
	var sum, count int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0), COUNT(*) FROM inventory_movements WHERE product_id = $1`,
		productID,
	).Scan(&sum, &count)
	if err != nil {
		return 0, 0, mapError("sum inventory movements", err)
	}
	return sum, count, nil
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.StockBefore, &m.StockAfter,
		&m.ReferenceType, &m.ReferenceID, &m.Note, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
