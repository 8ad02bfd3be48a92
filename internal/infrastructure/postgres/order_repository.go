package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `o.id, o.code, o.customer_name, o.customer_document, o.customer_phone, o.description,
	o.total, o.status, o.created_by, COALESCE(o.idempotency_key, ''), COALESCE(o.voided_by, ''), o.voided_at,
	o.created_at, o.updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera y asigna su ID. Una clave de idempotencia repetida devuelve ErrDuplicateRequest.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	var key *string
	if o.IdempotencyKey != "" {
		key = &o.IdempotencyKey
	}
	query := `
		INSERT INTO orders (code, customer_name, customer_document, customer_phone, description, total, status, created_by, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		o.Code, o.CustomerName, o.CustomerDocument, o.CustomerPhone, o.Description,
		o.Total, o.Status, o.CreatedBy, key, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == "orders_idempotency_key_key" {
			return domain.ErrDuplicateRequest
		}
		return mapError("insert order", err)
	}
	return nil
}

// CreateLine persiste una línea de la orden.
func (r *OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, product_id, product_name, unit_price, quantity, total, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		l.OrderID, l.ProductID, l.ProductName, l.UnitPrice, l.Quantity, l.Total, l.Note, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Invalid("producto %d repetido en la orden %d", l.ProductID, l.OrderID)
		}
		return mapError("insert order line", err)
	}
	return nil
}

// UpdateTotal fija el total de la cabecera.
func (r *OrderRepo) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET total = $2, updated_at = now() WHERE id = $1`, orderID, total)
	if err != nil {
		return mapError("update order total", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update order total %d: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

// GetByID obtiene la cabecera con su conteo de líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + `,
		(SELECT COUNT(*) FROM order_lines l WHERE l.order_id = o.id)
		FROM orders o WHERE o.id = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id), true)
	if err != nil {
		return nil, mapError(fmt.Sprintf("get order %d", id), err)
	}
	return o, nil
}

// GetByIDForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 FOR UPDATE`, id), false)
	if err != nil {
		return nil, mapError(fmt.Sprintf("get order %d for update", id), err)
	}
	return o, nil
}

// GetByIdempotencyKey obtiene la orden creada con la clave dada.
func (r *OrderRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + `,
		(SELECT COUNT(*) FROM order_lines l WHERE l.order_id = o.id)
		FROM orders o WHERE o.idempotency_key = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, key), true)
	if err != nil {
		return nil, mapError("get order by idempotency key", err)
	}
	return o, nil
}

// GetLines lista las líneas de la orden en orden de creación.
func (r *OrderRepo) GetLines(ctx context.Context, orderID int64) ([]*entity.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, total, note, created_at
		FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, mapError("list order lines", err)
	}
	defer rows.Close()

	var lines []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity, &l.Total, &l.Note, &l.CreatedAt); err != nil {
			return nil, mapError("scan order line", err)
		}
		lines = append(lines, &l)
	}
	return lines, mapError("list order lines", rows.Err())
}

// MarkVoid pasa la orden de issued a void. Solo afecta órdenes emitidas.
func (r *OrderRepo) MarkVoid(ctx context.Context, orderID int64, voidedBy string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET status = 'void', voided_by = $2, voided_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'issued'`, orderID, voidedBy)
	if err != nil {
		return mapError("void order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyVoid
	}
	return nil
}

// List lista las órdenes más recientes con su conteo de líneas.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + `, COUNT(l.id)
		FROM orders o LEFT JOIN order_lines l ON l.order_id = o.id
		GROUP BY o.id
		ORDER BY o.id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapError("list orders", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows, true)
		if err != nil {
			return nil, mapError("scan order", err)
		}
		list = append(list, o)
	}
	return list, mapError("list orders", rows.Err())
}

// ListRecentLines lista las líneas vendidas más recientes con los datos de su orden.
func (r *OrderRepo) ListRecentLines(ctx context.Context, limit int) ([]*entity.SaleRecord, error) {
	query := `
		SELECT l.id, l.order_id, l.product_id, l.product_name, l.unit_price, l.quantity, l.total, l.note, l.created_at,
		       o.code, o.status, o.customer_name, o.customer_document, o.customer_phone
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		ORDER BY l.id DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, mapError("list recent sales", err)
	}
	defer rows.Close()

	var list []*entity.SaleRecord
	for rows.Next() {
		var s entity.SaleRecord
		if err := rows.Scan(
			&s.ID, &s.OrderID, &s.ProductID, &s.ProductName, &s.UnitPrice, &s.Quantity, &s.Total, &s.Note, &s.CreatedAt,
			&s.OrderCode, &s.OrderStatus, &s.CustomerName, &s.CustomerDocument, &s.CustomerPhone,
		); err != nil {
			return nil, mapError("scan sale line", err)
		}
		list = append(list, &s)
	}
	return list, mapError("list recent sales", rows.Err())
}

func scanOrder(row pgx.Row, withCount bool) (*entity.Order, error) {
	var o entity.Order
	dest := []any{
		&o.ID, &o.Code, &o.CustomerName, &o.CustomerDocument, &o.CustomerPhone, &o.Description,
		&o.Total, &o.Status, &o.CreatedBy, &o.IdempotencyKey, &o.VoidedBy, &o.VoidedAt,
		&o.CreatedAt, &o.UpdatedAt,
	}
	if withCount {
		dest = append(dest, &o.LineCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &o, nil
}
