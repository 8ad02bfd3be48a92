package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

type orderRepo struct {
	store *Store
	tx    *state
}

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.store.view(r.tx, func(st *state) error {
		if o.IdempotencyKey != "" {
			if _, ok := st.orderKeys[o.IdempotencyKey]; ok {
				return domain.ErrDuplicateRequest
			}
		}
		st.nextOrder++
		o.ID = st.nextOrder
		put(st, st.orders, o.ID, *o)
		if o.IdempotencyKey != "" {
			put(st, st.orderKeys, o.IdempotencyKey, o.ID)
		}
		return nil
	})
}

func (r *orderRepo) CreateLine(_ context.Context, l *entity.OrderLine) error {
	return r.store.view(r.tx, func(st *state) error {
		if _, ok := st.orders[l.OrderID]; !ok {
			return fmt.Errorf("orden %d: %w", l.OrderID, domain.ErrNotFound)
		}
		for _, existing := range st.lines[l.OrderID] {
			if existing.ProductID == l.ProductID {
				return domain.Invalid("producto %d repetido en la orden %d", l.ProductID, l.OrderID)
			}
		}
		st.nextOrderLine++
		l.ID = st.nextOrderLine
		put(st, st.lines, l.OrderID, append(st.lines[l.OrderID], *l))
		return nil
	})
}

func (r *orderRepo) UpdateTotal(_ context.Context, orderID int64, total decimal.Decimal) error {
	return r.store.view(r.tx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return fmt.Errorf("orden %d: %w", orderID, domain.ErrNotFound)
		}
		o.Total = total
		o.UpdatedAt = time.Now()
		put(st, st.orders, orderID, o)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	var out *entity.Order
	err := r.store.view(r.tx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return fmt.Errorf("orden %d: %w", id, domain.ErrNotFound)
		}
		o.LineCount = len(st.lines[id])
		out = &o
		return nil
	})
	return out, err
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Order, error) {
	var id int64
	err := r.store.view(r.tx, func(st *state) error {
		var ok bool
		if id, ok = st.orderKeys[key]; !ok {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepo) GetLines(_ context.Context, orderID int64) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	err := r.store.view(r.tx, func(st *state) error {
		for _, l := range st.lines[orderID] {
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) MarkVoid(_ context.Context, orderID int64, voidedBy string) error {
	return r.store.view(r.tx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return fmt.Errorf("orden %d: %w", orderID, domain.ErrNotFound)
		}
		if o.IsVoid() {
			return domain.ErrAlreadyVoid
		}
		now := time.Now()
		o.Status = entity.OrderStatusVoid
		o.VoidedBy = voidedBy
		o.VoidedAt = &now
		o.UpdatedAt = now
		put(st, st.orders, orderID, o)
		return nil
	})
}

func (r *orderRepo) List(_ context.Context, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.store.view(r.tx, func(st *state) error {
		ids := make([]int64, 0, len(st.orders))
		for id := range st.orders {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
		for i := offset; i < len(ids) && len(out) < limit; i++ {
			o := st.orders[ids[i]]
			o.LineCount = len(st.lines[o.ID])
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) ListRecentLines(_ context.Context, limit int) ([]*entity.SaleRecord, error) {
	var out []*entity.SaleRecord
	err := r.store.view(r.tx, func(st *state) error {
		all := make([]entity.OrderLine, 0)
		for _, lines := range st.lines {
			all = append(all, lines...)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
		for i := 0; i < len(all) && len(out) < limit; i++ {
			o := st.orders[all[i].OrderID]
			out = append(out, &entity.SaleRecord{
				OrderLine:        all[i],
				OrderCode:        o.Code,
				OrderStatus:      o.Status,
				CustomerName:     o.CustomerName,
				CustomerDocument: o.CustomerDocument,
				CustomerPhone:    o.CustomerPhone,
			})
		}
		return nil
	})
	return out, err
}
