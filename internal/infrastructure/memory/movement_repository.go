package memory

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

type movementRepo struct {
	store *Store
	tx    *state
}

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if m.Quantity == 0 || m.StockAfter != m.StockBefore+m.Quantity || m.StockAfter < 0 {
		return domain.Invalid("movimiento inconsistente para el producto %d", m.ProductID)
	}
	return r.store.view(r.tx, func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return domain.ErrNotFound
		}
		st.nextMovement++
		m.ID = st.nextMovement
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) ListByProduct(_ context.Context, productID, beforeID int64, limit int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.store.view(r.tx, func(st *state) error {
		// movements está en orden de inserción (id creciente).
		for i := len(st.movements) - 1; i >= 0 && len(out) < limit; i-- {
			m := st.movements[i]
			if m.ProductID != productID {
				continue
			}
			if beforeID > 0 && m.ID >= beforeID {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) SumQuantityByProduct(_ context.Context, productID int64) (int, int, error) {
	var sum, count int
	err := r.store.view(r.tx, func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				sum += m.Quantity
				count++
			}
		}
		return nil
	})
	return sum, count, err
}
