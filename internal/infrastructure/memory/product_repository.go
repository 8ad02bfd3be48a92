package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/textnorm"
)

type productRepo struct {
	store *Store
	tx    *state
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.store.view(r.tx, func(st *state) error {
		if _, ok := st.productCodes[p.Code]; ok {
			return domain.ErrDuplicateCode
		}
		st.nextProduct++
		p.ID = st.nextProduct
		put(st, st.products, p.ID, *p)
		put(st, st.productCodes, p.Code, p.ID)
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.view(r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
		}
		out = &p
		return nil
	})
	return out, err
}

// GetByIDForUpdate: la transacción ya tiene el estado en exclusiva.
func (r *productRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.view(r.tx, func(st *state) error {
		id, ok := st.productCodes[code]
		if !ok {
			return fmt.Errorf("producto %q: %w", code, domain.ErrNotFound)
		}
		p := st.products[id]
		out = &p
		return nil
	})
	return out, err
}

func (r *productRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	return r.store.view(r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
		}
		if stock < 0 {
			return fmt.Errorf("producto %d: %w", id, domain.ErrInsufficientStock)
		}
		p.StockCurrent = stock
		put(st, st.products, id, p)
		return nil
	})
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.store.view(r.tx, func(st *state) error {
		matches := make([]entity.Product, 0, len(st.products))
		for _, p := range st.products {
			if matchProduct(p, f) {
				matches = append(matches, p)
			}
		}
		sort.Slice(matches, func(i, j int) bool {
			if matches[i].Name != matches[j].Name {
				return matches[i].Name < matches[j].Name
			}
			return matches[i].ID < matches[j].ID
		})
		for i := offset; i < len(matches) && len(out) < limit; i++ {
			p := matches[i]
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func matchProduct(p entity.Product, f repository.ProductFilter) bool {
	if f.CodePrefix != "" && !textnorm.HasPrefix(p.Code, f.CodePrefix) {
		return false
	}
	if f.NameContains != "" && !textnorm.Contains(p.Name, f.NameContains) {
		return false
	}
	if f.Query != "" && !textnorm.HasPrefix(p.Code, f.Query) && !textnorm.Contains(p.Name, f.Query) {
		return false
	}
	return true
}
