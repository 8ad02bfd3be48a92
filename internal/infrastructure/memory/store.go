// Package memory implementa los repositorios en memoria (tests y STORAGE_DRIVER=memory).
// Las transacciones se serializan con un mutex global y escriben directo sobre el estado.
// Cada escritura de mapa deja un registro de deshacer; si la función falla (o entra en pánico)
// se aplican en orden inverso y se restauran los contadores y el largo del kardex.
// El costo de una transacción es proporcional a lo que toca, no al historial acumulado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

type state struct {
	products      map[int64]entity.Product
	productCodes  map[string]int64
	movements     []entity.InventoryMovement // solo se agrega al final
	orders        map[int64]entity.Order
	orderKeys     map[string]int64
	lines         map[int64][]entity.OrderLine
	nextProduct   int64
	nextMovement  int64
	nextOrder     int64
	nextOrderLine int64

	inTx bool
	undo []func()
}

func newState() *state {
	return &state{
		products:     make(map[int64]entity.Product),
		productCodes: make(map[string]int64),
		orders:       make(map[int64]entity.Order),
		orderKeys:    make(map[string]int64),
		lines:        make(map[int64][]entity.OrderLine),
	}
}

// put asigna m[k] = v y, dentro de una transacción, registra cómo volver al valor anterior.
func put[K comparable, V any](st *state, m map[K]V, k K, v V) {
	if st.inTx {
		prev, had := m[k]
		st.undo = append(st.undo, func() {
			if had {
				m[k] = prev
			} else {
				delete(m, k)
			}
		})
	}
	m[k] = v
}

// Store almacenamiento en memoria. Implementa inventory.TxRunner y sales.SalesTxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view ejecuta fn sobre el estado de la tx, o sobre el estado global con el mutex tomado.
func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) runTx(ctx context.Context, fn func(tx *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.st
	// Copia superficial: contadores y largo del kardex al inicio de la tx.
	saved := *st
	st.inTx, st.undo = true, nil
	committed := false
	defer func() {
		if !committed {
			for i := len(st.undo) - 1; i >= 0; i-- {
				st.undo[i]()
			}
			*st = saved
		}
		st.inTx, st.undo = false, nil
	}()

	if err := fn(st); err != nil {
		return err
	}
	committed = true
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{store: s} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() repository.InventoryMovementRepository { return &movementRepo{store: s} }

// Orders repositorio de órdenes fuera de transacción.
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{store: s} }

// Run ejecuta fn con repositorios de inventario atados a una transacción.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.runTx(ctx, func(tx *state) error {
		return fn(&movementRepo{store: s, tx: tx}, &productRepo{store: s, tx: tx})
	})
}

// RunSales ejecuta fn con repositorios de inventario y órdenes atados a una transacción.
func (s *Store) RunSales(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return s.runTx(ctx, func(tx *state) error {
		return fn(&movementRepo{store: s, tx: tx}, &productRepo{store: s, tx: tx}, &orderRepo{store: s, tx: tx})
	})
}
