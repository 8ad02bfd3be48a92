package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
)

func TestKardex_HistoryMasRecientePrimeroConCursor(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "P1", 0)
	other := seedProduct(t, store, "P2", 0)
	for i := 1; i <= 5; i++ {
		_, _, err := adjust(store, inventory.AdjustInput{ProductID: p.ID, Delta: i, Type: entity.MovementTypeEntry, User: "ana"})
		require.NoError(t, err)
		_, _, err = adjust(store, inventory.AdjustInput{ProductID: other.ID, Delta: 1, Type: entity.MovementTypeEntry, User: "ana"})
		require.NoError(t, err)
	}
	uc := inventory.NewKardexUseCase(store.Products(), store.Movements())

	page1, err := uc.History(context.Background(), p.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	assert.Equal(t, 5, page1.Items[0].Quantity)
	assert.Equal(t, 4, page1.Items[1].Quantity)
	require.NotNil(t, page1.NextBefore)

	page2, err := uc.History(context.Background(), p.ID, 2, *page1.NextBefore)
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.Equal(t, 3, page2.Items[0].Quantity)
	assert.Equal(t, 2, page2.Items[1].Quantity)

	page3, err := uc.History(context.Background(), p.ID, 2, *page2.NextBefore)
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.Equal(t, 1, page3.Items[0].Quantity)
	assert.Nil(t, page3.NextBefore)

	for _, it := range append(append(page1.Items, page2.Items...), page3.Items...) {
		assert.Equal(t, p.ID, it.ProductID)
	}
}

func TestKardex_LimitePorDefectoYMaximo(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "P1", 0)
	for i := 0; i < 35; i++ {
		_, _, err := adjust(store, inventory.AdjustInput{ProductID: p.ID, Delta: 1, Type: entity.MovementTypeEntry, User: "ana"})
		require.NoError(t, err)
	}
	uc := inventory.NewKardexUseCase(store.Products(), store.Movements())

	def, err := uc.History(context.Background(), p.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, def.Items, inventory.DefaultKardexLimit)

	all, err := uc.History(context.Background(), p.ID, 10_000, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 35)
	assert.Nil(t, all.NextBefore)
}

func TestKardex_ProductoInexistente(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewKardexUseCase(store.Products(), store.Movements())

	_, err := uc.History(context.Background(), 42, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Reconcile(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKardex_Reconcile(t *testing.T) {
	store := memory.NewStore()
	p := seedProduct(t, store, "P1", 10)
	_, _, err := adjust(store, inventory.AdjustInput{ProductID: p.ID, Delta: -4, Type: entity.MovementTypeExit, User: "ana"})
	require.NoError(t, err)
	_, _, err = adjust(store, inventory.AdjustInput{ProductID: p.ID, Delta: 7, Type: entity.MovementTypeEntry, User: "ana"})
	require.NoError(t, err)

	rec, err := inventory.NewKardexUseCase(store.Products(), store.Movements()).Reconcile(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.StockInitial)
	assert.Equal(t, 3, rec.LedgerSum)
	assert.Equal(t, 2, rec.MovementCount)
	assert.Equal(t, 13, rec.Expected)
	assert.Equal(t, 13, rec.StockCurrent)
	assert.True(t, rec.Consistent)
}
