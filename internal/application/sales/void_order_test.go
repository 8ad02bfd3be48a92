package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

func TestVoidOrder_DevuelveCadaLinea(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.product(t, "A", 10, "4")
	b := f.product(t, "B", 6, "4")

	res, err := f.create.CreateOrder(ctx, "ana", "", orderReq(line(b.ID, 6), line(a.ID, 1)))
	require.NoError(t, err)
	assert.Equal(t, 9, f.stock(t, a.ID))
	assert.Equal(t, 0, f.stock(t, b.ID))

	out, err := f.void.VoidOrder(ctx, "jefe", res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusVoid, out.Status)
	assert.Len(t, out.Lines, 2)
	assert.Equal(t, 10, f.stock(t, a.ID))
	assert.Equal(t, 6, f.stock(t, b.ID))
	assert.Equal(t, 1, f.notifier.count(ports.TopicOrderVoided))
	assert.Zero(t, f.notifier.notCommitted)

	stored, err := f.store.Orders().GetByID(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVoid())
	lines, err := f.store.Orders().GetLines(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2, "las líneas no se borran")
}

func TestVoidOrder_DobleAnulacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.product(t, "A", 10, "4")
	res, err := f.create.CreateOrder(ctx, "ana", "", orderReq(line(p.ID, 4)))
	require.NoError(t, err)

	_, err = f.void.VoidOrder(ctx, "jefe", res.Order.ID)
	require.NoError(t, err)
	_, err = f.void.VoidOrder(ctx, "jefe", res.Order.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoid)

	assert.Equal(t, 10, f.stock(t, p.ID))
	_, count, err := f.store.Movements().SumQuantityByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestVoidOrder_Inexistente(t *testing.T) {
	f := newFixture()
	_, err := f.void.VoidOrder(context.Background(), "jefe", 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.void.VoidOrder(context.Background(), "jefe", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
