package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/inventory"
)

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name    string
		before  int
		delta   int
		want    int
		wantErr bool
	}{
		{"entrada", 10, 5, 15, false},
		{"salida parcial", 10, -4, 6, false},
		{"salida exacta deja cero", 3, -3, 0, false},
		{"salida mayor al stock", 3, -4, 3, true},
		{"desde cero", 0, -1, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.ApplyDelta(tc.before, tc.delta)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyDelta_EntradaFueraDeRango(t *testing.T) {
	cases := []struct {
		name   string
		before int
		delta  int
	}{
		{"desborde de int", 10, math.MaxInt},
		{"supera el tope", 10, inventory.MaxQuantity - 9},
		{"entrada enorme desde cero", 0, inventory.MaxQuantity + 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.ApplyDelta(tc.before, tc.delta)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
			assert.Equal(t, tc.before, got)
		})
	}

	got, err := inventory.ApplyDelta(10, inventory.MaxQuantity-10)
	require.NoError(t, err)
	assert.Equal(t, inventory.MaxQuantity, got)
}

func TestConsolidate_SumaYConservaOrden(t *testing.T) {
	order, sums := inventory.Consolidate([]int64{7, 3, 7, 9, 3}, []int{4, 1, 3, 2, 2})

	assert.Equal(t, []int64{7, 3, 9}, order)
	assert.Equal(t, map[int64]int{7: 7, 3: 3, 9: 2}, sums)
}
