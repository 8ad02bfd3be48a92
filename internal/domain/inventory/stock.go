package inventory

import (
	"math"

	"github.com/jhoicas/taller-api/internal/domain"
)

// MaxQuantity tope de cualquier cantidad o stock (columnas INTEGER).
const MaxQuantity = math.MaxInt32

// ApplyDelta calcula el stock resultante de aplicar un delta con signo.
// Nunca permite stock negativo: devuelve domain.ErrInsufficientStock y el stock original.
// Una entrada que supere MaxQuantity es un error de entrada, no de stock.
func ApplyDelta(before, delta int) (int, error) {
	after := before + delta
	if delta > 0 && (after < before || after > MaxQuantity) {
		return before, domain.Invalid("el stock resultante supera el máximo de %d", MaxQuantity)
	}
	if after < 0 {
		return before, domain.ErrInsufficientStock
	}
	return after, nil
}

// Consolidate agrupa cantidades por producto conservando el orden de primera aparición.
// keys y quantities tienen la misma longitud.
func Consolidate(keys []int64, quantities []int) ([]int64, map[int64]int) {
	order := make([]int64, 0, len(keys))
	sums := make(map[int64]int, len(keys))
	for i, k := range keys {
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += quantities[i]
	}
	return order, sums
}
