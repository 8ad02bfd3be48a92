package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/taller-api/pkg/textnorm"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "pantalla tactil", textnorm.Fold("Pantalla Táctil"))
	assert.Equal(t, "bateria", textnorm.Fold("BATERÍA"))
	assert.Equal(t, "", textnorm.Fold(""))
}

func TestContainsYHasPrefix(t *testing.T) {
	assert.True(t, textnorm.Contains("Batería iPhone 12", "bateria"))
	assert.False(t, textnorm.Contains("Pantalla", "bateria"))
	assert.True(t, textnorm.HasPrefix("SCR-001", "scr"))
	assert.False(t, textnorm.HasPrefix("SCR-001", "001"))
}
