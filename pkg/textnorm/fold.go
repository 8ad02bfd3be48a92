// Package textnorm normaliza texto para comparaciones de búsqueda.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold quita tildes y pasa a minúsculas: "Pantalla Táctil" -> "pantalla tactil".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Contains indica si s contiene sub sin distinguir mayúsculas ni tildes.
func Contains(s, sub string) bool {
	return strings.Contains(Fold(s), Fold(sub))
}

// HasPrefix indica si s empieza por prefix sin distinguir mayúsculas ni tildes.
func HasPrefix(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}
