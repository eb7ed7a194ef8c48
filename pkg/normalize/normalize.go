// Package normalize pliega texto para búsqueda: minúsculas y sin marcas
// diacríticas, de modo que "jose" encuentre "José" y "PEREZ" a "Pérez".
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas y sin tildes/diéresis. Si la transformación
// falla (entrada no UTF-8 válida), cae a solo minúsculas.
func Fold(s string) string {
	// El transformer acumula estado interno; se construye por llamada para
	// poder usar Fold desde varias goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(strings.TrimSpace(out))
}
