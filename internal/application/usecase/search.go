package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// searchNormalizer quita diacríticos: "Óleo Motör" -> "oleo motor".
// Los repos comparan contra columnas pasadas por unaccent(lower(...)), así la
// búsqueda es insensible a mayúsculas y tildes en ambos lados.
var searchNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeQuery normaliza un término de búsqueda de la UI.
func NormalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	out, _, err := transform.String(searchNormalizer, q)
	if err != nil {
		return q
	}
	return out
}
