package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tallerpro/taller-api/internal/application/usecase"
)

// La búsqueda debe ignorar mayúsculas, tildes y espacios sobrantes para que
// "aceite" encuentre "Aceite Sintético" y viceversa.
func TestNormalizeQuery(t *testing.T) {
	casos := map[string]string{
		"  Aceite Sintético ": "aceite sintetico",
		"FILTRO":              "filtro",
		"bujía":               "bujia",
		"Óleo Motör":          "oleo motor",
		"ñandú":               "nandu",
		"":                    "",
	}
	for in, want := range casos {
		assert.Equal(t, want, usecase.NormalizeQuery(in), "entrada: %q", in)
	}
}
