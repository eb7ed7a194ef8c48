package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Clinica-api/pkg/normalize"
)

func TestFold_QuitaTildesYMayusculas(t *testing.T) {
	assert.Equal(t, "jose perez", normalize.Fold("José Pérez"))
	assert.Equal(t, "maria nunez", normalize.Fold("MARÍA NÚÑEZ"))
	assert.Equal(t, "limpieza dental", normalize.Fold("  Limpieza Dental "))
}

func TestFold_TextoSinAcentos_SoloMinusculas(t *testing.T) {
	assert.Equal(t, "control anual", normalize.Fold("Control Anual"))
}

func TestFold_VacioSigueVacio(t *testing.T) {
	assert.Equal(t, "", normalize.Fold(""))
}
