package clp_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/aguasaustral/facturacion-api/pkg/clp"
)

// El separador de miles chileno es el punto.
func TestFormat(t *testing.T) {
	assert.Equal(t, "$0", clp.Format(decimal.Zero))
	assert.Equal(t, "$950", clp.Format(decimal.NewFromInt(950)))
	assert.Equal(t, "$12.345", clp.Format(decimal.NewFromInt(12345)))
	assert.Equal(t, "$1.234.567", clp.Format(decimal.NewFromInt(1234567)))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "$5.500", clp.FormatInt(5500))
}
