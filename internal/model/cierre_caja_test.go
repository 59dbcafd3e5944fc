package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransicionCierre(t *testing.T) {
	cases := []struct {
		desde  string
		accion AccionCierre
		hacia  string
		ok     bool
	}{
		{CierrePendiente, AccionConsolidar, CierreConsolidado, true},
		{CierrePendiente, AccionRechazarC, CierreRechazado, true},

		// terminal states never transition again
		{CierreConsolidado, AccionConsolidar, "", false},
		{CierreConsolidado, AccionRechazarC, "", false},
		{CierreRechazado, AccionConsolidar, "", false},
		{CierreRechazado, AccionRechazarC, "", false},
	}
	for _, c := range cases {
		hacia, ok := TransicionCierre(c.desde, c.accion)
		assert.Equal(t, c.ok, ok, "%s + %s", c.desde, c.accion)
		assert.Equal(t, c.hacia, hacia, "%s + %s", c.desde, c.accion)
	}
}

func TestConDiferencia(t *testing.T) {
	sin := &CierreCaja{Diferencia: decimal.Zero}
	sobrante := &CierreCaja{Diferencia: decimal.NewFromFloat(0.50)}
	faltante := &CierreCaja{Diferencia: decimal.NewFromFloat(-12.25)}

	assert.False(t, sin.ConDiferencia())
	assert.True(t, sobrante.ConDiferencia())
	assert.True(t, faltante.ConDiferencia())
}
