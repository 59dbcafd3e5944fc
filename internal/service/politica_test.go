package service

import (
	"testing"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMinimoRequerido(t *testing.T) {
	total := d("1000.00")

	casos := []struct {
		politica string
		esperado string
	}{
		{model.PoliticaContraEntrega, "0"},
		{model.PoliticaAnticipado100, "1000.00"},
		{model.PoliticaMedioMedio, "500.00"},
		{model.PoliticaCredito, "0"},
	}
	for _, c := range casos {
		t.Run(c.politica, func(t *testing.T) {
			assert.True(t, MinimoRequerido(c.politica, total).Equal(d(c.esperado)))
		})
	}

	// Half of an odd total rounds to 2 decimals.
	assert.True(t, MinimoRequerido(model.PoliticaMedioMedio, d("333.33")).Equal(d("166.67")))
}

func TestValidarPago(t *testing.T) {
	total := d("1000.00")

	t.Run("contra entrega acepta cero", func(t *testing.T) {
		assert.NoError(t, ValidarPago(model.PoliticaContraEntrega, decimal.Zero, total, false))
	})

	t.Run("anticipado exige el total", func(t *testing.T) {
		err := ValidarPago(model.PoliticaAnticipado100, d("999.99"), total, false)
		assert.Equal(t, KindMontoInsuficiente, KindOf(err))
		assert.NoError(t, ValidarPago(model.PoliticaAnticipado100, total, total, false))
	})

	t.Run("medio medio exige la mitad", func(t *testing.T) {
		err := ValidarPago(model.PoliticaMedioMedio, d("499.99"), total, false)
		assert.Equal(t, KindMontoInsuficiente, KindOf(err))
		assert.NoError(t, ValidarPago(model.PoliticaMedioMedio, d("500.00"), total, false))
		assert.NoError(t, ValidarPago(model.PoliticaMedioMedio, d("700.00"), total, false))
	})

	t.Run("credito requiere habilitacion", func(t *testing.T) {
		err := ValidarPago(model.PoliticaCredito, decimal.Zero, total, false)
		assert.Equal(t, KindPoliticaNoPermitida, KindOf(err))
		assert.NoError(t, ValidarPago(model.PoliticaCredito, decimal.Zero, total, true))
	})

	t.Run("monto nunca excede el total", func(t *testing.T) {
		err := ValidarPago(model.PoliticaContraEntrega, d("1000.01"), total, false)
		assert.Equal(t, KindMontoExcedeTotal, KindOf(err))
	})
}

func TestPlazoVencimientoDias(t *testing.T) {
	assert.Equal(t, 30, PlazoVencimientoDias(model.PoliticaCredito))
	assert.Equal(t, 7, PlazoVencimientoDias(model.PoliticaMedioMedio))
	assert.Equal(t, 7, PlazoVencimientoDias(model.PoliticaContraEntrega))
}
