package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEstadoDerivadoCuentaPorCobrar(t *testing.T) {
	hoy := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	manana := hoy.AddDate(0, 0, 1)
	ayer := hoy.AddDate(0, 0, -1)

	cases := []struct {
		nombre      string
		original    int64
		saldo       int64
		vencimiento time.Time
		estado      string
	}{
		{"recien creada", 500, 500, manana, CuentaPendiente},
		{"pago parcial", 500, 200, manana, CuentaParcial},
		{"saldada", 500, 0, manana, CuentaPagada},
		{"vencida con saldo", 500, 500, ayer, CuentaVencida},
		{"vencida parcial sigue vencida", 500, 200, ayer, CuentaVencida},
		// settlement wins over the due date
		{"saldada despues de vencer", 500, 0, ayer, CuentaPagada},
	}
	for _, c := range cases {
		t.Run(c.nombre, func(t *testing.T) {
			cuenta := &CuentaPorCobrar{
				MontoOriginal:    decimal.NewFromInt(c.original),
				SaldoPendiente:   decimal.NewFromInt(c.saldo),
				FechaVencimiento: c.vencimiento,
			}
			assert.Equal(t, c.estado, cuenta.EstadoDerivado(hoy))
		})
	}
}

func TestAbierta(t *testing.T) {
	abierta := &CuentaPorCobrar{SaldoPendiente: decimal.NewFromInt(1)}
	cerrada := &CuentaPorCobrar{SaldoPendiente: decimal.Zero}
	assert.True(t, abierta.Abierta())
	assert.False(t, cerrada.Abierta())
}
