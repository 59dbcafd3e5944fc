package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados derivados de una cuenta de crédito según porcentaje utilizado.
const (
	CreditoDisponible = "disponible" // pct < 50
	CreditoEnUso      = "en_uso"     // 50 <= pct < 80
	CreditoCritico    = "critico"    // 80 <= pct <= 100
	CreditoExcedido   = "excedido"   // pct > 100
)

// CuentaCredito is the per-customer credit ledger. SaldoUtilizado is a cached
// counter kept in the same transaction as every receivable mutation; the
// authoritative value is the sum of saldo_pendiente over open credit-financed
// receivables, and reads reconcile against it.
type CuentaCredito struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID             uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	LimiteCreditoAprobado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoUtilizado        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (CuentaCredito) TableName() string { return "cuentas_credito" }

// SaldoDisponible = limite aprobado - saldo utilizado. Never persisted.
func (c *CuentaCredito) SaldoDisponible() decimal.Decimal {
	return c.LimiteCreditoAprobado.Sub(c.SaldoUtilizado)
}

// PorcentajeUtilizado returns utilization as a display percentage rounded to
// two decimals, 0 when the limit is 0. Classification never uses the rounded
// value — see EstadoDerivado.
func (c *CuentaCredito) PorcentajeUtilizado() decimal.Decimal {
	if c.LimiteCreditoAprobado.IsZero() {
		return decimal.Zero
	}
	return c.SaldoUtilizado.Div(c.LimiteCreditoAprobado).Mul(decimal.NewFromInt(100)).Round(2)
}

// EstadoDerivado classifies utilization on unrounded amounts. The 100%
// boundary is inclusive on the critico side: a fully-used limit is critico,
// one cent more is excedido. Rounding the percentage first would fold
// limite+0.01 back into 100.00, so the over-limit check compares the saldos
// directly.
func (c *CuentaCredito) EstadoDerivado() string {
	if c.LimiteCreditoAprobado.IsZero() {
		return CreditoDisponible
	}
	if c.SaldoUtilizado.GreaterThan(c.LimiteCreditoAprobado) {
		return CreditoExcedido
	}
	pct := c.SaldoUtilizado.Div(c.LimiteCreditoAprobado).Mul(decimal.NewFromInt(100))
	switch {
	case pct.LessThan(decimal.NewFromInt(50)):
		return CreditoDisponible
	case pct.LessThan(decimal.NewFromInt(80)):
		return CreditoEnUso
	default:
		return CreditoCritico
	}
}
