package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una cuenta por cobrar.
const (
	CuentaPendiente = "pendiente"
	CuentaParcial   = "parcial"
	CuentaPagada    = "pagada"
	CuentaVencida   = "vencida"
)

// CuentaPorCobrar is one open or settled debt tied to a sale. Rows are never
// deleted — settled accounts stay as audit trail. SaldoPendiente is mutated
// only by payment application.
type CuentaPorCobrar struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClienteID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	MontoOriginal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoPendiente decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// EsCredito marks debts originated by a CREDITO-policy sale; only these
	// count against the customer's CuentaCredito utilization.
	EsCredito        bool      `gorm:"not null;default:false"`
	FechaVencimiento time.Time `gorm:"type:date;not null"`
	Estado           string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (CuentaPorCobrar) TableName() string { return "cuentas_por_cobrar" }

// EstadoDerivado recomputes the state from balances and the due date.
func (c *CuentaPorCobrar) EstadoDerivado(hoy time.Time) string {
	switch {
	case c.SaldoPendiente.IsZero():
		return CuentaPagada
	case hoy.Truncate(24 * time.Hour).After(c.FechaVencimiento):
		return CuentaVencida
	case c.SaldoPendiente.LessThan(c.MontoOriginal):
		return CuentaParcial
	default:
		return CuentaPendiente
	}
}

// Abierta reports whether the account still carries pending balance.
func (c *CuentaPorCobrar) Abierta() bool {
	return c.SaldoPendiente.IsPositive()
}
