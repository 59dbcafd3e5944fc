package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de pago aceptados.
const (
	PagoEfectivo      = "efectivo"
	PagoTransferencia = "transferencia"
	PagoCheque        = "cheque"
	PagoTarjeta       = "tarjeta"
)

// Pago is an immutable payment record. Corrections are reversing entries,
// never edits — there is no Update/Delete path for payments.
type Pago struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Monto               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoPago            string          `gorm:"type:varchar(20);not null"`
	FechaPago           time.Time       `gorm:"not null"`
	NumeroRecibo        *string         `gorm:"type:varchar(50)"`
	NumeroTransferencia *string         `gorm:"type:varchar(50)"`
	UsuarioID           uuid.UUID       `gorm:"type:uuid;not null"`
	Observaciones       *string
	CreatedAt           time.Time

	Aplicaciones []PagoAplicacion `gorm:"foreignKey:PagoID"`
}

func (Pago) TableName() string { return "pagos" }

// PagoAplicacion allocates part of a payment to one cuenta por cobrar.
// The sum of a payment's allocations never exceeds its monto.
type PagoAplicacion struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID            uuid.UUID       `gorm:"type:uuid;index;not null"`
	CuentaPorCobrarID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Saldos before/after for the audit trail
	SaldoAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoNuevo    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}

func (PagoAplicacion) TableName() string { return "pago_aplicaciones" }
