package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is the committed sale created when a proforma converts.
// Saldo = Total - MontoPagado; when positive, a CuentaPorCobrar is created
// in the same transaction.
type Venta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero       int             `gorm:"uniqueIndex;not null"`
	ProformaID   uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	ClienteID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoPagado  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Saldo        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PoliticaPago string          `gorm:"type:varchar(20);not null"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt    time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Venta) TableName() string { return "ventas" }
