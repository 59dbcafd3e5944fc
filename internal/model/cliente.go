package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is the local copy of the customer registry entries the ledger needs.
// PuedeTenerCredito and LimiteCredito are owned by the registry; they are copied
// into CuentaCredito when credit is granted.
type Cliente struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string    `gorm:"not null"`
	NIT      *string   `gorm:"type:varchar(20);column:nit"`
	Telefono *string
	Email    *string
	// PuedeTenerCredito gates the CREDITO payment policy
	PuedeTenerCredito bool            `gorm:"not null;default:false"`
	LimiteCredito     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Cliente) TableName() string { return "clientes" }
