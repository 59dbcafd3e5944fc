package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de un cierre de caja.
const (
	CierrePendiente   = "pendiente"
	CierreConsolidado = "consolidado"
	CierreRechazado   = "rechazado"
)

// AccionCierre is one of the two terminal administrator actions.
type AccionCierre string

const (
	AccionConsolidar AccionCierre = "consolidar"
	AccionRechazarC  AccionCierre = "rechazar"
)

// transicionesCierre mirrors the proforma table: a cierre transitions exactly
// once, from pendiente to a terminal state.
var transicionesCierre = map[AccionCierre]struct{ Desde, Hacia string }{
	AccionConsolidar: {CierrePendiente, CierreConsolidado},
	AccionRechazarC:  {CierrePendiente, CierreRechazado},
}

// TransicionCierre returns the target state for (estado, accion), or ok=false
// when the transition is not allowed.
func TransicionCierre(estado string, accion AccionCierre) (string, bool) {
	t, ok := transicionesCierre[accion]
	if !ok || t.Desde != estado {
		return "", false
	}
	return t.Hacia, true
}

// CierreCaja is a cashier's end-of-shift closure awaiting administrative
// verification. Diferencia = MontoReal - MontoEsperado; discrepancies are
// recorded and reported, never blocked.
type CierreCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Caja          int             `gorm:"not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	Fecha         time.Time       `gorm:"not null"`
	MontoEsperado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoReal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Diferencia    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Observaciones *string
	MotivoRechazo *string
	// RequiereReapertura signals the register-lifecycle collaborator that the
	// cashier may reopen and correct the shift
	RequiereReapertura bool       `gorm:"not null;default:false"`
	VerificadoPor      *uuid.UUID `gorm:"type:uuid"`
	VerificadoAt       *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (CierreCaja) TableName() string { return "cierres_caja" }

// ConDiferencia reports whether expected and counted cash diverge.
func (c *CierreCaja) ConDiferencia() bool {
	return !c.Diferencia.IsZero()
}
