package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una proforma.
const (
	ProformaPendiente  = "PENDIENTE"
	ProformaAprobada   = "APROBADA"
	ProformaRechazada  = "RECHAZADA"
	ProformaConvertida = "CONVERTIDA"
	ProformaVencida    = "VENCIDA"
)

// Políticas de pago.
const (
	PoliticaContraEntrega = "CONTRA_ENTREGA"
	PoliticaAnticipado100 = "ANTICIPADO_100"
	PoliticaMedioMedio    = "MEDIO_MEDIO"
	PoliticaCredito       = "CREDITO"
)

// AccionProforma is one of the four lifecycle actions.
type AccionProforma string

const (
	AccionAprobar   AccionProforma = "aprobar"
	AccionRechazar  AccionProforma = "rechazar"
	AccionConvertir AccionProforma = "convertir"
	AccionExpirar   AccionProforma = "expirar"
)

// transicionesProforma is the single transition table consulted by every
// mutating operation: source state x action -> target state. Anything not
// listed here is an invalid transition.
var transicionesProforma = map[AccionProforma]struct{ Desde, Hacia string }{
	AccionAprobar:   {ProformaPendiente, ProformaAprobada},
	AccionRechazar:  {ProformaPendiente, ProformaRechazada},
	AccionConvertir: {ProformaAprobada, ProformaConvertida},
	AccionExpirar:   {ProformaAprobada, ProformaVencida},
}

// TransicionProforma returns the target state for (estado, accion), or
// ok=false when the transition is not allowed.
func TransicionProforma(estado string, accion AccionProforma) (string, bool) {
	t, ok := transicionesProforma[accion]
	if !ok || t.Desde != estado {
		return "", false
	}
	return t.Hacia, true
}

// Proforma is a sales quote moving toward conversion into a Venta.
// Solicited delivery fields are retained after approval so the confirmed
// values can be diffed against what the customer originally asked for.
type Proforma struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	ClienteID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Impuesto  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Total = Subtotal - Descuento + Impuesto, recomputed from detail lines
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'PENDIENTE'"`
	PoliticaPago string          `gorm:"type:varchar(20);not null"`

	FechaEntregaSolicitada     *time.Time `gorm:"type:date"`
	HoraEntregaSolicitada      *string    `gorm:"type:varchar(10)"`
	DireccionEntregaSolicitada *string
	FechaEntregaConfirmada     *time.Time `gorm:"type:date"`
	HoraEntregaConfirmada      *string    `gorm:"type:varchar(10)"`
	DireccionEntregaConfirmada *string

	MotivoRechazo *string
	VentaID       *uuid.UUID `gorm:"type:uuid"`
	UsuarioID     uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Cliente  *Cliente          `gorm:"foreignKey:ClienteID"`
	Detalles []ProformaDetalle `gorm:"foreignKey:ProformaID"`
}

func (Proforma) TableName() string { return "proformas" }

// RecalcularTotal rebuilds subtotal and total from the detail lines.
// Total is never hand-edited once detail lines exist.
func (p *Proforma) RecalcularTotal() {
	subtotal := decimal.Zero
	for _, d := range p.Detalles {
		subtotal = subtotal.Add(d.Subtotal)
	}
	p.Subtotal = subtotal
	p.Total = subtotal.Sub(p.Descuento).Add(p.Impuesto)
}

// ProformaDetalle is one quoted line.
type ProformaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProformaID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (ProformaDetalle) TableName() string { return "proforma_detalles" }
