package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AplicacionRequest allocates part of a payment to one cuenta por cobrar.
type AplicacionRequest struct {
	CuentaPorCobrarID string          `json:"cuenta_por_cobrar_id" validate:"required,uuid"`
	Monto             decimal.Decimal `json:"monto"                validate:"gt=0"`
}

type RegistrarPagoRequest struct {
	Monto               decimal.Decimal     `json:"monto"      validate:"gt=0"`
	TipoPago            string              `json:"tipo_pago"  validate:"required,oneof=efectivo transferencia cheque tarjeta"`
	NumeroRecibo        *string             `json:"numero_recibo"`
	NumeroTransferencia *string             `json:"numero_transferencia"`
	Observaciones       *string             `json:"observaciones"`
	Aplicaciones        []AplicacionRequest `json:"aplicaciones" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AplicacionResponse struct {
	CuentaPorCobrarID string          `json:"cuenta_por_cobrar_id"`
	Monto             decimal.Decimal `json:"monto"`
	SaldoAnterior     decimal.Decimal `json:"saldo_anterior"`
	SaldoNuevo        decimal.Decimal `json:"saldo_nuevo"`
	EstadoCuenta      string          `json:"estado_cuenta"`
}

type PagoResponse struct {
	ID           string               `json:"id"`
	Monto        decimal.Decimal      `json:"monto"`
	TipoPago     string               `json:"tipo_pago"`
	FechaPago    string               `json:"fecha_pago"`
	Aplicaciones []AplicacionResponse `json:"aplicaciones"`
}

type CuentaPorCobrarResponse struct {
	ID               string          `json:"id"`
	VentaID          string          `json:"venta_id"`
	ClienteID        string          `json:"cliente_id"`
	MontoOriginal    decimal.Decimal `json:"monto_original"`
	SaldoPendiente   decimal.Decimal `json:"saldo_pendiente"`
	EsCredito        bool            `json:"es_credito"`
	FechaVencimiento string          `json:"fecha_vencimiento"`
	Estado           string          `json:"estado"`
}
