package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProformaDetalleRequest struct {
	Descripcion    string          `json:"descripcion"     validate:"required,min=2"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"gt=0"`
}

type CrearProformaRequest struct {
	ClienteID    string                   `json:"cliente_id"    validate:"required,uuid"`
	PoliticaPago string                   `json:"politica_pago" validate:"required,oneof=CONTRA_ENTREGA ANTICIPADO_100 MEDIO_MEDIO CREDITO"`
	Descuento    decimal.Decimal          `json:"descuento"     validate:"min=0"`
	Impuesto     decimal.Decimal          `json:"impuesto"      validate:"min=0"`
	Detalles     []ProformaDetalleRequest `json:"detalles"      validate:"required,min=1,dive"`

	FechaEntregaSolicitada     *string `json:"fecha_entrega_solicitada"     validate:"omitempty,datetime=2006-01-02"`
	HoraEntregaSolicitada      *string `json:"hora_entrega_solicitada"`
	DireccionEntregaSolicitada *string `json:"direccion_entrega_solicitada"`
}

// CoordinacionEntrega carries the confirmed delivery data required to approve.
type CoordinacionEntrega struct {
	FechaEntrega     string `json:"fecha_entrega"     validate:"required,datetime=2006-01-02"`
	HoraEntrega      string `json:"hora_entrega"      validate:"required"`
	DireccionEntrega string `json:"direccion_entrega" validate:"required,min=5"`
}

// PagoProformaRequest is the optional up-front payment supplied at approval.
type PagoProformaRequest struct {
	ConPago             bool            `json:"con_pago"`
	Monto               decimal.Decimal `json:"monto"         validate:"min=0"`
	TipoPago            string          `json:"tipo_pago"     validate:"omitempty,oneof=efectivo transferencia cheque tarjeta"`
	NumeroRecibo        *string         `json:"numero_recibo"`
	NumeroTransferencia *string         `json:"numero_transferencia"`
}

type AprobarProformaRequest struct {
	Coordinacion CoordinacionEntrega  `json:"coordinacion" validate:"required"`
	Pago         *PagoProformaRequest `json:"pago"         validate:"omitempty"`
}

type RechazarProformaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type ProformaFilterRequest struct {
	Estado    string `form:"estado"`
	ClienteID string `form:"cliente_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProformaDetalleResponse struct {
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type EntregaResponse struct {
	FechaSolicitada     *string `json:"fecha_solicitada"`
	HoraSolicitada      *string `json:"hora_solicitada"`
	DireccionSolicitada *string `json:"direccion_solicitada"`
	FechaConfirmada     *string `json:"fecha_confirmada"`
	HoraConfirmada      *string `json:"hora_confirmada"`
	DireccionConfirmada *string `json:"direccion_confirmada"`
}

type ProformaResponse struct {
	ID            string                    `json:"id"`
	Numero        string                    `json:"numero"`
	ClienteID     string                    `json:"cliente_id"`
	Cliente       string                    `json:"cliente"`
	Subtotal      decimal.Decimal           `json:"subtotal"`
	Descuento     decimal.Decimal           `json:"descuento"`
	Impuesto      decimal.Decimal           `json:"impuesto"`
	Total         decimal.Decimal           `json:"total"`
	Estado        string                    `json:"estado"`
	PoliticaPago  string                    `json:"politica_pago"`
	MotivoRechazo *string                   `json:"motivo_rechazo,omitempty"`
	VentaID       *string                   `json:"venta_id,omitempty"`
	Entrega       EntregaResponse           `json:"entrega"`
	Detalles      []ProformaDetalleResponse `json:"detalles"`
	CreatedAt     string                    `json:"created_at"`
}

type ProformaListResponse struct {
	Data  []ProformaResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// VentaResponse is returned when a proforma converts.
type VentaResponse struct {
	ID           string          `json:"id"`
	Numero       int             `json:"numero"`
	ProformaID   string          `json:"proforma_id"`
	ClienteID    string          `json:"cliente_id"`
	Total        decimal.Decimal `json:"total"`
	MontoPagado  decimal.Decimal `json:"monto_pagado"`
	Saldo        decimal.Decimal `json:"saldo"`
	PoliticaPago string          `json:"politica_pago"`
	CuentaPorCobrarID *string    `json:"cuenta_por_cobrar_id,omitempty"`
}

// AlertasProformasResponse feeds the dashboard expiry counter.
type AlertasProformasResponse struct {
	Pendientes int64 `json:"pendientes"`
	Vencidas   int64 `json:"vencidas"`
}
