package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarCierreRequest is submitted by the cashier at end of shift.
// Diferencia is computed server-side, never trusted from the client.
type RegistrarCierreRequest struct {
	Caja          int             `json:"caja"           validate:"required,min=1"`
	MontoEsperado decimal.Decimal `json:"monto_esperado" validate:"min=0"`
	MontoReal     decimal.Decimal `json:"monto_real"     validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
}

type ConsolidarCierreRequest struct {
	Observaciones *string `json:"observaciones"`
}

type RechazarCierreRequest struct {
	Motivo             string `json:"motivo"              validate:"required,min=3"`
	RequiereReapertura bool   `json:"requiere_reapertura"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CierreResponse struct {
	ID                 string          `json:"id"`
	Caja               int             `json:"caja"`
	Usuario            string          `json:"usuario"`
	Fecha              string          `json:"fecha"`
	MontoEsperado      decimal.Decimal `json:"monto_esperado"`
	MontoReal          decimal.Decimal `json:"monto_real"`
	Diferencia         decimal.Decimal `json:"diferencia"`
	Estado             string          `json:"estado"`
	Observaciones      *string         `json:"observaciones,omitempty"`
	MotivoRechazo      *string         `json:"motivo_rechazo,omitempty"`
	RequiereReapertura bool            `json:"requiere_reapertura"`
	VerificadoAt       *string         `json:"verificado_at,omitempty"`
}
