package dto

import "github.com/shopspring/decimal"

// ─── Response DTOs ───────────────────────────────────────────────────────────

// EstadoCreditoResponse is the fully derived credit status for one customer.
// Disponible and Porcentaje are always recomputed, never read from storage.
type EstadoCreditoResponse struct {
	ClienteID        string          `json:"cliente_id"`
	Cliente          string          `json:"cliente"`
	Limite           decimal.Decimal `json:"limite"`
	Utilizado        decimal.Decimal `json:"utilizado"`
	Disponible       decimal.Decimal `json:"disponible"`
	Porcentaje       decimal.Decimal `json:"porcentaje"`
	Estado           string          `json:"estado"`
	CuentasPendientes int64          `json:"cuentas_pendientes"`
	CuentasVencidas   int64          `json:"cuentas_vencidas"`
}

type CreditoListResponse struct {
	Data  []EstadoCreditoResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OtorgarCreditoRequest grants credit to a customer, copying the approved
// limit from the registry into the ledger.
type OtorgarCreditoRequest struct {
	ClienteID string          `json:"cliente_id" validate:"required,uuid"`
	Limite    decimal.Decimal `json:"limite"     validate:"min=0"`
}
