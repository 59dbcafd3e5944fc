package dto

import "github.com/shopspring/decimal"

type CrearClienteRequest struct {
	Nombre            string          `json:"nombre"   validate:"required,min=2,max=150"`
	NIT               *string         `json:"nit"`
	Telefono          *string         `json:"telefono"`
	Email             *string         `json:"email"    validate:"omitempty,email"`
	PuedeTenerCredito bool            `json:"puede_tener_credito"`
	LimiteCredito     decimal.Decimal `json:"limite_credito" validate:"min=0"`
}

type ClienteResponse struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	NIT               *string         `json:"nit"`
	Telefono          *string         `json:"telefono"`
	Email             *string         `json:"email"`
	PuedeTenerCredito bool            `json:"puede_tener_credito"`
	LimiteCredito     decimal.Decimal `json:"limite_credito"`
	Activo            bool            `json:"activo"`
}
