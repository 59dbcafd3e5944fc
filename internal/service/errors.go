package service

import "errors"

// Kind is the machine-readable classification of a business error.
type Kind string

const (
	// Validation (client-correctable)
	KindMontoInsuficiente   Kind = "MONTO_INSUFICIENTE"
	KindMontoExcedeTotal    Kind = "MONTO_EXCEDE_TOTAL"
	KindPoliticaNoPermitida Kind = "POLITICA_NO_PERMITIDA"
	KindMotivoRequerido     Kind = "MOTIVO_REQUERIDO"

	// Credit
	KindCreditoInsuficiente Kind = "CREDITO_INSUFICIENTE"
	KindClienteSinCredito   Kind = "CLIENTE_SIN_CREDITO"

	// State
	KindTransicionInvalida Kind = "TRANSICION_INVALIDA"

	// Consistency (fatal — invariant breach, never user-correctable)
	KindSaldoNegativo             Kind = "SALDO_NEGATIVO"
	KindUtilizacionDesincronizada Kind = "UTILIZACION_DESINCRONIZADA"

	KindNoEncontrado Kind = "NO_ENCONTRADO"
)

// Error is a business-rule failure with a stable kind for the API contract.
// None of these are transient: nothing is retried automatically.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// KindOf extracts the kind from any error in the chain, or "" for unknown
// (infrastructure) errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// EsFatal reports whether the error indicates an invariant breach that must be
// logged and surfaced as a generic failure, never shown verbatim to the user.
func EsFatal(err error) bool {
	switch KindOf(err) {
	case KindSaldoNegativo, KindUtilizacionDesincronizada:
		return true
	}
	return false
}
