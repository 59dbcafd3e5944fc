package service

import (
	"fmt"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"
	"github.com/shopspring/decimal"
)

// politica.go — payment policy engine.
// Pure functions over (politica, montos): the write path and its tests invoke
// exactly the same predicates.

var dos = decimal.NewFromInt(2)

// MinimoRequerido returns the minimum up-front payment for a policy.
// CREDITO requires no cash now — it is governed by the credit reservation.
func MinimoRequerido(politica string, total decimal.Decimal) decimal.Decimal {
	switch politica {
	case model.PoliticaAnticipado100:
		return total
	case model.PoliticaMedioMedio:
		return total.Div(dos).Round(2)
	default: // CONTRA_ENTREGA, CREDITO
		return decimal.Zero
	}
}

// ValidarPago checks a proposed up-front payment against the policy minimum
// and the proforma total. For CREDITO the eligibility flag is a precondition
// checked here, before any balance mutation; the balance itself is enforced by
// CreditoService.Reservar inside the conversion transaction.
func ValidarPago(politica string, monto, total decimal.Decimal, puedeTenerCredito bool) error {
	if politica == model.PoliticaCredito {
		if !puedeTenerCredito {
			return newError(KindPoliticaNoPermitida, "el cliente no tiene crédito habilitado")
		}
	} else {
		minimo := MinimoRequerido(politica, total)
		if monto.LessThan(minimo) {
			return newError(KindMontoInsuficiente,
				fmt.Sprintf("el pago mínimo para %s es %s", politica, minimo.StringFixed(2)))
		}
	}
	if monto.GreaterThan(total) {
		return newError(KindMontoExcedeTotal, "el monto pagado excede el total de la proforma")
	}
	return nil
}

// PlazoVencimientoDias is the receivable due term per policy.
func PlazoVencimientoDias(politica string) int {
	if politica == model.PoliticaCredito {
		return 30
	}
	return 7
}
