package service

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PagoService interface {
	// Aplicar records an immutable payment and applies its allocations to the
	// referenced cuentas por cobrar, releasing credit utilization for
	// credit-financed debts. The whole application is one transaction.
	Aplicar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	CuentasDeCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.CuentaPorCobrarResponse, error)
}

type pagoService struct {
	repo    repository.PagoRepository
	cuentas repository.CuentaPorCobrarRepository
	credito CreditoService
}

func NewPagoService(
	repo repository.PagoRepository,
	cuentas repository.CuentaPorCobrarRepository,
	credito CreditoService,
) PagoService {
	return &pagoService{repo: repo, cuentas: cuentas, credito: credito}
}

// ── Aplicar ───────────────────────────────────────────────────────────────────

func (s *pagoService) Aplicar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	// Pre-flight: allocations may never exceed the payment itself
	totalAplicado := decimal.Zero
	for _, a := range req.Aplicaciones {
		totalAplicado = totalAplicado.Add(a.Monto)
	}
	if totalAplicado.GreaterThan(req.Monto) {
		return nil, newError(KindMontoExcedeTotal, "las aplicaciones exceden el monto del pago")
	}

	ahora := time.Now()
	pago := &model.Pago{
		Monto:               req.Monto,
		TipoPago:            req.TipoPago,
		FechaPago:           ahora,
		NumeroRecibo:        req.NumeroRecibo,
		NumeroTransferencia: req.NumeroTransferencia,
		UsuarioID:           usuarioID,
		Observaciones:       req.Observaciones,
	}

	respuestas := make([]dto.AplicacionResponse, 0, len(req.Aplicaciones))
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, a := range req.Aplicaciones {
			cuentaID, err := uuid.Parse(a.CuentaPorCobrarID)
			if err != nil {
				return fmt.Errorf("cuenta_por_cobrar_id inválido: %w", err)
			}

			// Row lock serializes concurrent partial payments per receivable:
			// saldo_pendiente can never go negative.
			cuenta, err := s.cuentas.FindByIDForUpdate(ctx, tx, cuentaID)
			if err != nil {
				return newError(KindNoEncontrado, "cuenta por cobrar no encontrada")
			}
			if a.Monto.GreaterThan(cuenta.SaldoPendiente) {
				return newError(KindMontoExcedeTotal,
					fmt.Sprintf("la aplicación %s excede el saldo pendiente %s",
						a.Monto.StringFixed(2), cuenta.SaldoPendiente.StringFixed(2)))
			}

			saldoAnterior := cuenta.SaldoPendiente
			cuenta.SaldoPendiente = cuenta.SaldoPendiente.Sub(a.Monto)
			cuenta.Estado = cuenta.EstadoDerivado(ahora)
			if err := s.cuentas.UpdateTx(ctx, tx, cuenta); err != nil {
				return err
			}

			// Only credit-financed debts release utilization
			if cuenta.EsCredito {
				if err := s.credito.LiberarTx(ctx, tx, cuenta.ClienteID, a.Monto); err != nil {
					return err
				}
			}

			pago.Aplicaciones = append(pago.Aplicaciones, model.PagoAplicacion{
				CuentaPorCobrarID: cuenta.ID,
				Monto:             a.Monto,
				SaldoAnterior:     saldoAnterior,
				SaldoNuevo:        cuenta.SaldoPendiente,
			})
			respuestas = append(respuestas, dto.AplicacionResponse{
				CuentaPorCobrarID: cuenta.ID.String(),
				Monto:             a.Monto,
				SaldoAnterior:     saldoAnterior,
				SaldoNuevo:        cuenta.SaldoPendiente,
				EstadoCuenta:      cuenta.Estado,
			})
		}
		return s.repo.CreateTx(ctx, tx, pago)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.PagoResponse{
		ID:           pago.ID.String(),
		Monto:        pago.Monto,
		TipoPago:     pago.TipoPago,
		FechaPago:    pago.FechaPago.Format("2006-01-02T15:04:05Z"),
		Aplicaciones: respuestas,
	}, nil
}

// ── CuentasDeCliente ──────────────────────────────────────────────────────────

func (s *pagoService) CuentasDeCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.CuentaPorCobrarResponse, error) {
	cuentas, err := s.cuentas.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	hoy := time.Now()
	items := make([]dto.CuentaPorCobrarResponse, 0, len(cuentas))
	for i := range cuentas {
		c := &cuentas[i]
		items = append(items, dto.CuentaPorCobrarResponse{
			ID:               c.ID.String(),
			VentaID:          c.VentaID.String(),
			ClienteID:        c.ClienteID.String(),
			MontoOriginal:    c.MontoOriginal,
			SaldoPendiente:   c.SaldoPendiente,
			EsCredito:        c.EsCredito,
			FechaVencimiento: c.FechaVencimiento.Format("2006-01-02"),
			Estado:           c.EstadoDerivado(hoy),
		})
	}
	return items, nil
}
