package service

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreditoService interface {
	// Otorgar creates the customer's credit account, copying the approved
	// limit from the registry. Idempotent per customer.
	Otorgar(ctx context.Context, req dto.OtorgarCreditoRequest) (*dto.EstadoCreditoResponse, error)
	Estado(ctx context.Context, clienteID uuid.UUID) (*dto.EstadoCreditoResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.CreditoListResponse, error)
	// ReservarTx reserves monto against the customer's available balance,
	// inside the caller's transaction. Serialized per customer.
	ReservarTx(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) error
	// LiberarTx releases monto of utilization after a payment on a
	// credit-financed receivable.
	LiberarTx(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) error
}

type creditoService struct {
	repo     repository.CreditoRepository
	cuentas  repository.CuentaPorCobrarRepository
	clientes repository.ClienteRepository
}

func NewCreditoService(
	repo repository.CreditoRepository,
	cuentas repository.CuentaPorCobrarRepository,
	clientes repository.ClienteRepository,
) CreditoService {
	return &creditoService{repo: repo, cuentas: cuentas, clientes: clientes}
}

// ── Otorgar ───────────────────────────────────────────────────────────────────

func (s *creditoService) Otorgar(ctx context.Context, req dto.OtorgarCreditoRequest) (*dto.EstadoCreditoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}

	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil {
		return nil, newError(KindNoEncontrado, "cliente no encontrado")
	}
	if !cliente.PuedeTenerCredito {
		return nil, newError(KindClienteSinCredito, "el cliente no tiene crédito habilitado")
	}

	if existente, err := s.repo.FindByClienteID(ctx, clienteID); err == nil {
		return s.buildEstado(ctx, existente)
	}

	cuenta := &model.CuentaCredito{
		ClienteID:             clienteID,
		LimiteCreditoAprobado: req.Limite,
		SaldoUtilizado:        decimal.Zero,
	}
	if err := s.repo.Create(ctx, cuenta); err != nil {
		return nil, err
	}
	cuenta.Cliente = cliente
	return s.buildEstado(ctx, cuenta)
}

// ── Estado ────────────────────────────────────────────────────────────────────
// Pure read: derived fields are recomputed from live receivables. The cached
// saldo_utilizado is reconciled against the sum of open credit receivables;
// on divergence the derived value wins and the breach is logged, never
// silently corrected in storage.

func (s *creditoService) Estado(ctx context.Context, clienteID uuid.UUID) (*dto.EstadoCreditoResponse, error) {
	cuenta, err := s.repo.FindByClienteID(ctx, clienteID)
	if err != nil {
		return nil, newError(KindClienteSinCredito, "el cliente no tiene cuenta de crédito")
	}
	return s.buildEstado(ctx, cuenta)
}

func (s *creditoService) buildEstado(ctx context.Context, cuenta *model.CuentaCredito) (*dto.EstadoCreditoResponse, error) {
	utilizado, err := s.cuentas.SumPendienteCredito(ctx, cuenta.ClienteID)
	if err != nil {
		return nil, err
	}

	if !utilizado.Equal(cuenta.SaldoUtilizado) {
		log.Error().
			Str("cliente_id", cuenta.ClienteID.String()).
			Str("saldo_cacheado", cuenta.SaldoUtilizado.String()).
			Str("saldo_derivado", utilizado.String()).
			Str("kind", string(KindUtilizacionDesincronizada)).
			Msg("saldo utilizado desincronizado con cuentas por cobrar")
	}

	derivada := model.CuentaCredito{
		LimiteCreditoAprobado: cuenta.LimiteCreditoAprobado,
		SaldoUtilizado:        utilizado,
	}
	pendientes, vencidas, err := s.cuentas.ContarPorCliente(ctx, cuenta.ClienteID, time.Now())
	if err != nil {
		return nil, err
	}

	nombre := ""
	if cuenta.Cliente != nil {
		nombre = cuenta.Cliente.Nombre
	}
	return &dto.EstadoCreditoResponse{
		ClienteID:         cuenta.ClienteID.String(),
		Cliente:           nombre,
		Limite:            cuenta.LimiteCreditoAprobado,
		Utilizado:         utilizado,
		Disponible:        derivada.SaldoDisponible(),
		Porcentaje:        derivada.PorcentajeUtilizado(),
		Estado:            derivada.EstadoDerivado(),
		CuentasPendientes: pendientes,
		CuentasVencidas:   vencidas,
	}, nil
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *creditoService) Listar(ctx context.Context, page, limit int) (*dto.CreditoListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	cuentas, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EstadoCreditoResponse, 0, len(cuentas))
	for i := range cuentas {
		estado, err := s.buildEstado(ctx, &cuentas[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *estado)
	}
	return &dto.CreditoListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// ── ReservarTx ────────────────────────────────────────────────────────────────
// The conditional single-statement update serializes concurrent reservations
// for the same customer: two conversions jointly exceeding the limit can never
// both pass the check against a stale saldo.

func (s *creditoService) ReservarTx(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) error {
	ok, err := s.repo.ReservarSaldo(ctx, tx, clienteID, monto)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	// Distinguish "no account" from "insufficient balance" for the caller.
	cuenta, err := s.repo.FindByClienteID(ctx, clienteID)
	if err != nil {
		return newError(KindClienteSinCredito, "el cliente no tiene cuenta de crédito")
	}
	return newError(KindCreditoInsuficiente,
		fmt.Sprintf("crédito insuficiente: disponible %s, requerido %s",
			cuenta.SaldoDisponible().StringFixed(2), monto.StringFixed(2)))
}

// ── LiberarTx ─────────────────────────────────────────────────────────────────

func (s *creditoService) LiberarTx(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) error {
	floored, err := s.repo.LiberarSaldo(ctx, tx, clienteID, monto)
	if err != nil {
		return err
	}
	if floored {
		// Utilization would have gone negative: the counter was zeroed but the
		// upstream invariant is broken. Logged and alerted, never hidden.
		log.Error().
			Str("cliente_id", clienteID.String()).
			Str("monto", monto.String()).
			Str("kind", string(KindSaldoNegativo)).
			Msg("liberación de crédito excede el saldo utilizado")
	}
	return nil
}
