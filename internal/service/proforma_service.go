package service

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProformaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProformaRequest) (*dto.ProformaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProformaResponse, error)
	Listar(ctx context.Context, filter dto.ProformaFilterRequest) (*dto.ProformaListResponse, error)
	Aprobar(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID, req dto.AprobarProformaRequest) (*dto.ProformaResponse, error)
	Rechazar(ctx context.Context, id uuid.UUID, motivo string) (*dto.ProformaResponse, error)
	Convertir(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID) (*dto.VentaResponse, error)
	// ExpirarVencidas is called by the background sweep; it transitions
	// APROBADA proformas past their confirmed delivery date to VENCIDA.
	ExpirarVencidas(ctx context.Context, ahora time.Time) (int, error)
	Alertas(ctx context.Context) (*dto.AlertasProformasResponse, error)
}

type proformaService struct {
	repo       repository.ProformaRepository
	clientes   repository.ClienteRepository
	ventas     repository.VentaRepository
	cuentas    repository.CuentaPorCobrarRepository
	credito    CreditoService
	dispatcher *worker.Dispatcher
}

func NewProformaService(
	repo repository.ProformaRepository,
	clientes repository.ClienteRepository,
	ventas repository.VentaRepository,
	cuentas repository.CuentaPorCobrarRepository,
	credito CreditoService,
	dispatcher *worker.Dispatcher,
) ProformaService {
	return &proformaService{
		repo:       repo,
		clientes:   clientes,
		ventas:     ventas,
		cuentas:    cuentas,
		credito:    credito,
		dispatcher: dispatcher,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *proformaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProformaRequest) (*dto.ProformaResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id inválido: %w", err)
	}
	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil {
		return nil, newError(KindNoEncontrado, "cliente no encontrado")
	}

	// CREDITO eligibility is a precondition, checked before anything persists
	if req.PoliticaPago == model.PoliticaCredito && !cliente.PuedeTenerCredito {
		return nil, newError(KindPoliticaNoPermitida, "el cliente no tiene crédito habilitado")
	}

	numero, err := s.repo.NextNumero(ctx)
	if err != nil {
		return nil, err
	}

	p := &model.Proforma{
		Numero:       numero,
		ClienteID:    clienteID,
		Descuento:    req.Descuento,
		Impuesto:     req.Impuesto,
		Estado:       model.ProformaPendiente,
		PoliticaPago: req.PoliticaPago,
		UsuarioID:    usuarioID,
	}
	for _, d := range req.Detalles {
		subtotal := d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		p.Detalles = append(p.Detalles, model.ProformaDetalle{
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       subtotal,
		})
	}
	p.RecalcularTotal()
	if p.Total.IsNegative() {
		return nil, newError(KindMontoExcedeTotal, "el descuento excede el subtotal más el impuesto")
	}

	if req.FechaEntregaSolicitada != nil {
		if fecha, err := time.Parse("2006-01-02", *req.FechaEntregaSolicitada); err == nil {
			p.FechaEntregaSolicitada = &fecha
		}
	}
	p.HoraEntregaSolicitada = req.HoraEntregaSolicitada
	p.DireccionEntregaSolicitada = req.DireccionEntregaSolicitada

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Cliente = cliente
	return proformaToResponse(p), nil
}

// ── Aprobar ───────────────────────────────────────────────────────────────────
// Requires estado PENDIENTE and confirmed delivery coordination. When payment
// data is supplied and valid, conversion happens in the same transaction —
// there is never an APROBADA proforma with a verified payment left behind.

func (s *proformaService) Aprobar(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID, req dto.AprobarProformaRequest) (*dto.ProformaResponse, error) {
	fechaEntrega, err := time.Parse("2006-01-02", req.Coordinacion.FechaEntrega)
	if err != nil {
		return nil, fmt.Errorf("fecha_entrega inválida: %w", err)
	}

	var aprobada *model.Proforma
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return newError(KindNoEncontrado, "proforma no encontrada")
		}

		nuevoEstado, ok := model.TransicionProforma(p.Estado, model.AccionAprobar)
		if !ok {
			return newError(KindTransicionInvalida,
				fmt.Sprintf("no se puede aprobar una proforma en estado %s", p.Estado))
		}

		cliente, err := s.clientes.FindByID(ctx, p.ClienteID)
		if err != nil {
			return newError(KindNoEncontrado, "cliente no encontrado")
		}

		// A CREDITO proforma whose customer lost the flag is rejected at
		// validation, never silently downgraded to another policy.
		if p.PoliticaPago == model.PoliticaCredito && !cliente.PuedeTenerCredito {
			return newError(KindPoliticaNoPermitida, "el cliente no tiene crédito habilitado")
		}

		montoPagado := decimal.Zero
		conPago := req.Pago != nil && req.Pago.ConPago
		if conPago {
			if err := ValidarPago(p.PoliticaPago, req.Pago.Monto, p.Total, cliente.PuedeTenerCredito); err != nil {
				return err
			}
			montoPagado = req.Pago.Monto
		}

		// Confirmed delivery fields persist alongside the solicited ones so
		// the approval diff stays auditable.
		p.Estado = nuevoEstado
		p.FechaEntregaConfirmada = &fechaEntrega
		p.HoraEntregaConfirmada = &req.Coordinacion.HoraEntrega
		p.DireccionEntregaConfirmada = &req.Coordinacion.DireccionEntrega

		if conPago {
			if _, _, err := s.convertirLocked(ctx, tx, p, usuarioID, montoPagado); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateTx(ctx, tx, p); err != nil {
			return err
		}
		aprobada = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificar(ctx, "proforma.aprobada", aprobada)
	if aprobada.Estado == model.ProformaConvertida {
		s.notificar(ctx, "proforma.convertida", aprobada)
	}
	return proformaToResponse(aprobada), nil
}

// ── Rechazar ──────────────────────────────────────────────────────────────────

func (s *proformaService) Rechazar(ctx context.Context, id uuid.UUID, motivo string) (*dto.ProformaResponse, error) {
	if motivo == "" {
		return nil, newError(KindMotivoRequerido, "el motivo de rechazo es obligatorio")
	}

	var rechazada *model.Proforma
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return newError(KindNoEncontrado, "proforma no encontrada")
		}
		nuevoEstado, ok := model.TransicionProforma(p.Estado, model.AccionRechazar)
		if !ok {
			return newError(KindTransicionInvalida,
				fmt.Sprintf("no se puede rechazar una proforma en estado %s", p.Estado))
		}
		p.Estado = nuevoEstado
		p.MotivoRechazo = &motivo
		if err := s.repo.UpdateTx(ctx, tx, p); err != nil {
			return err
		}
		rechazada = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificar(ctx, "proforma.rechazada", rechazada)
	return proformaToResponse(rechazada), nil
}

// ── Convertir ─────────────────────────────────────────────────────────────────

func (s *proformaService) Convertir(ctx context.Context, usuarioID uuid.UUID, id uuid.UUID) (*dto.VentaResponse, error) {
	var (
		venta  *model.Venta
		cuenta *model.CuentaPorCobrar
		conv   *model.Proforma
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return newError(KindNoEncontrado, "proforma no encontrada")
		}
		venta, cuenta, err = s.convertirLocked(ctx, tx, p, usuarioID, decimal.Zero)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateTx(ctx, tx, p); err != nil {
			return err
		}
		conv = p
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificar(ctx, "proforma.convertida", conv)
	return ventaToResponse(venta, cuenta), nil
}

// convertirLocked performs the APROBADA → CONVERTIDA step on an already locked
// proforma, inside the caller's transaction: Venta, CuentaPorCobrar (when a
// balance remains) and the credit reservation succeed or fail together.
func (s *proformaService) convertirLocked(ctx context.Context, tx *gorm.DB, p *model.Proforma, usuarioID uuid.UUID, montoPagado decimal.Decimal) (*model.Venta, *model.CuentaPorCobrar, error) {
	nuevoEstado, ok := model.TransicionProforma(p.Estado, model.AccionConvertir)
	if !ok {
		return nil, nil, newError(KindTransicionInvalida,
			fmt.Sprintf("no se puede convertir una proforma en estado %s", p.Estado))
	}

	if p.PoliticaPago == model.PoliticaCredito {
		cliente, err := s.clientes.FindByID(ctx, p.ClienteID)
		if err != nil {
			return nil, nil, newError(KindNoEncontrado, "cliente no encontrado")
		}
		if !cliente.PuedeTenerCredito {
			return nil, nil, newError(KindPoliticaNoPermitida, "el cliente no tiene crédito habilitado")
		}
	}

	numero, err := s.ventas.NextNumero(ctx, tx)
	if err != nil {
		return nil, nil, err
	}

	saldo := p.Total.Sub(montoPagado)
	venta := &model.Venta{
		Numero:       numero,
		ProformaID:   p.ID,
		ClienteID:    p.ClienteID,
		Total:        p.Total,
		MontoPagado:  montoPagado,
		Saldo:        saldo,
		PoliticaPago: p.PoliticaPago,
		UsuarioID:    usuarioID,
	}
	if err := s.ventas.CreateTx(ctx, tx, venta); err != nil {
		return nil, nil, err
	}

	var cuenta *model.CuentaPorCobrar
	if saldo.IsPositive() {
		esCredito := p.PoliticaPago == model.PoliticaCredito
		if esCredito {
			// Reservation is serialized per customer; on failure the whole
			// transaction rolls back and no receivable exists without it.
			if err := s.credito.ReservarTx(ctx, tx, p.ClienteID, saldo); err != nil {
				return nil, nil, err
			}
		}
		vencimiento := time.Now().AddDate(0, 0, PlazoVencimientoDias(p.PoliticaPago))
		cuenta = &model.CuentaPorCobrar{
			VentaID:          venta.ID,
			ClienteID:        p.ClienteID,
			MontoOriginal:    saldo,
			SaldoPendiente:   saldo,
			EsCredito:        esCredito,
			FechaVencimiento: vencimiento,
			Estado:           model.CuentaPendiente,
		}
		if err := s.cuentas.CreateTx(ctx, tx, cuenta); err != nil {
			return nil, nil, err
		}
	}

	p.Estado = nuevoEstado
	p.VentaID = &venta.ID
	return venta, cuenta, nil
}

// ── ExpirarVencidas ───────────────────────────────────────────────────────────

func (s *proformaService) ExpirarVencidas(ctx context.Context, ahora time.Time) (int, error) {
	proformas, err := s.repo.ListAprobadasVencidas(ctx, ahora, 100)
	if err != nil {
		return 0, err
	}
	expiradas := 0
	for i := range proformas {
		id := proformas[i].ID
		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			p, err := s.repo.FindByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			nuevoEstado, ok := model.TransicionProforma(p.Estado, model.AccionExpirar)
			if !ok {
				return nil // converted or expired by a concurrent sweep
			}
			p.Estado = nuevoEstado
			return s.repo.UpdateTx(ctx, tx, p)
		})
		if txErr != nil {
			return expiradas, txErr
		}
		expiradas++
		s.notificar(ctx, "proforma.vencida", &proformas[i])
	}
	return expiradas, nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *proformaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProformaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, newError(KindNoEncontrado, "proforma no encontrada")
	}
	return proformaToResponse(p), nil
}

func (s *proformaService) Listar(ctx context.Context, filter dto.ProformaFilterRequest) (*dto.ProformaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	repoFilter := repository.ProformaFilter{
		Estado: filter.Estado,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.ClienteID != "" {
		cid, err := uuid.Parse(filter.ClienteID)
		if err != nil {
			return nil, newError(KindNoEncontrado, "cliente_id invalido")
		}
		repoFilter.ClienteID = &cid
	}
	proformas, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProformaResponse, 0, len(proformas))
	for i := range proformas {
		items = append(items, *proformaToResponse(&proformas[i]))
	}
	return &dto.ProformaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *proformaService) Alertas(ctx context.Context) (*dto.AlertasProformasResponse, error) {
	pendientes, err := s.repo.ContarPorEstado(ctx, model.ProformaPendiente)
	if err != nil {
		return nil, err
	}
	vencidas, err := s.repo.ContarPorEstado(ctx, model.ProformaVencida)
	if err != nil {
		return nil, err
	}
	return &dto.AlertasProformasResponse{Pendientes: pendientes, Vencidas: vencidas}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *proformaService) notificar(ctx context.Context, evento string, p *model.Proforma) {
	if s.dispatcher == nil {
		return
	}
	datos := map[string]string{"numero": p.Numero, "estado": p.Estado}
	if p.FechaEntregaConfirmada != nil {
		datos["fecha_entrega"] = p.FechaEntregaConfirmada.Format("2006-01-02")
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionPayload{
		Evento:    evento,
		Entidad:   "proforma",
		EntidadID: p.ID.String(),
		Datos:     datos,
	})
}

func fechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func proformaToResponse(p *model.Proforma) *dto.ProformaResponse {
	detalles := make([]dto.ProformaDetalleResponse, 0, len(p.Detalles))
	for _, d := range p.Detalles {
		detalles = append(detalles, dto.ProformaDetalleResponse{
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	nombre := ""
	if p.Cliente != nil {
		nombre = p.Cliente.Nombre
	}
	var ventaID *string
	if p.VentaID != nil {
		v := p.VentaID.String()
		ventaID = &v
	}
	return &dto.ProformaResponse{
		ID:            p.ID.String(),
		Numero:        p.Numero,
		ClienteID:     p.ClienteID.String(),
		Cliente:       nombre,
		Subtotal:      p.Subtotal,
		Descuento:     p.Descuento,
		Impuesto:      p.Impuesto,
		Total:         p.Total,
		Estado:        p.Estado,
		PoliticaPago:  p.PoliticaPago,
		MotivoRechazo: p.MotivoRechazo,
		VentaID:       ventaID,
		Entrega: dto.EntregaResponse{
			FechaSolicitada:     fechaPtr(p.FechaEntregaSolicitada),
			HoraSolicitada:      p.HoraEntregaSolicitada,
			DireccionSolicitada: p.DireccionEntregaSolicitada,
			FechaConfirmada:     fechaPtr(p.FechaEntregaConfirmada),
			HoraConfirmada:      p.HoraEntregaConfirmada,
			DireccionConfirmada: p.DireccionEntregaConfirmada,
		},
		Detalles:  detalles,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func ventaToResponse(v *model.Venta, cuenta *model.CuentaPorCobrar) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:           v.ID.String(),
		Numero:       v.Numero,
		ProformaID:   v.ProformaID.String(),
		ClienteID:    v.ClienteID.String(),
		Total:        v.Total,
		MontoPagado:  v.MontoPagado,
		Saldo:        v.Saldo,
		PoliticaPago: v.PoliticaPago,
	}
	if cuenta != nil {
		id := cuenta.ID.String()
		resp.CuentaPorCobrarID = &id
	}
	return resp
}
