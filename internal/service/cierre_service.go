package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CierreService interface {
	// Registrar creates a pendiente closure; diferencia is computed here,
	// never taken from the client.
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCierreRequest) (*dto.CierreResponse, error)
	// Consolidar accepts the closure. A non-zero diferencia is recorded, not
	// blocked — it stays visible through Estadisticas.
	Consolidar(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req dto.ConsolidarCierreRequest) (*dto.CierreResponse, error)
	Rechazar(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req dto.RechazarCierreRequest) (*dto.CierreResponse, error)
	Pendientes(ctx context.Context) ([]dto.CierreResponse, error)
	Estadisticas(ctx context.Context) (*repository.EstadisticasCierres, error)
}

type cierreService struct {
	repo       repository.CierreRepository
	dispatcher *worker.Dispatcher
}

func NewCierreService(repo repository.CierreRepository, dispatcher *worker.Dispatcher) CierreService {
	return &cierreService{repo: repo, dispatcher: dispatcher}
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *cierreService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCierreRequest) (*dto.CierreResponse, error) {
	cierre := &model.CierreCaja{
		Caja:          req.Caja,
		UsuarioID:     usuarioID,
		Fecha:         time.Now(),
		MontoEsperado: req.MontoEsperado,
		MontoReal:     req.MontoReal,
		Diferencia:    req.MontoReal.Sub(req.MontoEsperado),
		Estado:        model.CierrePendiente,
		Observaciones: req.Observaciones,
	}
	if err := s.repo.Create(ctx, cierre); err != nil {
		return nil, err
	}
	return cierreToResponse(cierre), nil
}

// ── Consolidar ────────────────────────────────────────────────────────────────

func (s *cierreService) Consolidar(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req dto.ConsolidarCierreRequest) (*dto.CierreResponse, error) {
	cierre, err := s.transicionar(ctx, id, model.AccionConsolidar, func(c *model.CierreCaja) {
		if req.Observaciones != nil {
			c.Observaciones = req.Observaciones
		}
		ahora := time.Now()
		c.VerificadoPor = &adminID
		c.VerificadoAt = &ahora
	})
	if err != nil {
		return nil, err
	}

	s.notificar(ctx, "cierre.consolidado", cierre)
	return cierreToResponse(cierre), nil
}

// ── Rechazar ──────────────────────────────────────────────────────────────────

func (s *cierreService) Rechazar(ctx context.Context, adminID uuid.UUID, id uuid.UUID, req dto.RechazarCierreRequest) (*dto.CierreResponse, error) {
	if req.Motivo == "" {
		return nil, newError(KindMotivoRequerido, "el motivo de rechazo es obligatorio")
	}

	cierre, err := s.transicionar(ctx, id, model.AccionRechazarC, func(c *model.CierreCaja) {
		motivo := req.Motivo
		c.MotivoRechazo = &motivo
		c.RequiereReapertura = req.RequiereReapertura
		ahora := time.Now()
		c.VerificadoPor = &adminID
		c.VerificadoAt = &ahora
	})
	if err != nil {
		return nil, err
	}

	// The register-lifecycle collaborator listens for this event; when
	// requiere_reapertura is set it lets the cashier reopen the shift.
	s.notificar(ctx, "cierre.rechazado", cierre)
	return cierreToResponse(cierre), nil
}

// transicionar applies one terminal transition under a row lock, consulting
// the transition table so a second consolidar/rechazar always fails.
func (s *cierreService) transicionar(ctx context.Context, id uuid.UUID, accion model.AccionCierre, mutate func(*model.CierreCaja)) (*model.CierreCaja, error) {
	var cierre *model.CierreCaja
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return newError(KindNoEncontrado, "cierre no encontrado")
		}
		nuevoEstado, ok := model.TransicionCierre(c.Estado, accion)
		if !ok {
			return newError(KindTransicionInvalida,
				fmt.Sprintf("no se puede %s un cierre en estado %s", accion, c.Estado))
		}
		c.Estado = nuevoEstado
		mutate(c)
		if err := s.repo.UpdateTx(ctx, tx, c); err != nil {
			return err
		}
		cierre = c
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return cierre, nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *cierreService) Pendientes(ctx context.Context) ([]dto.CierreResponse, error) {
	cierres, err := s.repo.ListPendientes(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CierreResponse, 0, len(cierres))
	for i := range cierres {
		items = append(items, *cierreToResponse(&cierres[i]))
	}
	return items, nil
}

func (s *cierreService) Estadisticas(ctx context.Context) (*repository.EstadisticasCierres, error) {
	return s.repo.Estadisticas(ctx)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *cierreService) notificar(ctx context.Context, evento string, c *model.CierreCaja) {
	if s.dispatcher == nil {
		return
	}
	datos := map[string]string{
		"caja":                strconv.Itoa(c.Caja),
		"diferencia":          c.Diferencia.StringFixed(2),
		"requiere_reapertura": strconv.FormatBool(c.RequiereReapertura),
	}
	if c.MotivoRechazo != nil {
		datos["motivo"] = *c.MotivoRechazo
	}
	_ = s.dispatcher.EnqueueNotificacion(ctx, worker.NotificacionPayload{
		Evento:    evento,
		Entidad:   "cierre",
		EntidadID: c.ID.String(),
		Datos:     datos,
	})
}

func cierreToResponse(c *model.CierreCaja) *dto.CierreResponse {
	usuario := ""
	if c.Usuario != nil {
		usuario = c.Usuario.Nombre
	}
	var verificadoAt *string
	if c.VerificadoAt != nil {
		t := c.VerificadoAt.Format("2006-01-02T15:04:05Z")
		verificadoAt = &t
	}
	return &dto.CierreResponse{
		ID:                 c.ID.String(),
		Caja:               c.Caja,
		Usuario:            usuario,
		Fecha:              c.Fecha.Format("2006-01-02T15:04:05Z"),
		MontoEsperado:      c.MontoEsperado,
		MontoReal:          c.MontoReal,
		Diferencia:         c.Diferencia,
		Estado:             c.Estado,
		Observaciones:      c.Observaciones,
		MotivoRechazo:      c.MotivoRechazo,
		RequiereReapertura: c.RequiereReapertura,
		VerificadoAt:       verificadoAt,
	}
}
