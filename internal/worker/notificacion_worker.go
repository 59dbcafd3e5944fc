package worker

// notificacion_worker.go
// Processes state-transition events from QueueNotificaciones: every event is
// written to the audit log, and the ones administrators care about (rejected
// closures requiring reopening, expired proformas) are also emailed.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotificacionWorker consumes transition events emitted by the services.
type NotificacionWorker struct {
	mailer     *infra.Mailer
	adminEmail string
}

func NewNotificacionWorker(mailer *infra.Mailer, adminEmail string) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer, adminEmail: adminEmail}
}

// Process records the event and emails administrators when relevant.
func (w *NotificacionWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload NotificacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}

	// Audit trail — every transition is logged with its full context
	log.Info().
		Str("evento", payload.Evento).
		Str("entidad", payload.Entidad).
		Str("entidad_id", payload.EntidadID).
		Fields(map[string]interface{}{"datos": payload.Datos}).
		Msg("notificacion_worker: evento registrado")

	if w.mailer == nil || w.adminEmail == "" {
		return
	}

	switch payload.Evento {
	case "cierre.rechazado":
		subject := "Cierre de caja rechazado"
		body := fmt.Sprintf("El cierre %s fue rechazado. Motivo: %s. Requiere reapertura: %s.",
			payload.EntidadID, payload.Datos["motivo"], payload.Datos["requiere_reapertura"])
		w.send(subject, body)
	case "proforma.vencida":
		subject := "Proforma vencida sin convertir"
		body := fmt.Sprintf("La proforma %s venció sin convertirse en venta (entrega confirmada: %s).",
			payload.Datos["numero"], payload.Datos["fecha_entrega"])
		w.send(subject, body)
	}
}

func (w *NotificacionWorker) send(subject, body string) {
	if err := w.mailer.SendNotificacion(w.adminEmail, subject, body); err != nil {
		log.Error().Err(err).Str("to", w.adminEmail).Msg("notificacion_worker: failed to send email")
		return
	}
	log.Info().Str("to", w.adminEmail).Str("subject", subject).Msg("notificacion_worker: email sent")
}
