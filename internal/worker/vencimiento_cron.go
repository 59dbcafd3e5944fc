package worker

// vencimiento_cron.go
// Background goroutine that periodically expires APROBADA proformas whose
// confirmed delivery date passed without conversion, and marks past-due
// receivables as vencidas. Runs independently of request handling.

import (
	"context"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"

	"github.com/rs/zerolog/log"
)

const vencimientoTickInterval = 1 * time.Hour

// ProformaExpirer is the slice of the proforma service the cron needs.
type ProformaExpirer interface {
	ExpirarVencidas(ctx context.Context, ahora time.Time) (int, error)
}

// VencimientoCronConfig holds the sweep dependencies.
type VencimientoCronConfig struct {
	Proformas ProformaExpirer
	Cuentas   repository.CuentaPorCobrarRepository
}

// StartVencimientoCron launches the expiry sweep. It ticks hourly and runs
// once immediately at startup; it respects the context for graceful shutdown.
func StartVencimientoCron(ctx context.Context, cfg VencimientoCronConfig) {
	go func() {
		ticker := time.NewTicker(vencimientoTickInterval)
		defer ticker.Stop()

		log.Info().Msg("vencimiento_cron: started")
		sweep(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg VencimientoCronConfig) {
	ahora := time.Now()

	expiradas, err := cfg.Proformas.ExpirarVencidas(ctx, ahora)
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: failed to expire proformas")
	} else if expiradas > 0 {
		log.Info().Int("count", expiradas).Msg("vencimiento_cron: proformas expiradas")
	}

	vencidas, err := cfg.Cuentas.MarcarVencidas(ctx, ahora)
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: failed to mark overdue receivables")
	} else if vencidas > 0 {
		log.Info().Int64("count", vencidas).Msg("vencimiento_cron: cuentas marcadas vencidas")
	}
}
