package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/config"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/infra"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/router"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/service"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async notifications and the expiry
	// sweep. Worker handlers are wired here (composition root) so that the
	// pool has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	workerHandlers := &worker.Handlers{
		Notificacion: worker.NewNotificacionWorker(mailer, cfg.AdminEmail),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Expiry cron: APROBADA proformas past delivery date → VENCIDA, plus the
	// overdue flag sweep on cuentas por cobrar.
	clienteRepo := repository.NewClienteRepository(db)
	creditoRepo := repository.NewCreditoRepository(db)
	cuentaRepo := repository.NewCuentaPorCobrarRepository(db)
	proformaRepo := repository.NewProformaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	creditoSvc := service.NewCreditoService(creditoRepo, cuentaRepo, clienteRepo)
	proformaSvc := service.NewProformaService(proformaRepo, clienteRepo, ventaRepo, cuentaRepo, creditoSvc, dispatcher)
	worker.StartVencimientoCron(ctx, worker.VencimientoCronConfig{
		Proformas: proformaSvc,
		Cuentas:   cuentaRepo,
	})

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("distribuidora backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
