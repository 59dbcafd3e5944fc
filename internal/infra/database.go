package infra

import (
	"fmt"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates all tables and applies the SQL patches.
// Idempotent: safe to run on every startup and from integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.CuentaCredito{},
		&model.Proforma{},
		&model.ProformaDetalle{},
		&model.Venta{},
		&model.CuentaPorCobrar{},
		&model.Pago{},
		&model.PagoAplicacion{},
		&model.CierreCaja{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// express. Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Correlative document numbering. A sequence survives rollbacks, so
		// numbers may have gaps but can never collide under concurrency.
		`CREATE SEQUENCE IF NOT EXISTS proformas_numero_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS ventas_numero_seq START 1`,
		// Partial index for the open-receivables queries (saldo > 0 rows only).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cuentas_por_cobrar_abiertas') THEN
		    CREATE INDEX idx_cuentas_por_cobrar_abiertas
		        ON cuentas_por_cobrar (cliente_id, fecha_vencimiento)
		        WHERE saldo_pendiente > 0;
		  END IF;
		END $$`,
		// Partial index for the expiry sweep over approved proformas.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_proformas_aprobadas_vencimiento') THEN
		    CREATE INDEX idx_proformas_aprobadas_vencimiento
		        ON proformas (fecha_entrega_confirmada)
		        WHERE estado = 'APROBADA';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
