package repository

import (
	"context"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PagoRepository persists pagos and their allocations. Payments are
// append-only: there is deliberately no Update or Delete.
type PagoRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	ListByCuenta(ctx context.Context, cuentaID uuid.UUID) ([]model.PagoAplicacion, error)
	DB() *gorm.DB
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

func (r *pagoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).Preload("Aplicaciones").First(&p, id).Error
	return &p, err
}

func (r *pagoRepo) ListByCuenta(ctx context.Context, cuentaID uuid.UUID) ([]model.PagoAplicacion, error) {
	var aplicaciones []model.PagoAplicacion
	err := r.db.WithContext(ctx).
		Where("cuenta_por_cobrar_id = ?", cuentaID).
		Order("created_at ASC").
		Find(&aplicaciones).Error
	return aplicaciones, err
}
