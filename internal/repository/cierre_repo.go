package repository

import (
	"context"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstadisticasCierres aggregates closure counts for the admin dashboard.
type EstadisticasCierres struct {
	Pendientes     int64 `json:"pendientes"`
	Consolidados   int64 `json:"consolidados"`
	Rechazados     int64 `json:"rechazados"`
	ConDiferencias int64 `json:"con_diferencias"`
}

type CierreRepository interface {
	Create(ctx context.Context, c *model.CierreCaja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error)
	// FindByIDForUpdate locks the row so the terminal transition happens once.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.CierreCaja, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, c *model.CierreCaja) error
	ListPendientes(ctx context.Context) ([]model.CierreCaja, error)
	Estadisticas(ctx context.Context) (*EstadisticasCierres, error)
	DB() *gorm.DB
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) DB() *gorm.DB { return r.db }

func (r *cierreRepo) Create(ctx context.Context, c *model.CierreCaja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cierreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).Preload("Usuario").First(&c, id).Error
	return &c, err
}

func (r *cierreRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := tx.WithContext(ctx).Clauses(forUpdate()).First(&c, id).Error
	return &c, err
}

func (r *cierreRepo) UpdateTx(ctx context.Context, tx *gorm.DB, c *model.CierreCaja) error {
	return tx.WithContext(ctx).Save(c).Error
}

func (r *cierreRepo) ListPendientes(ctx context.Context) ([]model.CierreCaja, error) {
	var cierres []model.CierreCaja
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Where("estado = ?", model.CierrePendiente).
		Order("fecha ASC").
		Find(&cierres).Error
	return cierres, err
}

func (r *cierreRepo) Estadisticas(ctx context.Context) (*EstadisticasCierres, error) {
	stats := &EstadisticasCierres{}
	counts := []struct {
		estado string
		dst    *int64
	}{
		{model.CierrePendiente, &stats.Pendientes},
		{model.CierreConsolidado, &stats.Consolidados},
		{model.CierreRechazado, &stats.Rechazados},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(&model.CierreCaja{}).
			Where("estado = ?", c.estado).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	err := r.db.WithContext(ctx).Model(&model.CierreCaja{}).
		Where("diferencia <> 0").Count(&stats.ConDiferencias).Error
	return stats, err
}
