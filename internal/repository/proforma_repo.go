package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProformaFilter struct {
	Estado    string
	ClienteID *uuid.UUID
	Page      int
	Limit     int
}

type ProformaRepository interface {
	Create(ctx context.Context, p *model.Proforma) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proforma, error)
	// FindByIDForUpdate locks the proforma row for a state transition.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Proforma, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Proforma) error
	List(ctx context.Context, filter ProformaFilter) ([]model.Proforma, int64, error)
	// ListAprobadasVencidas returns APROBADA proformas whose confirmed delivery
	// date has passed without conversion, for the expiry sweep.
	ListAprobadasVencidas(ctx context.Context, hasta time.Time, limit int) ([]model.Proforma, error)
	NextNumero(ctx context.Context) (string, error)
	ContarPorEstado(ctx context.Context, estado string) (int64, error)
	DB() *gorm.DB
}

type proformaRepo struct{ db *gorm.DB }

func NewProformaRepository(db *gorm.DB) ProformaRepository { return &proformaRepo{db: db} }

func (r *proformaRepo) DB() *gorm.DB { return r.db }

func (r *proformaRepo) Create(ctx context.Context, p *model.Proforma) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proformaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proforma, error) {
	var p model.Proforma
	err := r.db.WithContext(ctx).Preload("Detalles").Preload("Cliente").First(&p, id).Error
	return &p, err
}

func (r *proformaRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Proforma, error) {
	var p model.Proforma
	if err := tx.WithContext(ctx).Clauses(forUpdate()).First(&p, id).Error; err != nil {
		return nil, err
	}
	// Associations load after the lock is held
	err := tx.WithContext(ctx).Preload("Detalles").Preload("Cliente").First(&p, id).Error
	return &p, err
}

func (r *proformaRepo) UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Proforma) error {
	return tx.WithContext(ctx).Save(p).Error
}

func (r *proformaRepo) List(ctx context.Context, filter ProformaFilter) ([]model.Proforma, int64, error) {
	var proformas []model.Proforma
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Proforma{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ClienteID != nil {
		q = q.Where("cliente_id = ?", *filter.ClienteID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Detalles").Preload("Cliente").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&proformas).Error
	return proformas, total, err
}

func (r *proformaRepo) ListAprobadasVencidas(ctx context.Context, hasta time.Time, limit int) ([]model.Proforma, error) {
	var proformas []model.Proforma
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_entrega_confirmada IS NOT NULL AND fecha_entrega_confirmada < ?",
			model.ProformaAprobada, hasta).
		Limit(limit).
		Find(&proformas).Error
	return proformas, err
}

func (r *proformaRepo) NextNumero(ctx context.Context) (string, error) {
	// PostgreSQL sequence keeps numbering atomic across operators
	var num int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('proformas_numero_seq')").Scan(&num).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PRO-%06d", num), nil
}

func (r *proformaRepo) ContarPorEstado(ctx context.Context, estado string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Proforma{}).Where("estado = ?", estado).Count(&total).Error
	return total, err
}
