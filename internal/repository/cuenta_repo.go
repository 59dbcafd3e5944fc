package repository

import (
	"context"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CuentaPorCobrarRepository persists receivables. Payment application locks
// the row (FindByIDForUpdate) so saldo_pendiente can never go negative under
// concurrent partial payments.
type CuentaPorCobrarRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.CuentaPorCobrar) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CuentaPorCobrar, error)
	// FindByIDForUpdate reads the row with SELECT ... FOR UPDATE inside tx.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.CuentaPorCobrar, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, c *model.CuentaPorCobrar) error
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.CuentaPorCobrar, error)
	// SumPendienteCredito returns the live sum of saldo_pendiente over the
	// customer's open CREDITO-originated receivables.
	SumPendienteCredito(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error)
	// ContarPorCliente returns open and overdue account counts for dashboards.
	ContarPorCliente(ctx context.Context, clienteID uuid.UUID, hoy time.Time) (pendientes, vencidas int64, err error)
	// MarcarVencidas flips estado to vencida on rows past due with pending
	// balance. Returns the number of rows updated.
	MarcarVencidas(ctx context.Context, hoy time.Time) (int64, error)
}

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaPorCobrarRepository(db *gorm.DB) CuentaPorCobrarRepository { return &cuentaRepo{db: db} }

func (r *cuentaRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.CuentaPorCobrar) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *cuentaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CuentaPorCobrar, error) {
	var c model.CuentaPorCobrar
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cuentaRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.CuentaPorCobrar, error) {
	var c model.CuentaPorCobrar
	err := tx.WithContext(ctx).
		Clauses(forUpdate()).
		First(&c, id).Error
	return &c, err
}

func (r *cuentaRepo) UpdateTx(ctx context.Context, tx *gorm.DB, c *model.CuentaPorCobrar) error {
	return tx.WithContext(ctx).Save(c).Error
}

func (r *cuentaRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.CuentaPorCobrar, error) {
	var cuentas []model.CuentaPorCobrar
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("fecha_vencimiento ASC").
		Find(&cuentas).Error
	return cuentas, err
}

func (r *cuentaRepo) SumPendienteCredito(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.CuentaPorCobrar{}).
		Select("COALESCE(SUM(saldo_pendiente), 0)").
		Where("cliente_id = ? AND es_credito = true AND saldo_pendiente > 0", clienteID).
		Scan(&sum).Error
	return sum, err
}

func (r *cuentaRepo) ContarPorCliente(ctx context.Context, clienteID uuid.UUID, hoy time.Time) (int64, int64, error) {
	var pendientes, vencidas int64
	base := r.db.WithContext(ctx).Model(&model.CuentaPorCobrar{}).
		Where("cliente_id = ? AND saldo_pendiente > 0", clienteID)
	if err := base.Session(&gorm.Session{}).Count(&pendientes).Error; err != nil {
		return 0, 0, err
	}
	err := base.Session(&gorm.Session{}).
		Where("fecha_vencimiento < ?", hoy).
		Count(&vencidas).Error
	return pendientes, vencidas, err
}

func (r *cuentaRepo) MarcarVencidas(ctx context.Context, hoy time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CuentaPorCobrar{}).
		Where("saldo_pendiente > 0 AND fecha_vencimiento < ? AND estado <> ?", hoy, model.CuentaVencida).
		UpdateColumn("estado", model.CuentaVencida)
	return res.RowsAffected, res.Error
}
