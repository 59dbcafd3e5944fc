package repository

import (
	"context"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditoRepository persists cuentas de crédito. ReservarSaldo and
// LiberarSaldo are the ONLY writers of saldo_utilizado; both are conditional
// single-statement updates so concurrent callers serialize on the row and a
// stale read can never over-commit the limit.
type CreditoRepository interface {
	Create(ctx context.Context, c *model.CuentaCredito) error
	FindByClienteID(ctx context.Context, clienteID uuid.UUID) (*model.CuentaCredito, error)
	// ReservarSaldo atomically increments saldo_utilizado iff the available
	// balance covers monto. Returns false when the check fails (insufficient
	// balance or no account).
	ReservarSaldo(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) (bool, error)
	// LiberarSaldo atomically decrements saldo_utilizado. When the decrement
	// would go negative it floors at 0 and returns floored=true so the caller
	// can flag the upstream invariant violation.
	LiberarSaldo(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) (floored bool, err error)
	List(ctx context.Context, page, limit int) ([]model.CuentaCredito, int64, error)
	DB() *gorm.DB
}

type creditoRepo struct{ db *gorm.DB }

func NewCreditoRepository(db *gorm.DB) CreditoRepository { return &creditoRepo{db: db} }

func (r *creditoRepo) DB() *gorm.DB { return r.db }

func (r *creditoRepo) Create(ctx context.Context, c *model.CuentaCredito) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *creditoRepo) FindByClienteID(ctx context.Context, clienteID uuid.UUID) (*model.CuentaCredito, error) {
	var c model.CuentaCredito
	err := r.db.WithContext(ctx).Preload("Cliente").Where("cliente_id = ?", clienteID).First(&c).Error
	return &c, err
}

func (r *creditoRepo) ReservarSaldo(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.CuentaCredito{}).
		Where("cliente_id = ? AND limite_credito_aprobado - saldo_utilizado >= ?", clienteID, monto).
		UpdateColumn("saldo_utilizado", gorm.Expr("saldo_utilizado + ?", monto))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *creditoRepo) LiberarSaldo(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.CuentaCredito{}).
		Where("cliente_id = ? AND saldo_utilizado >= ?", clienteID, monto).
		UpdateColumn("saldo_utilizado", gorm.Expr("saldo_utilizado - ?", monto))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return false, nil
	}
	// Decrement would underflow — zero the counter and report it.
	res = tx.WithContext(ctx).Model(&model.CuentaCredito{}).
		Where("cliente_id = ?", clienteID).
		UpdateColumn("saldo_utilizado", decimal.Zero)
	return true, res.Error
}

func (r *creditoRepo) List(ctx context.Context, page, limit int) ([]model.CuentaCredito, int64, error) {
	var cuentas []model.CuentaCredito
	var total int64
	q := r.db.WithContext(ctx).Model(&model.CuentaCredito{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Cliente").
		Order("created_at ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&cuentas).Error
	return cuentas, total, err
}
