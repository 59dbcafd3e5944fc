package repository

import (
	"context"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	List(ctx context.Context, page, limit int) ([]model.Cliente, int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) List(ctx context.Context, page, limit int) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("activo = true")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nombre ASC").Offset((page - 1) * limit).Limit(limit).Find(&clientes).Error
	return clientes, total, err
}
