package service

import (
	"context"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, page, limit int) ([]dto.ClienteResponse, int64, error)
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		Nombre:            req.Nombre,
		NIT:               req.NIT,
		Telefono:          req.Telefono,
		Email:             req.Email,
		PuedeTenerCredito: req.PuedeTenerCredito,
		LimiteCredito:     req.LimiteCredito,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, newError(KindNoEncontrado, "cliente no encontrado")
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, page, limit int) ([]dto.ClienteResponse, int64, error) {
	clientes, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = *clienteToResponse(&clientes[i])
	}
	return resp, total, nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:                c.ID.String(),
		Nombre:            c.Nombre,
		NIT:               c.NIT,
		Telefono:          c.Telefono,
		Email:             c.Email,
		PuedeTenerCredito: c.PuedeTenerCredito,
		LimiteCredito:     c.LimiteCredito,
		Activo:            c.Activo,
	}
}
