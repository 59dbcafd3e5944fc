package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. They return a nil *gorm.DB so runTx runs the
// closure directly, and they serialize writes with a mutex — the same
// guarantee the conditional UPDATE / row lock gives the real repos.

var errNotFound = errors.New("not found")

// ── ClienteRepository ─────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) List(_ context.Context, _, _ int) ([]model.Cliente, int64, error) {
	out := make([]model.Cliente, 0, len(r.clientes))
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── CreditoRepository ─────────────────────────────────────────────────────────

type stubCreditoRepo struct {
	mu      sync.Mutex
	cuentas map[uuid.UUID]*model.CuentaCredito // keyed by cliente
}

func newStubCreditoRepo() *stubCreditoRepo {
	return &stubCreditoRepo{cuentas: make(map[uuid.UUID]*model.CuentaCredito)}
}

func (r *stubCreditoRepo) Create(_ context.Context, c *model.CuentaCredito) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, ok := r.cuentas[c.ClienteID]; ok {
		return errors.New("duplicate cliente_id")
	}
	r.cuentas[c.ClienteID] = c
	return nil
}

func (r *stubCreditoRepo) FindByClienteID(_ context.Context, clienteID uuid.UUID) (*model.CuentaCredito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cuentas[clienteID]
	if !ok {
		return nil, errNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubCreditoRepo) ReservarSaldo(_ context.Context, _ *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cuentas[clienteID]
	if !ok {
		return false, nil
	}
	if c.LimiteCreditoAprobado.Sub(c.SaldoUtilizado).LessThan(monto) {
		return false, nil
	}
	c.SaldoUtilizado = c.SaldoUtilizado.Add(monto)
	return true, nil
}

func (r *stubCreditoRepo) LiberarSaldo(_ context.Context, _ *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cuentas[clienteID]
	if !ok {
		return true, nil
	}
	if c.SaldoUtilizado.LessThan(monto) {
		c.SaldoUtilizado = decimal.Zero
		return true, nil
	}
	c.SaldoUtilizado = c.SaldoUtilizado.Sub(monto)
	return false, nil
}

func (r *stubCreditoRepo) List(_ context.Context, _, _ int) ([]model.CuentaCredito, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.CuentaCredito, 0, len(r.cuentas))
	for _, c := range r.cuentas {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCreditoRepo) DB() *gorm.DB { return nil }

var _ repository.CreditoRepository = (*stubCreditoRepo)(nil)

// ── CuentaPorCobrarRepository ─────────────────────────────────────────────────

type stubCuentaRepo struct {
	mu      sync.Mutex
	cuentas map[uuid.UUID]*model.CuentaPorCobrar
}

func newStubCuentaRepo() *stubCuentaRepo {
	return &stubCuentaRepo{cuentas: make(map[uuid.UUID]*model.CuentaPorCobrar)}
}

func (r *stubCuentaRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.CuentaPorCobrar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copia := *c
	r.cuentas[c.ID] = &copia
	return nil
}

func (r *stubCuentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CuentaPorCobrar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cuentas[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubCuentaRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.CuentaPorCobrar, error) {
	return r.FindByID(ctx, id)
}

func (r *stubCuentaRepo) UpdateTx(_ context.Context, _ *gorm.DB, c *model.CuentaPorCobrar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *c
	r.cuentas[c.ID] = &copia
	return nil
}

func (r *stubCuentaRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.CuentaPorCobrar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CuentaPorCobrar
	for _, c := range r.cuentas {
		if c.ClienteID == clienteID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCuentaRepo) SumPendienteCredito(_ context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, c := range r.cuentas {
		if c.ClienteID == clienteID && c.EsCredito && c.SaldoPendiente.IsPositive() {
			sum = sum.Add(c.SaldoPendiente)
		}
	}
	return sum, nil
}

func (r *stubCuentaRepo) ContarPorCliente(_ context.Context, clienteID uuid.UUID, hoy time.Time) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pendientes, vencidas int64
	for _, c := range r.cuentas {
		if c.ClienteID != clienteID || !c.SaldoPendiente.IsPositive() {
			continue
		}
		pendientes++
		if c.FechaVencimiento.Before(hoy) {
			vencidas++
		}
	}
	return pendientes, vencidas, nil
}

func (r *stubCuentaRepo) MarcarVencidas(_ context.Context, hoy time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.cuentas {
		if c.SaldoPendiente.IsPositive() && c.FechaVencimiento.Before(hoy) && c.Estado != model.CuentaVencida {
			c.Estado = model.CuentaVencida
			n++
		}
	}
	return n, nil
}

var _ repository.CuentaPorCobrarRepository = (*stubCuentaRepo)(nil)

// ── ProformaRepository ────────────────────────────────────────────────────────

type stubProformaRepo struct {
	mu        sync.Mutex
	proformas map[uuid.UUID]*model.Proforma
	seq       int
}

func newStubProformaRepo() *stubProformaRepo {
	return &stubProformaRepo{proformas: make(map[uuid.UUID]*model.Proforma)}
}

func (r *stubProformaRepo) Create(_ context.Context, p *model.Proforma) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proformas[p.ID] = p
	return nil
}

func (r *stubProformaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proforma, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proformas[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProformaRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Proforma, error) {
	return r.FindByID(ctx, id)
}

func (r *stubProformaRepo) UpdateTx(_ context.Context, _ *gorm.DB, p *model.Proforma) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proformas[p.ID] = p
	return nil
}

func (r *stubProformaRepo) List(_ context.Context, filter repository.ProformaFilter) ([]model.Proforma, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Proforma
	for _, p := range r.proformas {
		if filter.Estado != "" && filter.Estado != "all" && p.Estado != filter.Estado {
			continue
		}
		if filter.ClienteID != nil && p.ClienteID != *filter.ClienteID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProformaRepo) ListAprobadasVencidas(_ context.Context, hasta time.Time, _ int) ([]model.Proforma, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Proforma
	for _, p := range r.proformas {
		if p.Estado == model.ProformaAprobada && p.FechaEntregaConfirmada != nil && p.FechaEntregaConfirmada.Before(hasta) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProformaRepo) NextNumero(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("PRO-%06d", r.seq), nil
}

func (r *stubProformaRepo) ContarPorEstado(_ context.Context, estado string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.proformas {
		if p.Estado == estado {
			n++
		}
	}
	return n, nil
}

func (r *stubProformaRepo) DB() *gorm.DB { return nil }

var _ repository.ProformaRepository = (*stubProformaRepo)(nil)

// ── VentaRepository ───────────────────────────────────────────────────────────

type stubVentaRepo struct {
	mu     sync.Mutex
	ventas map[uuid.UUID]*model.Venta
	seq    int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for _, existente := range r.ventas {
		if existente.ProformaID == v.ProformaID {
			return errors.New("duplicate proforma_id")
		}
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, errNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── PagoRepository ────────────────────────────────────────────────────────────

type stubPagoRepo struct {
	mu    sync.Mutex
	pagos map[uuid.UUID]*model.Pago
}

func newStubPagoRepo() *stubPagoRepo {
	return &stubPagoRepo{pagos: make(map[uuid.UUID]*model.Pago)}
}

func (r *stubPagoRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Pago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos[p.ID] = p
	return nil
}

func (r *stubPagoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pagos[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubPagoRepo) ListByCuenta(_ context.Context, cuentaID uuid.UUID) ([]model.PagoAplicacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PagoAplicacion
	for _, p := range r.pagos {
		for _, a := range p.Aplicaciones {
			if a.CuentaPorCobrarID == cuentaID {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (r *stubPagoRepo) DB() *gorm.DB { return nil }

var _ repository.PagoRepository = (*stubPagoRepo)(nil)

// ── CierreRepository ──────────────────────────────────────────────────────────

type stubCierreRepo struct {
	mu      sync.Mutex
	cierres map[uuid.UUID]*model.CierreCaja
}

func newStubCierreRepo() *stubCierreRepo {
	return &stubCierreRepo{cierres: make(map[uuid.UUID]*model.CierreCaja)}
}

func (r *stubCierreRepo) Create(_ context.Context, c *model.CierreCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cierres[c.ID] = c
	return nil
}

func (r *stubCierreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cierres[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubCierreRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.CierreCaja, error) {
	return r.FindByID(ctx, id)
}

func (r *stubCierreRepo) UpdateTx(_ context.Context, _ *gorm.DB, c *model.CierreCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cierres[c.ID] = c
	return nil
}

func (r *stubCierreRepo) ListPendientes(_ context.Context) ([]model.CierreCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CierreCaja
	for _, c := range r.cierres {
		if c.Estado == model.CierrePendiente {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCierreRepo) Estadisticas(_ context.Context) (*repository.EstadisticasCierres, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repository.EstadisticasCierres{}
	for _, c := range r.cierres {
		switch c.Estado {
		case model.CierrePendiente:
			stats.Pendientes++
		case model.CierreConsolidado:
			stats.Consolidados++
		case model.CierreRechazado:
			stats.Rechazados++
		}
		if c.ConDiferencia() {
			stats.ConDiferencias++
		}
	}
	return stats, nil
}

func (r *stubCierreRepo) DB() *gorm.DB { return nil }

var _ repository.CierreRepository = (*stubCierreRepo)(nil)
