package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/dto"
	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creditoFixture struct {
	svc      CreditoService
	repo     *stubCreditoRepo
	cuentas  *stubCuentaRepo
	clientes *stubClienteRepo
}

func newCreditoFixture() *creditoFixture {
	f := &creditoFixture{
		repo:     newStubCreditoRepo(),
		cuentas:  newStubCuentaRepo(),
		clientes: newStubClienteRepo(),
	}
	f.svc = NewCreditoService(f.repo, f.cuentas, f.clientes)
	return f
}

func (f *creditoFixture) cliente(conCredito bool) *model.Cliente {
	c := &model.Cliente{
		ID:                uuid.New(),
		Nombre:            "Comercial Andina",
		PuedeTenerCredito: conCredito,
		Activo:            true,
	}
	f.clientes.clientes[c.ID] = c
	return c
}

func (f *creditoFixture) otorgar(t *testing.T, clienteID uuid.UUID, limite string) {
	t.Helper()
	_, err := f.svc.Otorgar(context.Background(), dto.OtorgarCreditoRequest{
		ClienteID: clienteID.String(),
		Limite:    d(limite),
	})
	require.NoError(t, err)
}

func TestOtorgarCredito(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(true)

	resp, err := f.svc.Otorgar(context.Background(), dto.OtorgarCreditoRequest{
		ClienteID: cliente.ID.String(),
		Limite:    d("5000.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Limite.Equal(d("5000.00")))
	assert.True(t, resp.Utilizado.IsZero())
	assert.Equal(t, model.CreditoDisponible, resp.Estado)

	// A second grant is a no-op returning the existing account.
	resp2, err := f.svc.Otorgar(context.Background(), dto.OtorgarCreditoRequest{
		ClienteID: cliente.ID.String(),
		Limite:    d("9999.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp2.Limite.Equal(d("5000.00")))
}

func TestOtorgarCreditoClienteNoHabilitado(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(false)

	_, err := f.svc.Otorgar(context.Background(), dto.OtorgarCreditoRequest{
		ClienteID: cliente.ID.String(),
		Limite:    d("5000.00"),
	})
	assert.Equal(t, KindClienteSinCredito, KindOf(err))
}

func TestOtorgarCreditoClienteInexistente(t *testing.T) {
	f := newCreditoFixture()
	_, err := f.svc.Otorgar(context.Background(), dto.OtorgarCreditoRequest{
		ClienteID: uuid.NewString(),
		Limite:    d("5000.00"),
	})
	assert.Equal(t, KindNoEncontrado, KindOf(err))
}

func TestEstadoSinCuenta(t *testing.T) {
	f := newCreditoFixture()
	_, err := f.svc.Estado(context.Background(), uuid.New())
	assert.Equal(t, KindClienteSinCredito, KindOf(err))
}

// The derived figure (sum of open credit receivables) wins over the cached
// counter when they diverge.
func TestEstadoReconciliaUtilizacion(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(true)
	f.otorgar(t, cliente.ID, "1000.00")

	// Cache says 0 but a credit receivable carries 600 pending.
	require.NoError(t, f.cuentas.CreateTx(context.Background(), nil, &model.CuentaPorCobrar{
		VentaID:          uuid.New(),
		ClienteID:        cliente.ID,
		MontoOriginal:    d("600.00"),
		SaldoPendiente:   d("600.00"),
		EsCredito:        true,
		FechaVencimiento: time.Now().AddDate(0, 0, 30),
		Estado:           model.CuentaPendiente,
	}))

	resp, err := f.svc.Estado(context.Background(), cliente.ID)
	require.NoError(t, err)
	assert.True(t, resp.Utilizado.Equal(d("600.00")))
	assert.True(t, resp.Disponible.Equal(d("400.00")))
	assert.Equal(t, model.CreditoEnUso, resp.Estado)
	assert.Equal(t, int64(1), resp.CuentasPendientes)
}

func TestEstadoIgnoraCuentasNoCredito(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(true)
	f.otorgar(t, cliente.ID, "1000.00")

	// A MEDIO_MEDIO remainder does not consume the credit line.
	require.NoError(t, f.cuentas.CreateTx(context.Background(), nil, &model.CuentaPorCobrar{
		VentaID:          uuid.New(),
		ClienteID:        cliente.ID,
		MontoOriginal:    d("500.00"),
		SaldoPendiente:   d("500.00"),
		EsCredito:        false,
		FechaVencimiento: time.Now().AddDate(0, 0, 7),
		Estado:           model.CuentaPendiente,
	}))

	resp, err := f.svc.Estado(context.Background(), cliente.ID)
	require.NoError(t, err)
	assert.True(t, resp.Utilizado.IsZero())
	assert.Equal(t, int64(1), resp.CuentasPendientes)
}

func TestReservarTx(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(true)
	f.otorgar(t, cliente.ID, "1000.00")

	ctx := context.Background()
	require.NoError(t, f.svc.ReservarTx(ctx, nil, cliente.ID, d("700.00")))

	err := f.svc.ReservarTx(ctx, nil, cliente.ID, d("400.00"))
	assert.Equal(t, KindCreditoInsuficiente, KindOf(err))

	// Exact remaining balance still fits.
	require.NoError(t, f.svc.ReservarTx(ctx, nil, cliente.ID, d("300.00")))
}

func TestReservarTxSinCuenta(t *testing.T) {
	f := newCreditoFixture()
	err := f.svc.ReservarTx(context.Background(), nil, uuid.New(), d("100.00"))
	assert.Equal(t, KindClienteSinCredito, KindOf(err))
}

// Two concurrent reservations that jointly exceed the limit: exactly one wins.
func TestReservarTxConcurrente(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(true)
	f.otorgar(t, cliente.ID, "1000.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.ReservarTx(context.Background(), nil, cliente.ID, d("600.00"))
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		} else {
			assert.Equal(t, KindCreditoInsuficiente, KindOf(err))
		}
	}
	assert.Equal(t, 1, exitos)

	cuenta, err := f.repo.FindByClienteID(context.Background(), cliente.ID)
	require.NoError(t, err)
	assert.True(t, cuenta.SaldoUtilizado.Equal(d("600.00")))
}

func TestLiberarTx(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(true)
	f.otorgar(t, cliente.ID, "1000.00")

	ctx := context.Background()
	require.NoError(t, f.svc.ReservarTx(ctx, nil, cliente.ID, d("800.00")))
	require.NoError(t, f.svc.LiberarTx(ctx, nil, cliente.ID, d("300.00")))

	cuenta, err := f.repo.FindByClienteID(ctx, cliente.ID)
	require.NoError(t, err)
	assert.True(t, cuenta.SaldoUtilizado.Equal(d("500.00")))
}

// Releasing more than is reserved floors the counter at zero instead of
// letting it go negative.
func TestLiberarTxPiso(t *testing.T) {
	f := newCreditoFixture()
	cliente := f.cliente(true)
	f.otorgar(t, cliente.ID, "1000.00")

	ctx := context.Background()
	require.NoError(t, f.svc.ReservarTx(ctx, nil, cliente.ID, d("200.00")))
	require.NoError(t, f.svc.LiberarTx(ctx, nil, cliente.ID, d("350.00")))

	cuenta, err := f.repo.FindByClienteID(ctx, cliente.ID)
	require.NoError(t, err)
	assert.True(t, cuenta.SaldoUtilizado.IsZero())
}
