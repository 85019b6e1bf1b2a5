package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/infrastructure/memory"
	"github.com/jhoicas/logistics-engine/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, store *memory.Store, qty int64) *entity.Order {
	t.Helper()
	order := &entity.Order{
		ID:         "ord-1",
		CustomerID: "cust-1",
		Status:     entity.OrderPending,
		OrderDate:  time.Now(),
		Items: []*entity.OrderItem{{
			ID:        "item-1",
			OrderID:   "ord-1",
			ProductID: "prod-1",
			Quantity:  qty,
			UnitPrice: decimal.NewFromInt(10),
		}},
	}
	err := store.Run(context.Background(), func(r inventory.TxRepos) error {
		return r.Orders.Create(context.Background(), order)
	})
	require.NoError(t, err)
	return order
}

func TestAllocationUseCase_AsignacionCompleta(t *testing.T) {
	ctx := context.Background()
	store, stock, ledger := newStockFixture(t)
	alloc := inventory.NewAllocationUseCase(store, logger.Nop())
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	seedOrder(t, store, 40)

	res, err := alloc.AllocateItem(ctx, "ord-1", "item-1", "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), res.Requested)
	assert.Equal(t, int64(40), res.Allocated)
	assert.Equal(t, int64(0), res.Remaining)

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), rec.ReservedQty)
}

func TestAllocationUseCase_AsignacionParcial(t *testing.T) {
	ctx := context.Background()
	store, stock, ledger := newStockFixture(t)
	alloc := inventory.NewAllocationUseCase(store, logger.Nop())
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 25, inventory.MovementRef{}))
	seedOrder(t, store, 40)

	// Política parcial: se reserva lo disponible y se reporta el restante.
	res, err := alloc.AllocateItem(ctx, "ord-1", "item-1", "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), res.Requested)
	assert.Equal(t, int64(25), res.Allocated)
	assert.Equal(t, int64(15), res.Remaining)

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Available(), "todo el disponible quedó reservado")

	// Reintento sin stock nuevo: asigna cero, sin error.
	res, err = alloc.AllocateItem(ctx, "ord-1", "item-1", "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Requested)
	assert.Equal(t, int64(0), res.Allocated)
	assert.Equal(t, int64(15), res.Remaining)

	// Llega stock: la asignación se completa en una llamada posterior.
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 50, inventory.MovementRef{}))
	res, err = alloc.AllocateItem(ctx, "ord-1", "item-1", "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Allocated)
	assert.Equal(t, int64(0), res.Remaining)
}

func TestAllocationUseCase_LineaYaCompletaEsNoOp(t *testing.T) {
	ctx := context.Background()
	store, stock, _ := newStockFixture(t)
	alloc := inventory.NewAllocationUseCase(store, logger.Nop())
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	seedOrder(t, store, 10)

	_, err := alloc.AllocateItem(ctx, "ord-1", "item-1", "wh-1")
	require.NoError(t, err)

	res, err := alloc.AllocateItem(ctx, "ord-1", "item-1", "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Requested)
	assert.Equal(t, int64(0), res.Allocated)
}

func TestAllocationUseCase_PedidoInexistente(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStockFixture(t)
	alloc := inventory.NewAllocationUseCase(store, logger.Nop())

	_, err := alloc.AllocateItem(ctx, "no-existe", "item-1", "wh-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllocationUseCase_DeallocateLiberaLoNoDespachado(t *testing.T) {
	ctx := context.Background()
	store, stock, ledger := newStockFixture(t)
	alloc := inventory.NewAllocationUseCase(store, logger.Nop())
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	seedOrder(t, store, 40)

	_, err := alloc.AllocateItem(ctx, "ord-1", "item-1", "wh-1")
	require.NoError(t, err)

	// 15 ya despachadas: solo se liberan las 25 restantes.
	require.NoError(t, alloc.DeallocateItem(ctx, "ord-1", "item-1", "wh-1", 15))

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), rec.ReservedQty)

	order, err := store.Orders().GetByID(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), order.Items[0].AllocatedQty,
		"la asignación queda congelada en lo despachado")
}

func TestAuditUseCase_RegistraDiscrepanciaSinMutarInventario(t *testing.T) {
	ctx := context.Background()
	store, stock, ledger := newStockFixture(t)
	audit := inventory.NewAuditUseCase(store, logger.Nop())
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))

	a, err := audit.Audit(ctx, "wh-1", "prod-1", 97, "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(100), a.SystemQty)
	assert.Equal(t, int64(97), a.PhysicalQty)
	assert.Equal(t, int64(-3), a.Discrepancy)

	// Observacional: el inventario vivo no cambia.
	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.Quantity)

	audits, err := store.Audits().ListByKey(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, audits, 1)
}

func TestAuditUseCase_ParSinRegistroCuentaComoCero(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStockFixture(t)
	audit := inventory.NewAuditUseCase(store, logger.Nop())

	a, err := audit.Audit(ctx, "wh-1", "prod-nunca-visto", 7, "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.SystemQty)
	assert.Equal(t, int64(7), a.Discrepancy)
}

func TestAuditUseCase_ConteoNegativoInvalido(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStockFixture(t)
	audit := inventory.NewAuditUseCase(store, logger.Nop())

	_, err := audit.Audit(ctx, "wh-1", "prod-1", -1, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
