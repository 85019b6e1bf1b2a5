package fulfillment_test

import (
	"context"
	"testing"

	"github.com/jhoicas/logistics-engine/internal/application/fulfillment"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/infrastructure/memory"
	"github.com/jhoicas/logistics-engine/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	stock    *inventory.StockUseCase
	ledger   *inventory.LedgerUseCase
	orders   *fulfillment.OrderUseCase
	ships    *fulfillment.ShipmentUseCase
	purchase *fulfillment.PurchaseUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	stock := inventory.NewStockUseCase(store, log)
	alloc := inventory.NewAllocationUseCase(store, log)
	return &fixture{
		store:    store,
		stock:    stock,
		ledger:   inventory.NewLedgerUseCase(store.Movements(), store.Inventory()),
		orders:   fulfillment.NewOrderUseCase(store, alloc, log),
		ships:    fulfillment.NewShipmentUseCase(store, stock, log),
		purchase: fulfillment.NewPurchaseUseCase(store, stock, log),
	}
}

func (f *fixture) record(t *testing.T, warehouseID, productID string) *entity.InventoryRecord {
	t.Helper()
	rec, err := f.ledger.Record(context.Background(), warehouseID, productID)
	require.NoError(t, err)
	return rec
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseUseCase_CicloCompleto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	po, err := f.purchase.CreatePurchaseOrder(ctx, "sup-1", "wh-1", []fulfillment.PurchaseItemInput{
		{ProductID: "prod-1", Quantity: 20, UnitPrice: decimal.NewFromInt(5)},
		{ProductID: "prod-2", Quantity: 7, UnitPrice: decimal.NewFromInt(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseRequested, po.Status)

	require.NoError(t, f.purchase.Approve(ctx, po.ID))
	require.NoError(t, f.purchase.MarkShipped(ctx, po.ID))
	require.NoError(t, f.purchase.Receive(ctx, po.ID))

	got, err := f.purchase.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReceived, got.Status)
	require.NotNil(t, got.ReceivedDate)

	// La recepción materializa el inventario con una entrada por línea.
	assert.Equal(t, int64(20), f.record(t, "wh-1", "prod-1").Quantity)
	assert.Equal(t, int64(7), f.record(t, "wh-1", "prod-2").Quantity)

	history, err := f.ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.MovementInbound, history[0].MovementType)
	assert.Equal(t, entity.ReferencePurchase, history[0].ReferenceType)
	assert.Equal(t, po.ID, history[0].ReferenceID)
}

func TestPurchaseUseCase_TransicionesInvalidas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	po, err := f.purchase.CreatePurchaseOrder(ctx, "sup-1", "wh-1", []fulfillment.PurchaseItemInput{
		{ProductID: "prod-1", Quantity: 20},
	})
	require.NoError(t, err)

	// Recibir sin pasar por approved/shipped no es válido.
	require.ErrorIs(t, f.purchase.Receive(ctx, po.ID), domain.ErrInvalidTransition)
	assert.Equal(t, int64(0), f.record(t, "wh-1", "prod-1").Quantity,
		"la transición rechazada no toca inventario")

	require.NoError(t, f.purchase.Approve(ctx, po.ID))
	require.NoError(t, f.purchase.MarkShipped(ctx, po.ID))
	require.NoError(t, f.purchase.Receive(ctx, po.ID))

	// received es terminal: ni cancelar ni recibir de nuevo.
	require.ErrorIs(t, f.purchase.Cancel(ctx, po.ID), domain.ErrInvalidTransition)
	require.ErrorIs(t, f.purchase.Receive(ctx, po.ID), domain.ErrInvalidTransition)
	assert.Equal(t, int64(20), f.record(t, "wh-1", "prod-1").Quantity,
		"la recepción no se duplica")
}

func TestPurchaseUseCase_CancelarAntesDeRecibir(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	po, err := f.purchase.CreatePurchaseOrder(ctx, "sup-1", "wh-1", []fulfillment.PurchaseItemInput{
		{ProductID: "prod-1", Quantity: 20},
	})
	require.NoError(t, err)
	require.NoError(t, f.purchase.Cancel(ctx, po.ID))

	got, err := f.purchase.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCancelled, got.Status)
	assert.Equal(t, int64(0), f.record(t, "wh-1", "prod-1").Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos y asignación
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderUseCase_AsignacionCompletaTransiciona(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))

	order, err := f.orders.PlaceOrder(ctx, "cust-1", 0, []fulfillment.OrderItemInput{
		{ProductID: "prod-1", Quantity: 40, UnitPrice: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, order.Status)

	results, err := f.orders.AllocateOrder(ctx, order.ID, "wh-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(40), results[0].Allocated)

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderAllocated, got.Status)
	assert.Equal(t, int64(40), f.record(t, "wh-1", "prod-1").ReservedQty)
}

func TestOrderUseCase_AsignacionParcialQuedaPendiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.stock.Receive(ctx, "wh-1", "prod-1", 25, inventory.MovementRef{}))

	order, err := f.orders.PlaceOrder(ctx, "cust-1", 0, []fulfillment.OrderItemInput{
		{ProductID: "prod-1", Quantity: 40, UnitPrice: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)

	results, err := f.orders.AllocateOrder(ctx, order.ID, "wh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), results[0].Allocated)
	assert.Equal(t, int64(15), results[0].Remaining)

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, got.Status,
		"con demanda pendiente el pedido sigue en pending")

	// Llega stock y un reintento completa la asignación.
	require.NoError(t, f.stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	_, err = f.orders.AllocateOrder(ctx, order.ID, "wh-1")
	require.NoError(t, err)

	got, err = f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderAllocated, got.Status)
}

func TestOrderUseCase_CancelarLiberaReservas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))

	order, err := f.orders.PlaceOrder(ctx, "cust-1", 0, []fulfillment.OrderItemInput{
		{ProductID: "prod-1", Quantity: 40, UnitPrice: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	_, err = f.orders.AllocateOrder(ctx, order.ID, "wh-1")
	require.NoError(t, err)
	require.Equal(t, int64(40), f.record(t, "wh-1", "prod-1").ReservedQty)

	require.NoError(t, f.orders.CancelOrder(ctx, order.ID, "wh-1"))

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, got.Status)
	assert.Equal(t, int64(0), f.record(t, "wh-1", "prod-1").ReservedQty)
	assert.Equal(t, int64(100), f.record(t, "wh-1", "prod-1").Quantity)
}

func TestOrderUseCase_EntregaRequiereEnvios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))

	order, err := f.orders.PlaceOrder(ctx, "cust-1", 0, []fulfillment.OrderItemInput{
		{ProductID: "prod-1", Quantity: 10, UnitPrice: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	_, err = f.orders.AllocateOrder(ctx, order.ID, "wh-1")
	require.NoError(t, err)

	err = f.orders.MarkDelivered(ctx, order.ID)
	assert.Error(t, err, "sin envíos entregados el pedido no puede cerrarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Envíos
// ──────────────────────────────────────────────────────────────────────────────

// allocatedOrder deja un pedido de 40 unidades de prod-1 asignado contra wh-1
// con 100 en stock.
func allocatedOrder(t *testing.T, f *fixture) *entity.Order {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	order, err := f.orders.PlaceOrder(ctx, "cust-1", 0, []fulfillment.OrderItemInput{
		{ProductID: "prod-1", Quantity: 40, UnitPrice: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	_, err = f.orders.AllocateOrder(ctx, order.ID, "wh-1")
	require.NoError(t, err)
	return order
}

func TestShipmentUseCase_DespachoDescuentaStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := allocatedOrder(t, f)

	shipment, err := f.ships.CreateShipment(ctx, order.ID, "wh-1", "DHL", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 40},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ShipmentPreparing, shipment.Status)
	// Crear el envío no toca inventario.
	assert.Equal(t, int64(100), f.record(t, "wh-1", "prod-1").Quantity)

	require.NoError(t, f.ships.Dispatch(ctx, shipment.ID))

	rec := f.record(t, "wh-1", "prod-1")
	assert.Equal(t, int64(60), rec.Quantity)
	assert.Equal(t, int64(0), rec.ReservedQty)

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderShipped, got.Status)
	require.NotNil(t, got.ShippedDate)

	history, err := f.ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.MovementOutbound, history[1].MovementType)
	assert.Equal(t, int64(-40), history[1].Quantity)
	assert.Equal(t, shipment.ID, history[1].ReferenceID)
}

func TestShipmentUseCase_TechoDeAsignacionEnCreacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := allocatedOrder(t, f)

	// 41 > 40 asignadas: rechazo directo.
	_, err := f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 41},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientReservation)

	// Dos envíos que en conjunto superan la asignación: el segundo falla.
	_, err = f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 30},
	})
	require.NoError(t, err)
	_, err = f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 11},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientReservation)

	// El rechazo no deja rastro: inventario y libro intactos.
	rec := f.record(t, "wh-1", "prod-1")
	assert.Equal(t, int64(100), rec.Quantity)
	assert.Equal(t, int64(40), rec.ReservedQty)
}

func TestShipmentUseCase_ProductoFueraDelPedido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := allocatedOrder(t, f)

	_, err := f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-ajeno", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShipmentUseCase_PedidoSinAsignarNoSePuedeEnviar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.PlaceOrder(ctx, "cust-1", 0, []fulfillment.OrderItemInput{
		{ProductID: "prod-1", Quantity: 10, UnitPrice: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)

	_, err = f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 10},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestShipmentUseCase_FalloNoReponeStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := allocatedOrder(t, f)

	shipment, err := f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 40},
	})
	require.NoError(t, err)
	require.NoError(t, f.ships.Dispatch(ctx, shipment.ID))

	require.NoError(t, f.ships.MarkFailed(ctx, shipment.ID))

	// La mercancía ya salió: failed no revierte la salida.
	assert.Equal(t, int64(60), f.record(t, "wh-1", "prod-1").Quantity)
}

func TestShipmentUseCase_EntregaCierraPedido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := allocatedOrder(t, f)

	shipment, err := f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 40},
	})
	require.NoError(t, err)
	require.NoError(t, f.ships.Dispatch(ctx, shipment.ID))
	require.NoError(t, f.ships.MarkDelivered(ctx, shipment.ID))

	require.NoError(t, f.orders.MarkDelivered(ctx, order.ID))

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, got.Status)
	require.NotNil(t, got.DeliveredDate)
}

func TestShipmentUseCase_DespachoDobleInvalido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := allocatedOrder(t, f)

	shipment, err := f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 20},
	})
	require.NoError(t, err)
	require.NoError(t, f.ships.Dispatch(ctx, shipment.ID))

	err = f.ships.Dispatch(ctx, shipment.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(80), f.record(t, "wh-1", "prod-1").Quantity,
		"el doble despacho no descuenta dos veces")
}

func TestOrderUseCase_CancelarTrasDespachoParcial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := allocatedOrder(t, f)

	shipment, err := f.ships.CreateShipment(ctx, order.ID, "wh-1", "", []fulfillment.ShipmentItemInput{
		{ProductID: "prod-1", Quantity: 15},
	})
	require.NoError(t, err)
	require.NoError(t, f.ships.Dispatch(ctx, shipment.ID))

	// El pedido ya está en shipped: cancelar es una transición inválida.
	err = f.orders.CancelOrder(ctx, order.ID, "wh-1")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	rec := f.record(t, "wh-1", "prod-1")
	assert.Equal(t, int64(85), rec.Quantity)
	assert.Equal(t, int64(25), rec.ReservedQty, "la reserva restante sigue viva")
}

func TestOrderUseCase_PedidoInvalido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orders.PlaceOrder(ctx, "", 0, []fulfillment.OrderItemInput{{ProductID: "p", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.PlaceOrder(ctx, "cust-1", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.PlaceOrder(ctx, "cust-1", 0, []fulfillment.OrderItemInput{
		{ProductID: "prod-1", Quantity: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.GetOrder(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_RollbackDejaEstadoIntacto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.stock.Receive(ctx, "wh-1", "prod-1", 10, inventory.MovementRef{}))

	boom := assert.AnError
	err := f.store.Run(ctx, func(r inventory.TxRepos) error {
		rec, err := r.Inventory.GetForUpdate(ctx, "wh-1", "prod-1")
		require.NoError(t, err)
		require.NoError(t, rec.Receive(5))
		require.NoError(t, r.Inventory.Upsert(ctx, rec))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(10), f.record(t, "wh-1", "prod-1").Quantity,
		"el error en la transacción descarta todos los cambios")
}
