package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/infrastructure/memory"
	"github.com/jhoicas/logistics-engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockFixture(t *testing.T) (*memory.Store, *inventory.StockUseCase, *inventory.LedgerUseCase) {
	t.Helper()
	store := memory.NewStore()
	stock := inventory.NewStockUseCase(store, logger.Nop())
	ledger := inventory.NewLedgerUseCase(store.Movements(), store.Inventory())
	return store, stock, ledger
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante del libro: la suma con signo de los movimientos de un par debe
// coincidir con InventoryRecord.Quantity después de cualquier secuencia de
// operaciones confirmadas.
// ──────────────────────────────────────────────────────────────────────────────

func requireLedgerMatchesRecord(t *testing.T, ledger *inventory.LedgerUseCase, warehouseID, productID string) {
	t.Helper()
	ctx := context.Background()
	rec, err := ledger.Record(ctx, warehouseID, productID)
	require.NoError(t, err)
	sum, err := ledger.SumSince(ctx, warehouseID, productID, time.Time{})
	require.NoError(t, err)
	require.Equal(t, rec.Quantity, sum,
		"la suma del libro debe coincidir con la cantidad del registro")
}

func TestStockUseCase_ReceiveCreaRegistroYMovimiento(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)

	err := stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{Type: entity.ReferencePurchase, ID: "po-1"})
	require.NoError(t, err)

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.Quantity)
	assert.Equal(t, int64(0), rec.ReservedQty)

	history, err := ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entity.MovementInbound, history[0].MovementType)
	assert.Equal(t, int64(100), history[0].Quantity)
	assert.Equal(t, "po-1", history[0].ReferenceID)

	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
}

func TestStockUseCase_ReceiveDuplicadoSumaDosVeces(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)

	// Sin deduplicación: el reintento del caller es su responsabilidad.
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 50, inventory.MovementRef{}))
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 50, inventory.MovementRef{}))

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.Quantity)
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
}

func TestStockUseCase_ReservaEstricta(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))

	require.NoError(t, stock.Reserve(ctx, "wh-1", "prod-1", 60))

	// Solo quedan 40 disponibles: reservar 50 falla completo, sin parcial.
	err := stock.Reserve(ctx, "wh-1", "prod-1", 50)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(60), rec.ReservedQty)
	assert.Equal(t, int64(40), rec.Available())

	// La reserva no toca la cantidad física ni anexa movimientos.
	history, err := ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "solo el inbound inicial")
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
}

func TestStockUseCase_CommitConsumeReservaYAnexaSalida(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	require.NoError(t, stock.Reserve(ctx, "wh-1", "prod-1", 60))

	require.NoError(t, stock.CommitOutbound(ctx, "wh-1", "prod-1", 60, inventory.MovementRef{Type: entity.ReferenceShipment, ID: "sh-1"}))

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), rec.Quantity)
	assert.Equal(t, int64(0), rec.ReservedQty)

	history, err := ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.MovementOutbound, history[1].MovementType)
	assert.Equal(t, int64(-60), history[1].Quantity, "las salidas van con signo negativo")
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
}

func TestStockUseCase_CommitSinReservaFallaSinEfectos(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	require.NoError(t, stock.Reserve(ctx, "wh-1", "prod-1", 10))

	err := stock.CommitOutbound(ctx, "wh-1", "prod-1", 20, inventory.MovementRef{})
	require.ErrorIs(t, err, domain.ErrInsufficientReservation)

	// Rollback total: ni la cantidad ni el libro cambiaron.
	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.Quantity)
	assert.Equal(t, int64(10), rec.ReservedQty)
	history, err := ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStockUseCase_AdjustRegistraCorreccion(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))

	require.NoError(t, stock.Adjust(ctx, "wh-1", "prod-1", -3, "faltante en conteo físico"))

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(97), rec.Quantity)

	history, err := ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.MovementAdjustment, history[1].MovementType)
	assert.Equal(t, "faltante en conteo físico", history[1].Notes)
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
}

func TestStockUseCase_AdjustPorDebajoDeLaReservaFalla(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	require.NoError(t, stock.Reserve(ctx, "wh-1", "prod-1", 80))

	err := stock.Adjust(ctx, "wh-1", "prod-1", -30, "conteo")
	require.ErrorIs(t, err, domain.ErrInvalidState)
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
}

func TestStockUseCase_TransferMueveDisponible(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	require.NoError(t, stock.Reserve(ctx, "wh-1", "prod-1", 70))

	// Disponible en origen: 30. Trasladar 40 debe fallar.
	err := stock.Transfer(ctx, "wh-1", "wh-2", "prod-1", 40, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, stock.Transfer(ctx, "wh-1", "wh-2", "prod-1", 30, "rebalanceo"))

	origin, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(70), origin.Quantity)
	assert.Equal(t, int64(70), origin.ReservedQty, "la reserva no viaja con el traslado")

	dest, err := ledger.Record(ctx, "wh-2", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), dest.Quantity)

	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
	requireLedgerMatchesRecord(t, ledger, "wh-2", "prod-1")
}

func TestStockUseCase_TransferMismaBodegaInvalido(t *testing.T) {
	ctx := context.Background()
	_, stock, _ := newStockFixture(t)
	err := stock.Transfer(ctx, "wh-1", "wh-1", "prod-1", 10, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestStockUseCase_ReservaConcurrenteSinSobregiro lanza reservas concurrentes
// contra el mismo par y verifica que nunca se reserva más que el stock.
func TestStockUseCase_ReservaConcurrenteSinSobregiro(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))

	const workers = 25
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = stock.Reserve(ctx, "wh-1", "prod-1", 10)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 10, ok, "con 100 unidades caben exactamente 10 reservas de 10")

	rec, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), rec.ReservedQty)
	assert.Equal(t, int64(0), rec.Available())
}

// TestStockUseCase_RecepcionConcurrenteEnParNuevo lanza dos primeras
// recepciones concurrentes sobre un par sin registro previo: ninguna puede
// partir del registro en cero y pisar a la otra; la cantidad final debe ser
// la suma de ambas y coincidir con el libro.
func TestStockUseCase_RecepcionConcurrenteEnParNuevo(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)

	const workers = 2
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, stock.Receive(ctx, "wh-1", "prod-nuevo", 20, inventory.MovementRef{}))
		}()
	}
	wg.Wait()

	rec, err := ledger.Record(ctx, "wh-1", "prod-nuevo")
	require.NoError(t, err)
	assert.Equal(t, int64(40), rec.Quantity,
		"las dos primeras recepciones deben acumularse, no pisarse")

	history, err := ledger.History(ctx, "wh-1", "prod-nuevo", 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-nuevo")
}

// TestStockUseCase_TransferenciasOpuestasConcurrentes cruza traslados en
// direcciones opuestas sobre el mismo producto y verifica conservación: el
// total entre bodegas no cambia y cada libro cuadra con su registro.
func TestStockUseCase_TransferenciasOpuestasConcurrentes(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 100, inventory.MovementRef{}))
	require.NoError(t, stock.Receive(ctx, "wh-2", "prod-1", 100, inventory.MovementRef{}))

	const rounds = 10
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			require.NoError(t, stock.Transfer(ctx, "wh-1", "wh-2", "prod-1", 3, ""))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			require.NoError(t, stock.Transfer(ctx, "wh-2", "wh-1", "prod-1", 3, ""))
		}
	}()
	wg.Wait()

	a, err := ledger.Record(ctx, "wh-1", "prod-1")
	require.NoError(t, err)
	b, err := ledger.Record(ctx, "wh-2", "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), a.Quantity+b.Quantity,
		"los traslados cruzados conservan el total entre bodegas")
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
	requireLedgerMatchesRecord(t, ledger, "wh-2", "prod-1")
}

// TestLedgerUseCase_HistorialDevuelveCopias verifica que mutar un movimiento
// devuelto por el historial no altera el libro.
func TestLedgerUseCase_HistorialDevuelveCopias(t *testing.T) {
	ctx := context.Background()
	_, stock, ledger := newStockFixture(t)
	require.NoError(t, stock.Receive(ctx, "wh-1", "prod-1", 30, inventory.MovementRef{}))

	history, err := ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	history[0].Quantity = -999

	again, err := ledger.History(ctx, "wh-1", "prod-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, int64(30), again[0].Quantity,
		"el libro es inmutable frente a mutaciones del caller")
	requireLedgerMatchesRecord(t, ledger, "wh-1", "prod-1")
}

func TestStockUseCase_EntradasInvalidas(t *testing.T) {
	ctx := context.Background()
	_, stock, _ := newStockFixture(t)

	assert.ErrorIs(t, stock.Receive(ctx, "", "prod-1", 10, inventory.MovementRef{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, stock.Receive(ctx, "wh-1", "prod-1", 0, inventory.MovementRef{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, stock.Reserve(ctx, "wh-1", "", 10), domain.ErrInvalidInput)
	assert.ErrorIs(t, stock.Release(ctx, "wh-1", "prod-1", -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, stock.Adjust(ctx, "wh-1", "prod-1", 0, "x"), domain.ErrInvalidInput)
}
