package entity_test

import (
	"testing"

	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// InventoryRecord sostiene el invariante 0 <= ReservedQty <= Quantity en cada
// mutación: las precondiciones se validan antes de tocar el estado, y un
// rechazo deja el registro exactamente como estaba.
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryRecord_ReserveDentroDelDisponible(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(100))

	require.NoError(t, r.Reserve(60))
	assert.Equal(t, int64(100), r.Quantity)
	assert.Equal(t, int64(60), r.ReservedQty)
	assert.Equal(t, int64(40), r.Available())
}

func TestInventoryRecord_ReserveSinDisponibleFalla(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(100))
	require.NoError(t, r.Reserve(60))

	err := r.Reserve(50)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	// Sin reserva parcial: el registro queda intacto tras el rechazo.
	assert.Equal(t, int64(60), r.ReservedQty)
}

func TestInventoryRecord_ReserveCantidadInvalida(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(10))

	assert.ErrorIs(t, r.Reserve(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, r.Reserve(-5), domain.ErrInvalidInput)
}

func TestInventoryRecord_ReleaseMasDeLoReservadoFalla(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(100))
	require.NoError(t, r.Reserve(30))

	err := r.Release(31)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(30), r.ReservedQty, "la reserva nunca queda en negativo")

	require.NoError(t, r.Release(30))
	assert.Equal(t, int64(0), r.ReservedQty)
}

func TestInventoryRecord_CommitOutboundConsumeReserva(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(100))
	require.NoError(t, r.Reserve(60))

	require.NoError(t, r.CommitOutbound(60))
	assert.Equal(t, int64(40), r.Quantity)
	assert.Equal(t, int64(0), r.ReservedQty)
}

func TestInventoryRecord_CommitOutboundSinReservaFalla(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(100))
	require.NoError(t, r.Reserve(10))

	err := r.CommitOutbound(11)
	require.ErrorIs(t, err, domain.ErrInsufficientReservation)
	assert.Equal(t, int64(100), r.Quantity)
	assert.Equal(t, int64(10), r.ReservedQty)
}

func TestInventoryRecord_AdjustNegativoAcotadoPorCero(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(5))

	err := r.Adjust(-6)
	require.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.Equal(t, int64(5), r.Quantity)

	require.NoError(t, r.Adjust(-5))
	assert.Equal(t, int64(0), r.Quantity)
}

func TestInventoryRecord_AdjustPorDebajoDeLaReservaFalla(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	require.NoError(t, r.Receive(100))
	require.NoError(t, r.Reserve(80))

	// Dejar quantity=70 < reserved=80 rompería el invariante.
	err := r.Adjust(-30)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(100), r.Quantity)
	assert.Equal(t, int64(80), r.ReservedQty)
}

func TestInventoryRecord_AdjustCeroEsInvalido(t *testing.T) {
	r := entity.NewInventoryRecord("wh-1", "prod-1")
	assert.ErrorIs(t, r.Adjust(0), domain.ErrInvalidInput)
}

func TestStockMovement_Validate(t *testing.T) {
	valid := func() *entity.StockMovement {
		return &entity.StockMovement{
			WarehouseID:   "wh-1",
			ProductID:     "prod-1",
			MovementType:  entity.MovementInbound,
			Quantity:      10,
			ReferenceType: entity.ReferenceManual,
		}
	}

	require.NoError(t, valid().Validate())

	m := valid()
	m.Quantity = 0
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement, "cantidad cero no es un movimiento")

	m = valid()
	m.MovementType = "teleport"
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)

	m = valid()
	m.ReferenceType = "unknown"
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)

	m = valid()
	m.WarehouseID = ""
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)
}
