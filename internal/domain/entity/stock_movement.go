package entity

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
)

// Tipos de movimiento de stock.
const (
	MovementInbound    = "inbound"    // entrada (recepción de compra, devolución)
	MovementOutbound   = "outbound"   // salida (despacho de envío)
	MovementTransfer   = "transfer"   // traslado entre bodegas
	MovementAdjustment = "adjustment" // ajuste manual o por auditoría
)

// Tipos de entidad de origen de un movimiento.
const (
	ReferenceOrder    = "order"
	ReferencePurchase = "purchase"
	ReferenceShipment = "shipment"
	ReferenceManual   = "manual"
)

// StockMovement es una entrada del libro de movimientos: un cambio de cantidad
// con signo para un par (bodega, producto). El libro es append-only: un
// movimiento nunca se edita ni se borra; las correcciones son movimientos
// nuevos de signo opuesto. La suma con signo de todos los movimientos de un
// par debe coincidir en todo momento con InventoryRecord.Quantity.
type StockMovement struct {
	ID            string
	WarehouseID   string
	ProductID     string
	MovementType  string
	Quantity      int64 // con signo: negativo para salidas
	ReferenceID   string
	ReferenceType string
	Timestamp     time.Time
	Notes         string
}

// Validate verifica que el movimiento esté bien formado antes de anexarlo.
func (m *StockMovement) Validate() error {
	if m.WarehouseID == "" || m.ProductID == "" {
		return domain.ErrInvalidMovement
	}
	if m.Quantity == 0 {
		return domain.ErrInvalidMovement
	}
	switch m.MovementType {
	case MovementInbound, MovementOutbound, MovementTransfer, MovementAdjustment:
	default:
		return domain.ErrInvalidMovement
	}
	switch m.ReferenceType {
	case ReferenceOrder, ReferencePurchase, ReferenceShipment, ReferenceManual:
	default:
		return domain.ErrInvalidMovement
	}
	return nil
}
