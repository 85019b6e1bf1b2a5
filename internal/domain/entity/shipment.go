package entity

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
)

// ShipmentStatus estado del ciclo de vida de un envío.
type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "preparing"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentFailed    ShipmentStatus = "failed"
)

// shipmentTransitions: al entrar en in_transit se confirma la salida de
// inventario; failed no la revierte (la mercancía ya salió de la bodega).
var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentPreparing: {ShipmentInTransit},
	ShipmentInTransit: {ShipmentDelivered, ShipmentFailed},
}

// CanTransitionTo indica si el cambio de estado es legal.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	for _, t := range shipmentTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s ShipmentStatus) String() string { return string(s) }

// Shipment representa un envío de un pedido desde una bodega concreta.
type Shipment struct {
	ID             string
	OrderID        string
	WarehouseID    string
	Carrier        string
	TrackingNumber string
	Status         ShipmentStatus
	ShipDate       *time.Time
	ExpectedDate   *time.Time
	DeliveredDate  *time.Time
	Items          []*ShipmentItem
}

// ShipmentItem línea de envío. La suma de cantidades por producto entre todos
// los envíos del pedido no puede superar el AllocatedQty de la línea de pedido.
type ShipmentItem struct {
	ID         string
	ShipmentID string
	ProductID  string
	Quantity   int64 // > 0
}

// Transition valida y aplica el cambio de estado del envío.
func (s *Shipment) Transition(next ShipmentStatus) error {
	if !s.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}
	s.Status = next
	return nil
}
