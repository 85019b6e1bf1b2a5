package entity

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado del ciclo de vida de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseRequested PurchaseOrderStatus = "requested"
	PurchaseApproved  PurchaseOrderStatus = "approved"
	PurchaseShipped   PurchaseOrderStatus = "shipped"
	PurchaseReceived  PurchaseOrderStatus = "received"
	PurchaseCancelled PurchaseOrderStatus = "cancelled"
)

// purchaseTransitions: cancelar solo es válido antes de recibir; la recepción
// es la única transición con efecto sobre inventario (entradas por línea).
var purchaseTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseRequested: {PurchaseApproved, PurchaseCancelled},
	PurchaseApproved:  {PurchaseShipped, PurchaseCancelled},
	PurchaseShipped:   {PurchaseReceived, PurchaseCancelled},
}

// CanTransitionTo indica si el cambio de estado es legal.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	for _, t := range purchaseTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s PurchaseOrderStatus) String() string { return string(s) }

// PurchaseOrder orden de compra a un proveedor con destino a una bodega.
type PurchaseOrder struct {
	ID           string
	SupplierID   string
	WarehouseID  string
	Status       PurchaseOrderStatus
	OrderDate    time.Time
	ReceivedDate *time.Time
	Items        []*PurchaseOrderItem
}

// PurchaseOrderItem línea de orden de compra.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        int64 // > 0
	UnitPrice       decimal.Decimal
}

// Transition valida y aplica el cambio de estado de la orden de compra.
func (p *PurchaseOrder) Transition(next PurchaseOrderStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}
	p.Status = next
	return nil
}
