package entity

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAllocated OrderStatus = "allocated"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions tabla de transiciones válidas: avance monótono hacia
// delivered, con salida a cancelled solo antes del despacho.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderAllocated, OrderCancelled},
	OrderAllocated: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// CanTransitionTo indica si el cambio de estado es legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// Order representa un pedido de cliente con sus líneas.
type Order struct {
	ID            string
	CustomerID    string
	Status        OrderStatus
	Priority      int
	OrderDate     time.Time
	ShippedDate   *time.Time
	DeliveredDate *time.Time
	Items         []*OrderItem
}

// OrderItem línea de pedido. AllocatedQty solo crece mientras el pedido está
// en pending/allocated y nunca supera Quantity; queda congelada al despachar.
type OrderItem struct {
	ID           string
	OrderID      string
	ProductID    string
	Quantity     int64 // > 0
	UnitPrice    decimal.Decimal
	AllocatedQty int64 // <= Quantity
}

// RemainingToAllocate demanda de la línea aún sin asignar.
func (it *OrderItem) RemainingToAllocate() int64 {
	return it.Quantity - it.AllocatedQty
}

// Allocate incrementa la asignación respetando el techo de la línea.
func (it *OrderItem) Allocate(qty int64) error {
	if qty < 0 {
		return domain.ErrInvalidInput
	}
	if it.AllocatedQty+qty > it.Quantity {
		return domain.ErrInvalidState
	}
	it.AllocatedQty += qty
	return nil
}

// FullyAllocated indica si toda la demanda de la línea está asignada.
func (it *OrderItem) FullyAllocated() bool {
	return it.AllocatedQty == it.Quantity
}

// Transition valida y aplica el cambio de estado del pedido.
func (o *Order) Transition(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}
	o.Status = next
	return nil
}
