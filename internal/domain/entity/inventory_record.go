package entity

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
)

// InventoryRecord representa el stock de un producto en una bodega: cantidad
// física (Quantity) y cantidad reservada contra pedidos (ReservedQty).
// Invariante permanente: 0 <= ReservedQty <= Quantity. Los métodos de mutación
// validan la precondición y devuelven errores de dominio sin tocar el estado;
// el único escritor autorizado es el StockUseCase dentro de una transacción.
type InventoryRecord struct {
	WarehouseID string
	ProductID   string
	Quantity    int64
	ReservedQty int64
	LastUpdated time.Time
}

// NewInventoryRecord crea un registro vacío para el par (bodega, producto).
// Se materializa en la primera recepción de stock.
func NewInventoryRecord(warehouseID, productID string) *InventoryRecord {
	return &InventoryRecord{WarehouseID: warehouseID, ProductID: productID}
}

// Available devuelve la cantidad disponible para reservar.
func (r *InventoryRecord) Available() int64 {
	return r.Quantity - r.ReservedQty
}

// Receive suma qty unidades físicas (entrada por compra o devolución).
func (r *InventoryRecord) Receive(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	r.Quantity += qty
	return nil
}

// Reserve incrementa la reserva si y solo si ReservedQty+qty <= Quantity.
// Sin reserva parcial: si no alcanza, falla y el registro queda intacto.
func (r *InventoryRecord) Reserve(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if r.ReservedQty+qty > r.Quantity {
		return domain.ErrInsufficientStock
	}
	r.ReservedQty += qty
	return nil
}

// Release libera qty unidades reservadas. Liberar más de lo reservado es un
// bug del caller y se rechaza en vez de dejar la reserva en negativo.
func (r *InventoryRecord) Release(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if qty > r.ReservedQty {
		return domain.ErrInvalidState
	}
	r.ReservedQty -= qty
	return nil
}

// CommitOutbound consume una reserva previa: descuenta qty de la cantidad
// física y de la reservada a la vez (la mercancía sale de la bodega).
func (r *InventoryRecord) CommitOutbound(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if qty > r.ReservedQty {
		return domain.ErrInsufficientReservation
	}
	r.Quantity -= qty
	r.ReservedQty -= qty
	return nil
}

// Adjust aplica una corrección directa con signo (por auditoría u otra
// conciliación). Rechaza ajustes que dejen la cantidad en negativo o por
// debajo de lo ya reservado.
func (r *InventoryRecord) Adjust(delta int64) error {
	if delta == 0 {
		return domain.ErrInvalidInput
	}
	newQty := r.Quantity + delta
	if newQty < 0 {
		return domain.ErrNegativeStock
	}
	if newQty < r.ReservedQty {
		return domain.ErrInvalidState
	}
	r.Quantity = newQty
	return nil
}
