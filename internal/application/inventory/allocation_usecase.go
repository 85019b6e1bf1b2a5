package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/pkg/logger"
)

// AllocationResult reporta el desenlace de una asignación. Remaining > 0
// significa asignación parcial: el caller decide si hace back-order o reparte
// el resto en otra bodega.
type AllocationResult struct {
	ProductID string
	Requested int64
	Allocated int64
	Remaining int64
}

// AllocationUseCase convierte demanda de líneas de pedido en reservas de
// inventario. Política de asignación parcial: se reserva todo lo disponible
// (0..solicitado), se incrementa AllocatedQty por esa cantidad y se reporta el
// restante; nunca falla en silencio por falta de stock. La asignación es por
// bodega; repartir una línea entre bodegas es política del caller a base de
// llamadas repetidas.
type AllocationUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(tx TxRunner, log *logger.Logger) *AllocationUseCase {
	return &AllocationUseCase{tx: tx, log: log}
}

// AllocateItem asigna la demanda pendiente de una línea de pedido contra una
// bodega. El pedido debe estar en pending o allocated.
func (uc *AllocationUseCase) AllocateItem(ctx context.Context, orderID, orderItemID, warehouseID string) (*AllocationResult, error) {
	if orderID == "" || orderItemID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *AllocationResult
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderPending && order.Status != entity.OrderAllocated {
			return domain.ErrInvalidState
		}
		item := findOrderItem(order, orderItemID)
		if item == nil {
			return domain.ErrNotFound
		}
		result, err = uc.AllocateItemInTx(ctx, r, item, warehouseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().
		Str("order_id", orderID).
		Str("warehouse_id", warehouseID).
		Int64("allocated", result.Allocated).
		Int64("remaining", result.Remaining).
		Msg("línea de pedido asignada")
	return result, nil
}

// AllocateItemInTx reserva min(demanda pendiente, disponible) dentro de la
// transacción del caller y persiste el AllocatedQty resultante. Lo usa la
// asignación de pedidos completos (package fulfillment).
func (uc *AllocationUseCase) AllocateItemInTx(ctx context.Context, r TxRepos, item *entity.OrderItem, warehouseID string) (*AllocationResult, error) {
	requested := item.RemainingToAllocate()
	result := &AllocationResult{ProductID: item.ProductID, Requested: requested}
	if requested == 0 {
		return result, nil
	}

	record, err := r.Inventory.GetForUpdate(ctx, warehouseID, item.ProductID)
	if err != nil {
		return nil, err
	}
	take := requested
	if available := record.Available(); available < take {
		take = available
	}
	if take > 0 {
		if err := record.Reserve(take); err != nil {
			return nil, err
		}
		record.LastUpdated = time.Now()
		if err := r.Inventory.Upsert(ctx, record); err != nil {
			return nil, err
		}
		if err := item.Allocate(take); err != nil {
			return nil, err
		}
		if err := r.Orders.UpdateItemAllocation(ctx, item); err != nil {
			return nil, err
		}
	}
	result.Allocated = take
	result.Remaining = requested - take
	return result, nil
}

// DeallocateItem revierte la asignación no despachada de una línea: libera
// AllocatedQty-shippedQty de la reserva y deja AllocatedQty en shippedQty.
func (uc *AllocationUseCase) DeallocateItem(ctx context.Context, orderID, orderItemID, warehouseID string, shippedQty int64) error {
	if orderID == "" || orderItemID == "" || warehouseID == "" || shippedQty < 0 {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		item := findOrderItem(order, orderItemID)
		if item == nil {
			return domain.ErrNotFound
		}
		return uc.DeallocateItemInTx(ctx, r, item, warehouseID, shippedQty)
	})
}

// DeallocateItemInTx libera la reserva pendiente de la línea dentro de la
// transacción del caller (cancelación de pedidos, package fulfillment).
func (uc *AllocationUseCase) DeallocateItemInTx(ctx context.Context, r TxRepos, item *entity.OrderItem, warehouseID string, shippedQty int64) error {
	toRelease := item.AllocatedQty - shippedQty
	if toRelease < 0 {
		return domain.ErrInvalidState
	}
	if toRelease > 0 {
		record, err := r.Inventory.GetForUpdate(ctx, warehouseID, item.ProductID)
		if err != nil {
			return err
		}
		if err := record.Release(toRelease); err != nil {
			return err
		}
		record.LastUpdated = time.Now()
		if err := r.Inventory.Upsert(ctx, record); err != nil {
			return err
		}
	}
	item.AllocatedQty = shippedQty
	return r.Orders.UpdateItemAllocation(ctx, item)
}

func findOrderItem(order *entity.Order, itemID string) *entity.OrderItem {
	for _, it := range order.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}
