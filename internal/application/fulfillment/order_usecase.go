package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/pkg/logger"
	"github.com/shopspring/decimal"
)

// OrderItemInput línea para crear un pedido.
type OrderItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// OrderUseCase dirige el ciclo de vida del pedido:
// pending → allocated → shipped → delivered, con cancelación solo en
// pending/allocated. Cada transición corre en una transacción; toda mutación
// de inventario pasa por los métodos InTx de StockUseCase/AllocationUseCase.
type OrderUseCase struct {
	tx         inventory.TxRunner
	allocation *inventory.AllocationUseCase
	log        *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(tx inventory.TxRunner, allocation *inventory.AllocationUseCase, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{tx: tx, allocation: allocation, log: log}
}

// PlaceOrder crea un pedido en pending con sus líneas validadas. No toca
// inventario: la reserva ocurre en la asignación.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, customerID string, priority int, items []OrderItemInput) (*entity.Order, error) {
	if customerID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order := &entity.Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Status:     entity.OrderPending,
		Priority:   priority,
		OrderDate:  time.Now(),
	}
	for _, in := range items {
		if in.ProductID == "" || in.Quantity <= 0 || in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		order.Items = append(order.Items, &entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		})
	}
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		return r.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Int("items", len(order.Items)).Msg("pedido creado")
	return order, nil
}

// AllocateOrder asigna todas las líneas del pedido contra una bodega en una
// sola transacción. El pedido pasa a allocated solo cuando toda la demanda
// quedó asignada; con asignación parcial permanece en pending y los restantes
// se reportan al caller (back-order o reparto en otra bodega).
func (uc *OrderUseCase) AllocateOrder(ctx context.Context, orderID, warehouseID string) ([]*inventory.AllocationResult, error) {
	if orderID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	var results []*inventory.AllocationResult
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderPending && order.Status != entity.OrderAllocated {
			return domain.ErrInvalidTransition
		}
		results = results[:0]
		complete := true
		for _, item := range order.Items {
			res, err := uc.allocation.AllocateItemInTx(ctx, r, item, warehouseID)
			if err != nil {
				return err
			}
			results = append(results, res)
			if !item.FullyAllocated() {
				complete = false
			}
		}
		if complete && order.Status == entity.OrderPending {
			if err := order.Transition(entity.OrderAllocated); err != nil {
				return err
			}
			if err := r.Orders.UpdateStatus(ctx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Str("warehouse_id", warehouseID).Msg("asignación de pedido ejecutada")
	return results, nil
}

// CancelOrder cancela un pedido en pending/allocated y libera en la bodega
// indicada toda la asignación aún no despachada de cada línea.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, orderID, warehouseID string) error {
	if orderID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := order.Transition(entity.OrderCancelled); err != nil {
			return err
		}
		dispatched, err := r.Shipments.DispatchedQtyByProduct(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := uc.allocation.DeallocateItemInTx(ctx, r, item, warehouseID, dispatched[item.ProductID]); err != nil {
				return err
			}
		}
		return r.Orders.UpdateStatus(ctx, order)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("order_id", orderID).Msg("pedido cancelado")
	return nil
}

// MarkDelivered marca el pedido como entregado cuando todos sus envíos
// llegaron a delivered.
func (uc *OrderUseCase) MarkDelivered(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		shipments, err := r.Shipments.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if len(shipments) == 0 {
			return domain.ErrInvalidState
		}
		for _, s := range shipments {
			if s.Status != entity.ShipmentDelivered {
				return domain.ErrInvalidState
			}
		}
		if err := order.Transition(entity.OrderDelivered); err != nil {
			return err
		}
		now := time.Now()
		order.DeliveredDate = &now
		return r.Orders.UpdateStatus(ctx, order)
	})
}

// GetOrder devuelve el pedido con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.Order
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		order, err = r.Orders.GetByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
