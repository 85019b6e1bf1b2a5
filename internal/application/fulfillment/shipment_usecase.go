package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/pkg/logger"
)

// ShipmentItemInput línea para crear un envío.
type ShipmentItemInput struct {
	ProductID string
	Quantity  int64
}

// ShipmentUseCase dirige el ciclo de vida del envío:
// preparing → in_transit → delivered | failed. El despacho (in_transit)
// confirma la salida de inventario por cada línea; failed no la revierte,
// porque la mercancía ya salió de la bodega; una devolución es un ajuste
// compensatorio aparte.
type ShipmentUseCase struct {
	tx    inventory.TxRunner
	stock *inventory.StockUseCase
	log   *logger.Logger
}

// NewShipmentUseCase construye el caso de uso.
func NewShipmentUseCase(tx inventory.TxRunner, stock *inventory.StockUseCase, log *logger.Logger) *ShipmentUseCase {
	return &ShipmentUseCase{tx: tx, stock: stock, log: log}
}

// CreateShipment crea un envío en preparing para un pedido asignado. Valida
// que, sumando los envíos ya existentes del pedido, ninguna línea supere el
// AllocatedQty de la línea de pedido correspondiente.
func (uc *ShipmentUseCase) CreateShipment(ctx context.Context, orderID, warehouseID, carrier string, items []ShipmentItemInput) (*entity.Shipment, error) {
	if orderID == "" || warehouseID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	shipment := &entity.Shipment{
		ID:          uuid.New().String(),
		OrderID:     orderID,
		WarehouseID: warehouseID,
		Carrier:     carrier,
		Status:      entity.ShipmentPreparing,
	}
	for _, in := range items {
		if in.ProductID == "" || in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		shipment.Items = append(shipment.Items, &entity.ShipmentItem{
			ID:         uuid.New().String(),
			ShipmentID: shipment.ID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
		})
	}
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderAllocated && order.Status != entity.OrderShipped {
			return domain.ErrInvalidState
		}
		if err := uc.checkAllocationCeiling(ctx, r, order, shipment); err != nil {
			return err
		}
		return r.Shipments.Create(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("shipment_id", shipment.ID).Str("order_id", orderID).Msg("envío creado")
	return shipment, nil
}

// checkAllocationCeiling verifica que las líneas del envío quepan dentro de
// la asignación del pedido descontando lo ya comprometido en otros envíos.
func (uc *ShipmentUseCase) checkAllocationCeiling(ctx context.Context, r inventory.TxRepos, order *entity.Order, shipment *entity.Shipment) error {
	claimed, err := r.Shipments.ItemQtyByProduct(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, si := range shipment.Items {
		var allocated int64
		found := false
		for _, oi := range order.Items {
			if oi.ProductID == si.ProductID {
				allocated += oi.AllocatedQty
				found = true
			}
		}
		if !found {
			return domain.ErrInvalidInput
		}
		if claimed[si.ProductID]+si.Quantity > allocated {
			return domain.ErrInsufficientReservation
		}
	}
	return nil
}

// Dispatch pasa el envío de preparing a in_transit confirmando la salida de
// inventario de cada línea contra la bodega del envío, todo en una
// transacción: si alguna línea no tiene reserva suficiente, nada se aplica y
// el envío queda en preparing. El pedido pasa a shipped en el primer despacho.
func (uc *ShipmentUseCase) Dispatch(ctx context.Context, shipmentID string) error {
	if shipmentID == "" {
		return domain.ErrInvalidInput
	}
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		shipment, err := r.Shipments.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if shipment == nil {
			return domain.ErrNotFound
		}
		if err := shipment.Transition(entity.ShipmentInTransit); err != nil {
			return err
		}
		order, err := r.Orders.GetForUpdate(ctx, shipment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		// Releer el techo de asignación al despachar: la asignación pudo
		// cambiar entre la creación del envío y el despacho.
		if err := uc.checkDispatchCeiling(order, shipment); err != nil {
			return err
		}
		for _, si := range shipment.Items {
			ref := inventory.MovementRef{ID: shipment.ID, Type: entity.ReferenceShipment}
			if err := uc.stock.CommitOutboundInTx(ctx, r, shipment.WarehouseID, si.ProductID, si.Quantity, ref); err != nil {
				return err
			}
		}
		now := time.Now()
		shipment.ShipDate = &now
		if err := r.Shipments.UpdateStatus(ctx, shipment); err != nil {
			return err
		}
		if order.Status == entity.OrderAllocated {
			if err := order.Transition(entity.OrderShipped); err != nil {
				return err
			}
			order.ShippedDate = &now
			return r.Orders.UpdateStatus(ctx, order)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("shipment_id", shipmentID).Msg("envío despachado")
	return nil
}

// checkDispatchCeiling exige que cada línea del envío quepa en la asignación
// congelada de la línea de pedido; superarla es despachar sin reserva.
func (uc *ShipmentUseCase) checkDispatchCeiling(order *entity.Order, shipment *entity.Shipment) error {
	for _, si := range shipment.Items {
		var allocated int64
		for _, oi := range order.Items {
			if oi.ProductID == si.ProductID {
				allocated += oi.AllocatedQty
			}
		}
		if si.Quantity > allocated {
			return domain.ErrInsufficientReservation
		}
	}
	return nil
}

// MarkDelivered marca el envío como entregado.
func (uc *ShipmentUseCase) MarkDelivered(ctx context.Context, shipmentID string) error {
	return uc.finish(ctx, shipmentID, entity.ShipmentDelivered)
}

// MarkFailed marca el envío como fallido. Sin efecto sobre inventario: la
// salida ya se confirmó al despachar.
func (uc *ShipmentUseCase) MarkFailed(ctx context.Context, shipmentID string) error {
	return uc.finish(ctx, shipmentID, entity.ShipmentFailed)
}

func (uc *ShipmentUseCase) finish(ctx context.Context, shipmentID string, status entity.ShipmentStatus) error {
	if shipmentID == "" {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		shipment, err := r.Shipments.GetForUpdate(ctx, shipmentID)
		if err != nil {
			return err
		}
		if shipment == nil {
			return domain.ErrNotFound
		}
		if err := shipment.Transition(status); err != nil {
			return err
		}
		if status == entity.ShipmentDelivered {
			now := time.Now()
			shipment.DeliveredDate = &now
		}
		return r.Shipments.UpdateStatus(ctx, shipment)
	})
}
