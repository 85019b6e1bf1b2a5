package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

var (
	_ repository.OrderRepository         = (*OrderRepo)(nil)
	_ repository.ShipmentRepository      = (*ShipmentRepo)(nil)
	_ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)
)

// OrderRepo pedidos en memoria.
type OrderRepo struct {
	store *Store
	tx    *state
}

func (r *OrderRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for _, it := range order.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = order.ID
	}
	return r.with(func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[order.ID] = cloneOrder(order)
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.with(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = cloneOrder(o)
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria es idéntico a GetByID: el mutex del Store ya
// serializa a los escritores durante toda la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, order *entity.Order) error {
	return r.with(func(st *state) error {
		o, ok := st.orders[order.ID]
		if !ok {
			return domain.ErrNotFound
		}
		o.Status = order.Status
		o.ShippedDate = order.ShippedDate
		o.DeliveredDate = order.DeliveredDate
		return nil
	})
}

func (r *OrderRepo) UpdateItemAllocation(ctx context.Context, item *entity.OrderItem) error {
	return r.with(func(st *state) error {
		o, ok := st.orders[item.OrderID]
		if !ok {
			return domain.ErrNotFound
		}
		for _, it := range o.Items {
			if it.ID == item.ID {
				it.AllocatedQty = item.AllocatedQty
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.with(func(st *state) error {
		for _, o := range st.orders {
			if o.CustomerID == customerID {
				out = append(out, cloneOrder(o))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

// ShipmentRepo envíos en memoria.
type ShipmentRepo struct {
	store *Store
	tx    *state
}

func (r *ShipmentRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *ShipmentRepo) Create(ctx context.Context, shipment *entity.Shipment) error {
	if shipment.ID == "" {
		shipment.ID = uuid.New().String()
	}
	for _, it := range shipment.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.ShipmentID = shipment.ID
	}
	return r.with(func(st *state) error {
		if _, ok := st.shipments[shipment.ID]; ok {
			return domain.ErrDuplicate
		}
		st.shipments[shipment.ID] = cloneShipment(shipment)
		return nil
	})
}

func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.with(func(st *state) error {
		if s, ok := st.shipments[id]; ok {
			out = cloneShipment(s)
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, id)
}

func (r *ShipmentRepo) UpdateStatus(ctx context.Context, shipment *entity.Shipment) error {
	return r.with(func(st *state) error {
		s, ok := st.shipments[shipment.ID]
		if !ok {
			return domain.ErrNotFound
		}
		s.Status = shipment.Status
		s.ShipDate = shipment.ShipDate
		s.DeliveredDate = shipment.DeliveredDate
		s.TrackingNumber = shipment.TrackingNumber
		return nil
	})
}

func (r *ShipmentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	err := r.with(func(st *state) error {
		for _, s := range st.shipments {
			if s.OrderID == orderID {
				out = append(out, cloneShipment(s))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) ItemQtyByProduct(ctx context.Context, orderID string) (map[string]int64, error) {
	return r.sumByProduct(orderID, func(entity.ShipmentStatus) bool { return true })
}

func (r *ShipmentRepo) DispatchedQtyByProduct(ctx context.Context, orderID string) (map[string]int64, error) {
	return r.sumByProduct(orderID, func(s entity.ShipmentStatus) bool {
		return s == entity.ShipmentInTransit || s == entity.ShipmentDelivered || s == entity.ShipmentFailed
	})
}

func (r *ShipmentRepo) sumByProduct(orderID string, include func(entity.ShipmentStatus) bool) (map[string]int64, error) {
	out := make(map[string]int64)
	err := r.with(func(st *state) error {
		for _, s := range st.shipments {
			if s.OrderID != orderID || !include(s.Status) {
				continue
			}
			for _, it := range s.Items {
				out[it.ProductID] += it.Quantity
			}
		}
		return nil
	})
	return out, err
}

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct {
	store *Store
	tx    *state
}

func (r *PurchaseOrderRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	for _, it := range po.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseOrderID = po.ID
	}
	return r.with(func(st *state) error {
		if _, ok := st.purchases[po.ID]; ok {
			return domain.ErrDuplicate
		}
		st.purchases[po.ID] = clonePurchaseOrder(po)
		return nil
	})
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.with(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			out = clonePurchaseOrder(p)
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.with(func(st *state) error {
		p, ok := st.purchases[po.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Status = po.Status
		p.ReceivedDate = po.ReceivedDate
		return nil
	})
}

func (r *PurchaseOrderRepo) ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.with(func(st *state) error {
		for _, p := range st.purchases {
			if p.SupplierID == supplierID {
				out = append(out, clonePurchaseOrder(p))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}
