package dto

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderItemRequest línea en el body de creación de pedidos.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Priority   int                `json:"priority"`
	Items      []OrderItemRequest `json:"items"`
}

// AllocateOrderRequest body para POST /api/orders/:id/allocate.
type AllocateOrderRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// CancelOrderRequest body para POST /api/orders/:id/cancel. La bodega indica
// dónde liberar las reservas de la asignación no despachada.
type CancelOrderRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// ShipmentItemRequest línea en el body de creación de envíos.
type ShipmentItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateShipmentRequest body para POST /api/shipments.
type CreateShipmentRequest struct {
	OrderID     string                `json:"order_id"`
	WarehouseID string                `json:"warehouse_id"`
	Carrier     string                `json:"carrier,omitempty"`
	Items       []ShipmentItemRequest `json:"items"`
}

// PurchaseItemRequest línea en el body de creación de órdenes de compra.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID  string                `json:"supplier_id"`
	WarehouseID string                `json:"warehouse_id"`
	Items       []PurchaseItemRequest `json:"items"`
}

// AllocationResultDTO desenlace por línea de una asignación.
type AllocationResultDTO struct {
	ProductID string `json:"product_id"`
	Requested int64  `json:"requested"`
	Allocated int64  `json:"allocated"`
	Remaining int64  `json:"remaining"`
}

// OrderItemDTO línea de pedido en respuestas.
type OrderItemDTO struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	AllocatedQty int64           `json:"allocated_qty"`
}

// OrderDTO respuesta de un pedido con sus líneas.
type OrderDTO struct {
	ID            string         `json:"id"`
	CustomerID    string         `json:"customer_id"`
	Status        string         `json:"status"`
	Priority      int            `json:"priority"`
	OrderDate     time.Time      `json:"order_date"`
	ShippedDate   *time.Time     `json:"shipped_date,omitempty"`
	DeliveredDate *time.Time     `json:"delivered_date,omitempty"`
	Items         []OrderItemDTO `json:"items"`
}

// NewOrderDTO adapta la entidad a la respuesta HTTP.
func NewOrderDTO(o *entity.Order) OrderDTO {
	out := OrderDTO{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Status:        o.Status.String(),
		Priority:      o.Priority,
		OrderDate:     o.OrderDate,
		ShippedDate:   o.ShippedDate,
		DeliveredDate: o.DeliveredDate,
		Items:         make([]OrderItemDTO, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, OrderItemDTO{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			AllocatedQty: it.AllocatedQty,
		})
	}
	return out
}

// ShipmentItemDTO línea de envío en respuestas.
type ShipmentItemDTO struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// ShipmentDTO respuesta de un envío con sus líneas.
type ShipmentDTO struct {
	ID             string            `json:"id"`
	OrderID        string            `json:"order_id"`
	WarehouseID    string            `json:"warehouse_id"`
	Carrier        string            `json:"carrier,omitempty"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Status         string            `json:"status"`
	ShipDate       *time.Time        `json:"ship_date,omitempty"`
	ExpectedDate   *time.Time        `json:"expected_date,omitempty"`
	DeliveredDate  *time.Time        `json:"delivered_date,omitempty"`
	Items          []ShipmentItemDTO `json:"items"`
}

// NewShipmentDTO adapta la entidad a la respuesta HTTP.
func NewShipmentDTO(s *entity.Shipment) ShipmentDTO {
	out := ShipmentDTO{
		ID:             s.ID,
		OrderID:        s.OrderID,
		WarehouseID:    s.WarehouseID,
		Carrier:        s.Carrier,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status.String(),
		ShipDate:       s.ShipDate,
		ExpectedDate:   s.ExpectedDate,
		DeliveredDate:  s.DeliveredDate,
		Items:          make([]ShipmentItemDTO, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, ShipmentItemDTO{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// PurchaseOrderItemDTO línea de orden de compra en respuestas.
type PurchaseOrderItemDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderDTO respuesta de una orden de compra con sus líneas.
type PurchaseOrderDTO struct {
	ID           string                 `json:"id"`
	SupplierID   string                 `json:"supplier_id"`
	WarehouseID  string                 `json:"warehouse_id"`
	Status       string                 `json:"status"`
	OrderDate    time.Time              `json:"order_date"`
	ReceivedDate *time.Time             `json:"received_date,omitempty"`
	Items        []PurchaseOrderItemDTO `json:"items"`
}

// NewPurchaseOrderDTO adapta la entidad a la respuesta HTTP.
func NewPurchaseOrderDTO(p *entity.PurchaseOrder) PurchaseOrderDTO {
	out := PurchaseOrderDTO{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		WarehouseID:  p.WarehouseID,
		Status:       p.Status.String(),
		OrderDate:    p.OrderDate,
		ReceivedDate: p.ReceivedDate,
		Items:        make([]PurchaseOrderItemDTO, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, PurchaseOrderItemDTO{
			ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice,
		})
	}
	return out
}
