package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistics-engine/internal/application/dto"
	"github.com/jhoicas/logistics-engine/internal/application/fulfillment"
)

// OrderHandler maneja las peticiones HTTP del ciclo de vida de pedidos.
type OrderHandler struct {
	uc *fulfillment.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *fulfillment.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create registra un pedido nuevo en pending.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]fulfillment.OrderItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, fulfillment.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	order, err := h.uc.PlaceOrder(c.Context(), in.CustomerID, in.Priority, items)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderDTO(order))
}

// GetByID devuelve el pedido con sus líneas.
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewOrderDTO(order))
}

// Allocate asigna inventario a todas las líneas del pedido.
func (h *OrderHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	results, err := h.uc.AllocateOrder(c.Context(), c.Params("id"), in.WarehouseID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.AllocationResultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, dto.AllocationResultDTO{
			ProductID: r.ProductID,
			Requested: r.Requested,
			Allocated: r.Allocated,
			Remaining: r.Remaining,
		})
	}
	return c.JSON(out)
}

// Cancel cancela el pedido y libera la asignación no despachada.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.CancelOrder(c.Context(), c.Params("id"), in.WarehouseID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "pedido cancelado"})
}

// MarkDelivered cierra el pedido cuando todos sus envíos fueron entregados.
func (h *OrderHandler) MarkDelivered(c *fiber.Ctx) error {
	if err := h.uc.MarkDelivered(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "pedido entregado"})
}

// ShipmentHandler maneja las peticiones HTTP del ciclo de vida de envíos.
type ShipmentHandler struct {
	uc *fulfillment.ShipmentUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *fulfillment.ShipmentUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Create registra un envío en preparing contra un pedido asignado.
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]fulfillment.ShipmentItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, fulfillment.ShipmentItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	shipment, err := h.uc.CreateShipment(c.Context(), in.OrderID, in.WarehouseID, in.Carrier, items)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewShipmentDTO(shipment))
}

// Dispatch confirma la salida: preparing → in_transit, con descuento de stock.
func (h *ShipmentHandler) Dispatch(c *fiber.Ctx) error {
	if err := h.uc.Dispatch(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "envío despachado"})
}

// MarkDelivered cierra el envío como entregado.
func (h *ShipmentHandler) MarkDelivered(c *fiber.Ctx) error {
	if err := h.uc.MarkDelivered(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "envío entregado"})
}

// MarkFailed cierra el envío como fallido. El stock no se repone: una
// devolución posterior es un ajuste de entrada aparte.
func (h *ShipmentHandler) MarkFailed(c *fiber.Ctx) error {
	if err := h.uc.MarkFailed(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "envío marcado como fallido"})
}

// PurchaseOrderHandler maneja las peticiones HTTP de órdenes de compra.
type PurchaseOrderHandler struct {
	uc *fulfillment.PurchaseUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *fulfillment.PurchaseUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create registra una orden de compra en requested.
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]fulfillment.PurchaseItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, fulfillment.PurchaseItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	po, err := h.uc.CreatePurchaseOrder(c.Context(), in.SupplierID, in.WarehouseID, items)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPurchaseOrderDTO(po))
}

// GetByID devuelve la orden de compra con sus líneas.
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.GetPurchaseOrder(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderDTO(po))
}

// Approve aprueba la orden: requested → approved.
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	if err := h.uc.Approve(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden de compra aprobada"})
}

// MarkShipped marca la orden como despachada por el proveedor.
func (h *PurchaseOrderHandler) MarkShipped(c *fiber.Ctx) error {
	if err := h.uc.MarkShipped(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden de compra en tránsito"})
}

// Receive recibe la mercancía: entradas de inventario por cada línea.
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	if err := h.uc.Receive(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden de compra recibida"})
}

// Cancel cancela la orden antes de recibirla.
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden de compra cancelada"})
}
