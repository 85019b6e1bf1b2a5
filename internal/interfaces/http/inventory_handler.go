package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistics-engine/internal/application/dto"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de stock, libro de movimientos
// y auditorías.
type InventoryHandler struct {
	stock  *inventory.StockUseCase
	ledger *inventory.LedgerUseCase
	audit  *inventory.AuditUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, ledger *inventory.LedgerUseCase, audit *inventory.AuditUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, ledger: ledger, audit: audit}
}

func parseStockOp(c *fiber.Ctx) (dto.StockOperationRequest, error) {
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return in, err
	}
	return in, nil
}

func (h *InventoryHandler) manualRef(in dto.StockOperationRequest) inventory.MovementRef {
	ref := inventory.MovementRef{ID: in.ReferenceID, Type: in.ReferenceType, Notes: in.Notes}
	if ref.Type == "" {
		ref.Type = entity.ReferenceManual
	}
	return ref
}

// Receive registra una entrada física de stock.
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	in, err := parseStockOp(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.stock.Receive(c.Context(), in.WarehouseID, in.ProductID, in.Quantity, h.manualRef(in)); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "entrada registrada"})
}

// Reserve aparta stock disponible contra demanda.
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	in, err := parseStockOp(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.stock.Reserve(c.Context(), in.WarehouseID, in.ProductID, in.Quantity); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva registrada"})
}

// Release devuelve stock reservado al disponible.
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	in, err := parseStockOp(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.stock.Release(c.Context(), in.WarehouseID, in.ProductID, in.Quantity); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// Commit consume una reserva: la mercancía sale de la bodega.
func (h *InventoryHandler) Commit(c *fiber.Ctx) error {
	in, err := parseStockOp(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.stock.CommitOutbound(c.Context(), in.WarehouseID, in.ProductID, in.Quantity, h.manualRef(in)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "salida confirmada"})
}

// Adjust aplica una corrección con signo sobre la cantidad física.
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	in, err := parseStockOp(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	if err := h.stock.Adjust(c.Context(), in.WarehouseID, in.ProductID, in.Quantity, in.Reason); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}

// Transfer traslada stock disponible entre bodegas.
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.stock.Transfer(c.Context(), in.FromWarehouseID, in.ToWarehouseID, in.ProductID, in.Quantity, in.Notes); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado registrado"})
}

// GetRecord devuelve el estado de un par (bodega, producto).
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	productID := c.Params("productId")
	rec, err := h.ledger.Record(c.Context(), warehouseID, productID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewInventoryRecordDTO(rec))
}

// History devuelve el libro de movimientos del par, paginado.
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	productID := c.Params("productId")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	movements, err := h.ledger.History(c.Context(), warehouseID, productID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.StockMovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.NewStockMovementDTO(m))
	}
	return c.JSON(out)
}

// Audit registra una conciliación contra un conteo físico.
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	var in dto.AuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	audit, err := h.audit.Audit(c.Context(), in.WarehouseID, in.ProductID, in.PhysicalQty, in.Auditor)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInventoryAuditDTO(audit))
}
