package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistics-engine/internal/application/fulfillment"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC     *inventory.StockUseCase
	LedgerUC    *inventory.LedgerUseCase
	AuditUC     *inventory.AuditUseCase
	OrderUC     *fulfillment.OrderUseCase
	ShipmentUC  *fulfillment.ShipmentUseCase
	PurchaseUC  *fulfillment.PurchaseUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", productHandler.Delete)

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	// Inventario: operaciones de stock, libro de movimientos y auditorías
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.LedgerUC, deps.AuditUC)
	inv.Post("/receive", inventoryHandler.Receive)
	inv.Post("/reserve", inventoryHandler.Reserve)
	inv.Post("/release", inventoryHandler.Release)
	inv.Post("/commit", inventoryHandler.Commit)
	inv.Post("/adjust", inventoryHandler.Adjust)
	inv.Post("/transfer", inventoryHandler.Transfer)
	inv.Post("/audits", inventoryHandler.Audit)
	inv.Get("/:warehouseId/:productId", inventoryHandler.GetRecord)
	inv.Get("/:warehouseId/:productId/movements", inventoryHandler.History)

	// Pedidos
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/allocate", orderHandler.Allocate)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/deliver", orderHandler.MarkDelivered)

	// Envíos
	shipments := api.Group("/shipments")
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipments.Post("/", shipmentHandler.Create)
	shipments.Post("/:id/dispatch", shipmentHandler.Dispatch)
	shipments.Post("/:id/deliver", shipmentHandler.MarkDelivered)
	shipments.Post("/:id/fail", shipmentHandler.MarkFailed)

	// Órdenes de compra
	purchases := api.Group("/purchase-orders")
	purchaseHandler := NewPurchaseOrderHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/approve", purchaseHandler.Approve)
	purchases.Post("/:id/ship", purchaseHandler.MarkShipped)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
}
