package inventory

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción. El callback
// de TxRunner.Run los recibe ya enlazados; fuera del callback no deben usarse.
type TxRepos struct {
	Inventory repository.InventoryRepository
	Movements repository.StockMovementRepository
	Orders    repository.OrderRepository
	Shipments repository.ShipmentRepository
	Purchases repository.PurchaseOrderRepository
	Audits    repository.InventoryAuditRepository
}

// TxRunner ejecuta una función dentro de una transacción del almacenamiento,
// pasando repositorios atados a esa transacción. Si fn devuelve error se hace
// Rollback; si no, Commit. Toda mutación de inventario y su entrada en el
// libro de movimientos confirman juntas o no confirman: no existe ventana de
// "mutación aplicada sin movimiento anexado".
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
