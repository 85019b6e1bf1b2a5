package repository

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// InventoryRepository persiste los registros de inventario por par
// (bodega, producto). La unicidad del par es la granularidad de bloqueo:
// GetForUpdate serializa a los escritores concurrentes sobre la misma fila.
type InventoryRepository interface {
	// Get devuelve el registro del par; si no existe devuelve un registro en
	// cero (no materializado) para que el caller opere de forma uniforme.
	Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	// GetForUpdate igual que Get pero bloquea la fila dentro de la
	// transacción en curso. Solo tiene sentido dentro de un TxRunner.
	GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	// Upsert crea o reemplaza el registro del par.
	Upsert(ctx context.Context, record *entity.InventoryRecord) error
	// ListByWarehouse lista los registros de una bodega (acceso de reporte).
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error)
}
