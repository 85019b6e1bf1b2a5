package repository

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// WarehouseRepository persiste las bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
	// HasInventoryReferences indica si existen registros de inventario o
	// movimientos que referencien la bodega (borrado restringido).
	HasInventoryReferences(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
