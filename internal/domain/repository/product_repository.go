package repository

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// ProductRepository persiste el catálogo de productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// HasInventoryReferences indica si existen registros de inventario o
	// movimientos que referencien el producto (borrado restringido).
	HasInventoryReferences(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}
