package repository

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// PurchaseOrderRepository persiste órdenes de compra y sus líneas.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, po *entity.PurchaseOrder) error
	// ListBySupplier acceso de reporte por proveedor.
	ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
