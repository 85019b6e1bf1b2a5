package repository

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// InventoryAuditRepository persiste snapshots de auditoría (una sola escritura).
type InventoryAuditRepository interface {
	Create(ctx context.Context, audit *entity.InventoryAudit) error
	// ListByKey devuelve las auditorías del par en orden cronológico inverso.
	ListByKey(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.InventoryAudit, error)
}
