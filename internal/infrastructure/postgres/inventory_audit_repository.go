package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

var _ repository.InventoryAuditRepository = (*InventoryAuditRepo)(nil)

// InventoryAuditRepo implementación de InventoryAuditRepository sobre
// PostgreSQL. Las auditorías son de una sola escritura: solo INSERT y SELECT.
type InventoryAuditRepo struct {
	q Querier
}

// NewInventoryAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryAuditRepository(q Querier) *InventoryAuditRepo {
	return &InventoryAuditRepo{q: q}
}

// Create persiste el snapshot de auditoría, asignando ID si viene vacío.
func (r *InventoryAuditRepo) Create(ctx context.Context, audit *entity.InventoryAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_audits (id, warehouse_id, product_id, system_qty, physical_qty, discrepancy, audit_date, auditor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		audit.ID, audit.WarehouseID, audit.ProductID, audit.SystemQty,
		audit.PhysicalQty, audit.Discrepancy, audit.AuditDate, audit.Auditor,
	)
	if err != nil {
		return fmt.Errorf("create inventory audit: %w", err)
	}
	return nil
}

// ListByKey devuelve las auditorías del par en orden cronológico inverso.
func (r *InventoryAuditRepo) ListByKey(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.InventoryAudit, error) {
	query := `
		SELECT id, warehouse_id, product_id, system_qty, physical_qty, discrepancy, audit_date, auditor
		FROM inventory_audits
		WHERE warehouse_id = $1 AND product_id = $2
		ORDER BY audit_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, warehouseID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory audits: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryAudit
	for rows.Next() {
		var a entity.InventoryAudit
		if err := rows.Scan(&a.ID, &a.WarehouseID, &a.ProductID, &a.SystemQty,
			&a.PhysicalQty, &a.Discrepancy, &a.AuditDate, &a.Auditor); err != nil {
			return nil, fmt.Errorf("scan inventory audit: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
