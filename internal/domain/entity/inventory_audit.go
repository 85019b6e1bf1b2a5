package entity

import "time"

// InventoryAudit compara la cantidad del sistema contra un conteo físico.
// Es un registro de una sola escritura: la auditoría observa, no corrige;
// un ajuste correctivo posterior es un movimiento aparte si se acepta.
type InventoryAudit struct {
	ID          string
	WarehouseID string
	ProductID   string
	SystemQty   int64
	PhysicalQty int64
	Discrepancy int64 // PhysicalQty - SystemQty
	AuditDate   time.Time
	Auditor     string
}

// NewInventoryAudit construye el snapshot calculando la discrepancia.
func NewInventoryAudit(warehouseID, productID string, systemQty, physicalQty int64, auditor string, at time.Time) *InventoryAudit {
	return &InventoryAudit{
		WarehouseID: warehouseID,
		ProductID:   productID,
		SystemQty:   systemQty,
		PhysicalQty: physicalQty,
		Discrepancy: physicalQty - systemQty,
		AuditDate:   at,
		Auditor:     auditor,
	}
}
