package dto

import (
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// StockOperationRequest body para las operaciones de stock
// (receive, reserve, release, commit, adjust).
type StockOperationRequest struct {
	WarehouseID   string `json:"warehouse_id"`
	ProductID     string `json:"product_id"`
	Quantity      int64  `json:"quantity"`
	ReferenceID   string `json:"reference_id,omitempty"`
	ReferenceType string `json:"reference_type,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	Notes           string `json:"notes,omitempty"`
}

// AuditRequest body para POST /api/inventory/audits.
type AuditRequest struct {
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	PhysicalQty int64  `json:"physical_qty"`
	Auditor     string `json:"auditor"`
}

// InventoryRecordDTO respuesta con el estado de un par (bodega, producto).
type InventoryRecordDTO struct {
	WarehouseID string    `json:"warehouse_id"`
	ProductID   string    `json:"product_id"`
	Quantity    int64     `json:"quantity"`
	ReservedQty int64     `json:"reserved_qty"`
	Available   int64     `json:"available"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewInventoryRecordDTO adapta la entidad a la respuesta HTTP.
func NewInventoryRecordDTO(r *entity.InventoryRecord) InventoryRecordDTO {
	return InventoryRecordDTO{
		WarehouseID: r.WarehouseID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		ReservedQty: r.ReservedQty,
		Available:   r.Available(),
		LastUpdated: r.LastUpdated,
	}
}

// StockMovementDTO entrada del libro de movimientos en respuestas.
type StockMovementDTO struct {
	ID            string    `json:"id"`
	WarehouseID   string    `json:"warehouse_id"`
	ProductID     string    `json:"product_id"`
	MovementType  string    `json:"movement_type"`
	Quantity      int64     `json:"quantity"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	ReferenceType string    `json:"reference_type"`
	Timestamp     time.Time `json:"timestamp"`
	Notes         string    `json:"notes,omitempty"`
}

// NewStockMovementDTO adapta la entidad a la respuesta HTTP.
func NewStockMovementDTO(m *entity.StockMovement) StockMovementDTO {
	return StockMovementDTO{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		ProductID:     m.ProductID,
		MovementType:  m.MovementType,
		Quantity:      m.Quantity,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		Timestamp:     m.Timestamp,
		Notes:         m.Notes,
	}
}

// InventoryAuditDTO respuesta de una auditoría registrada.
type InventoryAuditDTO struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	ProductID   string    `json:"product_id"`
	SystemQty   int64     `json:"system_qty"`
	PhysicalQty int64     `json:"physical_qty"`
	Discrepancy int64     `json:"discrepancy"`
	AuditDate   time.Time `json:"audit_date"`
	Auditor     string    `json:"auditor,omitempty"`
}

// NewInventoryAuditDTO adapta la entidad a la respuesta HTTP.
func NewInventoryAuditDTO(a *entity.InventoryAudit) InventoryAuditDTO {
	return InventoryAuditDTO{
		ID:          a.ID,
		WarehouseID: a.WarehouseID,
		ProductID:   a.ProductID,
		SystemQty:   a.SystemQty,
		PhysicalQty: a.PhysicalQty,
		Discrepancy: a.Discrepancy,
		AuditDate:   a.AuditDate,
		Auditor:     a.Auditor,
	}
}
