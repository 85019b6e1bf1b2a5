package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/pkg/logger"
)

// AuditUseCase concilia la cantidad del sistema contra conteos físicos.
// La auditoría es observacional: registra la discrepancia sin tocar el
// inventario vivo. Aplicar la corrección es una decisión aparte que pasa por
// StockUseCase.Adjust.
type AuditUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(tx TxRunner, log *logger.Logger) *AuditUseCase {
	return &AuditUseCase{tx: tx, log: log}
}

// Audit lee la cantidad actual del sistema (un par sin registro cuenta como
// cero), calcula discrepancy = physical - system y persiste el snapshot.
// Siempre tiene éxito con entradas bien formadas.
func (uc *AuditUseCase) Audit(ctx context.Context, warehouseID, productID string, physicalQty int64, auditor string) (*entity.InventoryAudit, error) {
	if warehouseID == "" || productID == "" || physicalQty < 0 {
		return nil, domain.ErrInvalidInput
	}
	var audit *entity.InventoryAudit
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		record, err := r.Inventory.Get(ctx, warehouseID, productID)
		if err != nil {
			return err
		}
		audit = entity.NewInventoryAudit(warehouseID, productID, record.Quantity, physicalQty, auditor, time.Now())
		return r.Audits.Create(ctx, audit)
	})
	if err != nil {
		return nil, err
	}
	if audit.Discrepancy != 0 {
		uc.log.Warn().
			Str("warehouse_id", warehouseID).
			Str("product_id", productID).
			Int64("system_qty", audit.SystemQty).
			Int64("physical_qty", audit.PhysicalQty).
			Int64("discrepancy", audit.Discrepancy).
			Str("auditor", auditor).
			Msg("discrepancia de inventario detectada")
	}
	return audit, nil
}
