package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

// LedgerUseCase acceso de solo lectura al libro de movimientos y al estado de
// inventario, para la capa de reportes y para conciliación. No participa en
// transacciones: lee directo del pool.
type LedgerUseCase struct {
	movements repository.StockMovementRepository
	inventory repository.InventoryRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(movements repository.StockMovementRepository, inventory repository.InventoryRepository) *LedgerUseCase {
	return &LedgerUseCase{movements: movements, inventory: inventory}
}

// Record devuelve el registro de inventario del par (en cero si no existe).
func (uc *LedgerUseCase) Record(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	if warehouseID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.inventory.Get(ctx, warehouseID, productID)
}

// History devuelve los movimientos del par en orden cronológico, paginados.
func (uc *LedgerUseCase) History(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if warehouseID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.movements.History(ctx, warehouseID, productID, limit, offset)
}

// SumSince devuelve la suma con signo de los movimientos del par desde el
// instante dado. Con since en cero, la suma completa debe coincidir con
// InventoryRecord.Quantity: esa igualdad es la propiedad de conciliación.
func (uc *LedgerUseCase) SumSince(ctx context.Context, warehouseID, productID string, since time.Time) (int64, error) {
	if warehouseID == "" || productID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.movements.SumSince(ctx, warehouseID, productID, since)
}
