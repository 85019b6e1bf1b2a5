package repository

import (
	"context"
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// StockMovementRepository es el libro append-only de movimientos. No expone
// Update ni Delete: las correcciones son movimientos nuevos de signo opuesto.
type StockMovementRepository interface {
	// Append anexa un movimiento inmutable y asigna ID si viene vacío.
	// Rechaza con ErrInvalidMovement entradas malformadas.
	Append(ctx context.Context, movement *entity.StockMovement) error
	// SumSince devuelve la suma con signo de los movimientos del par desde
	// el instante dado (conciliación contra InventoryRecord.Quantity).
	SumSince(ctx context.Context, warehouseID, productID string, since time.Time) (int64, error)
	// History devuelve los movimientos del par en orden cronológico de
	// anexado, paginados.
	History(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
