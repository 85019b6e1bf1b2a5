package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro del par; si no existe devuelve un registro en cero.
func (r *InventoryRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT warehouse_id, product_id, quantity, reserved_qty, last_updated
		FROM inventory WHERE warehouse_id = $1 AND product_id = $2`
	return r.scanOne(ctx, query, warehouseID, productID)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// Un par sin registro no tendría fila que bloquear y dos primeras recepciones
// concurrentes partirían ambas del registro en cero; por eso se materializa
// primero la fila en cero con ON CONFLICT DO NOTHING y recién entonces se
// bloquea: el segundo escritor espera el lock y lee el estado ya confirmado.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	seed := `
		INSERT INTO inventory (warehouse_id, product_id, quantity, reserved_qty, last_updated)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, seed, warehouseID, productID); err != nil {
		return nil, fmt.Errorf("seed inventory record: %w", err)
	}
	query := `
		SELECT warehouse_id, product_id, quantity, reserved_qty, last_updated
		FROM inventory WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`
	return r.scanOne(ctx, query, warehouseID, productID)
}

func (r *InventoryRepo) scanOne(ctx context.Context, query, warehouseID, productID string) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&rec.WarehouseID, &rec.ProductID, &rec.Quantity, &rec.ReservedQty, &rec.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewInventoryRecord(warehouseID, productID), nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Upsert crea o reemplaza el registro del par. El CHECK de la tabla
// (reserved_qty entre 0 y quantity) respalda en el almacenamiento el
// invariante que las entidades validan en memoria.
func (r *InventoryRepo) Upsert(ctx context.Context, record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory (warehouse_id, product_id, quantity, reserved_qty, last_updated)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_qty = EXCLUDED.reserved_qty, last_updated = now()`
	_, err := r.q.Exec(ctx, query, record.WarehouseID, record.ProductID, record.Quantity, record.ReservedQty)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// ListByWarehouse lista los registros de una bodega (acceso de reporte).
func (r *InventoryRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT warehouse_id, product_id, quantity, reserved_qty, last_updated
		FROM inventory WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory by warehouse: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.WarehouseID, &rec.ProductID, &rec.Quantity, &rec.ReservedQty, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
