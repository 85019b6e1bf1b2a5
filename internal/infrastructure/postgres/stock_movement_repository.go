package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: el libro es append-only por contrato y la tabla no
// recibe UPDATE ni DELETE desde ninguna ruta de código.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append anexa un movimiento inmutable, asignando ID si viene vacío.
func (r *StockMovementRepo) Append(ctx context.Context, movement *entity.StockMovement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.Timestamp.IsZero() {
		movement.Timestamp = time.Now()
	}
	query := `
		INSERT INTO stock_movements (id, warehouse_id, product_id, movement_type, quantity, reference_id, reference_type, timestamp, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	refID := (*string)(nil)
	if movement.ReferenceID != "" {
		refID = &movement.ReferenceID
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.WarehouseID, movement.ProductID, movement.MovementType,
		movement.Quantity, refID, movement.ReferenceType, movement.Timestamp, movement.Notes,
	)
	if err != nil {
		return fmt.Errorf("append stock movement: %w", err)
	}
	return nil
}

// SumSince suma con signo los movimientos del par desde el instante dado.
func (r *StockMovementRepo) SumSince(ctx context.Context, warehouseID, productID string, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE warehouse_id = $1 AND product_id = $2 AND timestamp >= $3`
	var sum int64
	if err := r.q.QueryRow(ctx, query, warehouseID, productID, since).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

// History devuelve los movimientos del par en orden de anexado, paginados.
// El desempate por id mantiene estable el orden entre movimientos con el
// mismo timestamp (p. ej. los dos lados de un traslado).
func (r *StockMovementRepo) History(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, warehouse_id, product_id, movement_type, quantity, reference_id, reference_type, timestamp, notes
		FROM stock_movements
		WHERE warehouse_id = $1 AND product_id = $2
		ORDER BY timestamp ASC, id ASC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, warehouseID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("stock movement history: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var refID *string
		if err := rows.Scan(&m.ID, &m.WarehouseID, &m.ProductID, &m.MovementType,
			&m.Quantity, &refID, &m.ReferenceType, &m.Timestamp, &m.Notes); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if refID != nil {
			m.ReferenceID = *refID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
