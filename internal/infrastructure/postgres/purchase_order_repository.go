package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden de compra y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_orders (id, supplier_id, warehouse_id, status, order_date, received_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, po.ID, po.SupplierID, po.WarehouseID, string(po.Status), po.OrderDate, po.ReceivedDate); err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	itemQuery := `
		INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	for _, it := range po.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, po.ID, it.ProductID, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("create purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus líneas; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la orden.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, warehouse_id, status, order_date, received_date
		FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var po entity.PurchaseOrder
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.SupplierID, &po.WarehouseID, &status, &po.OrderDate, &po.ReceivedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	po.Status = entity.PurchaseOrderStatus(status)

	itemQuery := `
		SELECT id, purchase_order_id, product_id, quantity, unit_price
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		po.Items = append(po.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &po, nil
}

// UpdateStatus persiste el estado y la fecha de recepción de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `UPDATE purchase_orders SET status = $2, received_date = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, po.ID, string(po.Status), po.ReceivedDate)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// ListBySupplier lista órdenes de un proveedor (sin líneas, para reporte).
func (r *PurchaseOrderRepo) ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, warehouse_id, status, order_date, received_date
		FROM purchase_orders WHERE supplier_id = $1
		ORDER BY order_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, supplierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders by supplier: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		var status string
		if err := rows.Scan(&po.ID, &po.SupplierID, &po.WarehouseID, &status, &po.OrderDate, &po.ReceivedDate); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		po.Status = entity.PurchaseOrderStatus(status)
		list = append(list, &po)
	}
	return list, rows.Err()
}
