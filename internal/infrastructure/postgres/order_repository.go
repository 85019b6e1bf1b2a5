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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido y sus líneas.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (id, customer_id, status, priority, order_date)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, order.ID, order.CustomerID, string(order.Status), order.Priority, order.OrderDate); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, allocated_qty)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range order.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, order.ID, it.ProductID, it.Quantity, it.UnitPrice, it.AllocatedQty); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el pedido con sus líneas; nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila del pedido.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, true)
}

func (r *OrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Order, error) {
	query := `
		SELECT id, customer_id, status, priority, order_date, shipped_date, delivered_date
		FROM orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o entity.Order
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &status, &o.Priority, &o.OrderDate, &o.ShippedDate, &o.DeliveredDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatus(status)

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, allocated_qty
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.AllocatedQty); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus persiste el estado y las fechas de ciclo de vida del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, shipped_date = $3, delivered_date = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, order.ID, string(order.Status), order.ShippedDate, order.DeliveredDate)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateItemAllocation persiste el AllocatedQty de una línea.
func (r *OrderRepo) UpdateItemAllocation(ctx context.Context, item *entity.OrderItem) error {
	query := `UPDATE order_items SET allocated_qty = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, item.ID, item.AllocatedQty)
	if err != nil {
		return fmt.Errorf("update order item allocation: %w", err)
	}
	return nil
}

// ListByCustomer lista los pedidos de un cliente (sin líneas, para reporte).
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT id, customer_id, status, priority, order_date, shipped_date, delivered_date
		FROM orders WHERE customer_id = $1
		ORDER BY order_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders by customer: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		var status string
		if err := rows.Scan(&o.ID, &o.CustomerID, &status, &o.Priority, &o.OrderDate, &o.ShippedDate, &o.DeliveredDate); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(status)
		list = append(list, &o)
	}
	return list, rows.Err()
}
