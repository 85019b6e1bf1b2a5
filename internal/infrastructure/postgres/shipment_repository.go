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

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository sobre PostgreSQL.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create persiste el envío y sus líneas.
func (r *ShipmentRepo) Create(ctx context.Context, shipment *entity.Shipment) error {
	if shipment.ID == "" {
		shipment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO shipments (id, order_id, warehouse_id, carrier, tracking_number, status, ship_date, expected_date, delivered_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query,
		shipment.ID, shipment.OrderID, shipment.WarehouseID, shipment.Carrier, shipment.TrackingNumber,
		string(shipment.Status), shipment.ShipDate, shipment.ExpectedDate, shipment.DeliveredDate,
	); err != nil {
		return fmt.Errorf("create shipment: %w", err)
	}
	itemQuery := `
		INSERT INTO shipment_items (id, shipment_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`
	for _, it := range shipment.Items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, shipment.ID, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("create shipment item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el envío con sus líneas; nil si no existe.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila del envío.
func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.get(ctx, id, true)
}

func (r *ShipmentRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Shipment, error) {
	query := `
		SELECT id, order_id, warehouse_id, carrier, tracking_number, status, ship_date, expected_date, delivered_date
		FROM shipments WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.Shipment
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.OrderID, &s.WarehouseID, &s.Carrier, &s.TrackingNumber,
		&status, &s.ShipDate, &s.ExpectedDate, &s.DeliveredDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	s.Status = entity.ShipmentStatus(status)
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *ShipmentRepo) items(ctx context.Context, shipmentID string) ([]*entity.ShipmentItem, error) {
	query := `
		SELECT id, shipment_id, product_id, quantity
		FROM shipment_items WHERE shipment_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment items: %w", err)
	}
	defer rows.Close()
	var items []*entity.ShipmentItem
	for rows.Next() {
		var it entity.ShipmentItem
		if err := rows.Scan(&it.ID, &it.ShipmentID, &it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan shipment item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateStatus persiste el estado y las fechas del envío.
func (r *ShipmentRepo) UpdateStatus(ctx context.Context, shipment *entity.Shipment) error {
	query := `
		UPDATE shipments SET status = $2, ship_date = $3, delivered_date = $4, tracking_number = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, shipment.ID, string(shipment.Status), shipment.ShipDate, shipment.DeliveredDate, shipment.TrackingNumber)
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	return nil
}

// ListByOrder devuelve todos los envíos de un pedido con sus líneas.
func (r *ShipmentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error) {
	query := `
		SELECT id, order_id, warehouse_id, carrier, tracking_number, status, ship_date, expected_date, delivered_date
		FROM shipments WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list shipments by order: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shipment
	for rows.Next() {
		var s entity.Shipment
		var status string
		if err := rows.Scan(&s.ID, &s.OrderID, &s.WarehouseID, &s.Carrier, &s.TrackingNumber,
			&status, &s.ShipDate, &s.ExpectedDate, &s.DeliveredDate); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		s.Status = entity.ShipmentStatus(status)
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		items, err := r.items(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return list, nil
}

// ItemQtyByProduct suma cantidades por producto entre los envíos del pedido
// (cualquier estado).
func (r *ShipmentRepo) ItemQtyByProduct(ctx context.Context, orderID string) (map[string]int64, error) {
	query := `
		SELECT si.product_id, COALESCE(SUM(si.quantity), 0)
		FROM shipment_items si
		JOIN shipments s ON s.id = si.shipment_id
		WHERE s.order_id = $1
		GROUP BY si.product_id`
	return r.sumByProduct(ctx, query, orderID)
}

// DispatchedQtyByProduct igual pero solo de envíos ya despachados.
func (r *ShipmentRepo) DispatchedQtyByProduct(ctx context.Context, orderID string) (map[string]int64, error) {
	query := `
		SELECT si.product_id, COALESCE(SUM(si.quantity), 0)
		FROM shipment_items si
		JOIN shipments s ON s.id = si.shipment_id
		WHERE s.order_id = $1 AND s.status IN ('in_transit', 'delivered', 'failed')
		GROUP BY si.product_id`
	return r.sumByProduct(ctx, query, orderID)
}

func (r *ShipmentRepo) sumByProduct(ctx context.Context, query, orderID string) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("sum shipment items: %w", err)
	}
	defer rows.Close()
	sums := make(map[string]int64)
	for rows.Next() {
		var productID string
		var qty int64
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan shipment sum: %w", err)
		}
		sums[productID] = qty
	}
	return sums, rows.Err()
}
