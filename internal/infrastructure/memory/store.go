// Package memory implementa los repositorios del dominio sobre mapas en
// proceso. Es el backend de modo demo y de las pruebas de casos de uso:
// mismo contrato que el backend PostgreSQL, sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// state es el contenido completo del almacén. Las transacciones operan sobre
// una copia profunda y la promueven al confirmar; un error descarta la copia,
// que es el equivalente exacto del Rollback de la base.
type state struct {
	inventory  map[string]*entity.InventoryRecord // clave: warehouseID + "/" + productID
	movements  []*entity.StockMovement
	orders     map[string]*entity.Order
	shipments  map[string]*entity.Shipment
	purchases  map[string]*entity.PurchaseOrder
	audits     []*entity.InventoryAudit
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
}

func newState() *state {
	return &state{
		inventory:  make(map[string]*entity.InventoryRecord),
		orders:     make(map[string]*entity.Order),
		shipments:  make(map[string]*entity.Shipment),
		purchases:  make(map[string]*entity.PurchaseOrder),
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

// clone copia profunda del estado. Los movimientos y auditorías son inmutables
// una vez anexados, así que basta con copiar los slices.
func (st *state) clone() *state {
	c := newState()
	for k, rec := range st.inventory {
		c.inventory[k] = cloneRecord(rec)
	}
	c.movements = append([]*entity.StockMovement(nil), st.movements...)
	c.audits = append([]*entity.InventoryAudit(nil), st.audits...)
	for k, o := range st.orders {
		c.orders[k] = cloneOrder(o)
	}
	for k, s := range st.shipments {
		c.shipments[k] = cloneShipment(s)
	}
	for k, p := range st.purchases {
		c.purchases[k] = clonePurchaseOrder(p)
	}
	for k, p := range st.products {
		cp := *p
		c.products[k] = &cp
	}
	for k, w := range st.warehouses {
		cw := *w
		if w.Capacity != nil {
			cap := *w.Capacity
			cw.Capacity = &cap
		}
		c.warehouses[k] = &cw
	}
	return c
}

func invKey(warehouseID, productID string) string {
	return warehouseID + "/" + productID
}

func cloneRecord(r *entity.InventoryRecord) *entity.InventoryRecord {
	c := *r
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = make([]*entity.OrderItem, len(o.Items))
	for i, it := range o.Items {
		ci := *it
		c.Items[i] = &ci
	}
	return &c
}

func cloneShipment(s *entity.Shipment) *entity.Shipment {
	c := *s
	c.Items = make([]*entity.ShipmentItem, len(s.Items))
	for i, it := range s.Items {
		ci := *it
		c.Items[i] = &ci
	}
	return &c
}

func clonePurchaseOrder(p *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *p
	c.Items = make([]*entity.PurchaseOrderItem, len(p.Items))
	for i, it := range p.Items {
		ci := *it
		c.Items[i] = &ci
	}
	return &c
}

// Store almacén en memoria. Un único mutex serializa transacciones y lecturas:
// suficiente para demo y pruebas, donde la contención es parte del escenario y
// no un problema de rendimiento.
type Store struct {
	mu sync.Mutex
	st *state
}

var _ inventory.TxRunner = (*Store)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado con el mutex tomado. Si fn
// devuelve nil la copia se promueve a estado vigente; si devuelve error la
// copia se descarta y el estado queda intacto.
func (s *Store) Run(ctx context.Context, fn func(r inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	repos := inventory.TxRepos{
		Inventory: &InventoryRepo{tx: next},
		Movements: &StockMovementRepo{tx: next},
		Orders:    &OrderRepo{tx: next},
		Shipments: &ShipmentRepo{tx: next},
		Purchases: &PurchaseOrderRepo{tx: next},
		Audits:    &InventoryAuditRepo{tx: next},
	}
	if err := fn(repos); err != nil {
		return err
	}
	s.st = next
	return nil
}

// view ejecuta fn con acceso exclusivo al estado vigente (lecturas y
// escrituras fuera de transacción).
func (s *Store) view(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Inventory devuelve un repositorio de inventario atado al estado vigente.
func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{store: s} }

// Movements devuelve el libro de movimientos atado al estado vigente.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{store: s} }

// Orders devuelve un repositorio de pedidos atado al estado vigente.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{store: s} }

// Shipments devuelve un repositorio de envíos atado al estado vigente.
func (s *Store) Shipments() *ShipmentRepo { return &ShipmentRepo{store: s} }

// Purchases devuelve un repositorio de órdenes de compra atado al estado vigente.
func (s *Store) Purchases() *PurchaseOrderRepo { return &PurchaseOrderRepo{store: s} }

// Audits devuelve un repositorio de auditorías atado al estado vigente.
func (s *Store) Audits() *InventoryAuditRepo { return &InventoryAuditRepo{store: s} }

// Products devuelve el catálogo de productos atado al estado vigente.
func (s *Store) Products() *ProductRepo { return &ProductRepo{store: s} }

// Warehouses devuelve el catálogo de bodegas atado al estado vigente.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{store: s} }
