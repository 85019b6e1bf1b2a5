package postgres

import (
	"context"
	"fmt"
)

// schema DDL completo del motor. Idempotente (IF NOT EXISTS) para que el
// arranque pueda aplicarlo sin migrador externo.
//
// Los CHECK de inventory replican los invariantes del dominio en la base:
// cantidades nunca negativas y reservas acotadas por el stock físico. Las
// rutas de código ya los validan; la base es la última línea de defensa.
const schema = `
CREATE TABLE IF NOT EXISTS warehouses (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	code        TEXT NOT NULL UNIQUE,
	location    TEXT NOT NULL DEFAULT '',
	latitude    DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude   DOUBLE PRECISION NOT NULL DEFAULT 0,
	capacity    BIGINT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id            TEXT PRIMARY KEY,
	sku           TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	weight        DOUBLE PRECISION NOT NULL DEFAULT 0,
	volume        DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit_price    NUMERIC(14,4) NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
	reorder_level BIGINT NOT NULL DEFAULT 0 CHECK (reorder_level >= 0),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS suppliers (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	contact_name TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS customers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS inventory (
	warehouse_id TEXT NOT NULL REFERENCES warehouses(id),
	product_id   TEXT NOT NULL REFERENCES products(id),
	quantity     BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	reserved_qty BIGINT NOT NULL DEFAULT 0 CHECK (reserved_qty >= 0 AND reserved_qty <= quantity),
	last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (warehouse_id, product_id)
);

CREATE TABLE IF NOT EXISTS stock_movements (
	id             TEXT PRIMARY KEY,
	warehouse_id   TEXT NOT NULL REFERENCES warehouses(id),
	product_id     TEXT NOT NULL REFERENCES products(id),
	movement_type  TEXT NOT NULL,
	quantity       BIGINT NOT NULL CHECK (quantity <> 0),
	reference_id   TEXT,
	reference_type TEXT NOT NULL DEFAULT '',
	timestamp      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	notes          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_stock_movements_key ON stock_movements(warehouse_id, product_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_stock_movements_ref ON stock_movements(reference_id);

CREATE TABLE IF NOT EXISTS orders (
	id             TEXT PRIMARY KEY,
	customer_id    TEXT NOT NULL REFERENCES customers(id),
	status         TEXT NOT NULL DEFAULT 'pending',
	priority       INTEGER NOT NULL DEFAULT 0,
	order_date     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	shipped_date   TIMESTAMPTZ,
	delivered_date TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS order_items (
	id            TEXT PRIMARY KEY,
	order_id      TEXT NOT NULL REFERENCES orders(id),
	product_id    TEXT NOT NULL REFERENCES products(id),
	quantity      BIGINT NOT NULL CHECK (quantity > 0),
	unit_price    NUMERIC(14,4) NOT NULL DEFAULT 0,
	allocated_qty BIGINT NOT NULL DEFAULT 0 CHECK (allocated_qty >= 0 AND allocated_qty <= quantity)
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS shipments (
	id              TEXT PRIMARY KEY,
	order_id        TEXT NOT NULL REFERENCES orders(id),
	warehouse_id    TEXT NOT NULL REFERENCES warehouses(id),
	carrier         TEXT NOT NULL DEFAULT '',
	tracking_number TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'preparing',
	ship_date       TIMESTAMPTZ,
	expected_date   TIMESTAMPTZ,
	delivered_date  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_shipments_order ON shipments(order_id);

CREATE TABLE IF NOT EXISTS shipment_items (
	id          TEXT PRIMARY KEY,
	shipment_id TEXT NOT NULL REFERENCES shipments(id),
	product_id  TEXT NOT NULL REFERENCES products(id),
	quantity    BIGINT NOT NULL CHECK (quantity > 0)
);
CREATE INDEX IF NOT EXISTS idx_shipment_items_shipment ON shipment_items(shipment_id);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id            TEXT PRIMARY KEY,
	supplier_id   TEXT NOT NULL REFERENCES suppliers(id),
	warehouse_id  TEXT NOT NULL REFERENCES warehouses(id),
	status        TEXT NOT NULL DEFAULT 'requested',
	order_date    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	received_date TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_purchase_orders_supplier ON purchase_orders(supplier_id);

CREATE TABLE IF NOT EXISTS purchase_order_items (
	id                TEXT PRIMARY KEY,
	purchase_order_id TEXT NOT NULL REFERENCES purchase_orders(id),
	product_id        TEXT NOT NULL REFERENCES products(id),
	quantity          BIGINT NOT NULL CHECK (quantity > 0),
	unit_price        NUMERIC(14,4) NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_purchase_order_items_po ON purchase_order_items(purchase_order_id);

CREATE TABLE IF NOT EXISTS inventory_audits (
	id           TEXT PRIMARY KEY,
	warehouse_id TEXT NOT NULL REFERENCES warehouses(id),
	product_id   TEXT NOT NULL REFERENCES products(id),
	system_qty   BIGINT NOT NULL,
	physical_qty BIGINT NOT NULL CHECK (physical_qty >= 0),
	discrepancy  BIGINT NOT NULL,
	audit_date   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	auditor      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_inventory_audits_key ON inventory_audits(warehouse_id, product_id, audit_date);
`

// EnsureSchema aplica el DDL al arranque.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
