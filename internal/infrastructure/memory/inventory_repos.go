package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

var (
	_ repository.InventoryRepository      = (*InventoryRepo)(nil)
	_ repository.StockMovementRepository  = (*StockMovementRepo)(nil)
	_ repository.InventoryAuditRepository = (*InventoryAuditRepo)(nil)
)

// InventoryRepo registros de inventario en memoria. Con tx atado opera sobre
// la copia transaccional; sin tx, sobre el estado vigente bajo el mutex.
type InventoryRepo struct {
	store *Store
	tx    *state
}

func (r *InventoryRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *InventoryRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.with(func(st *state) error {
		if rec, ok := st.inventory[invKey(warehouseID, productID)]; ok {
			out = cloneRecord(rec)
			return nil
		}
		out = entity.NewInventoryRecord(warehouseID, productID)
		return nil
	})
	return out, err
}

// GetForUpdate en memoria es idéntico a Get: el mutex del Store ya serializa
// a los escritores durante toda la transacción.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	return r.Get(ctx, warehouseID, productID)
}

func (r *InventoryRepo) Upsert(ctx context.Context, record *entity.InventoryRecord) error {
	return r.with(func(st *state) error {
		rec := cloneRecord(record)
		rec.LastUpdated = time.Now().UTC()
		st.inventory[invKey(rec.WarehouseID, rec.ProductID)] = rec
		return nil
	})
}

func (r *InventoryRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	err := r.with(func(st *state) error {
		for _, rec := range st.inventory {
			if rec.WarehouseID == warehouseID {
				out = append(out, cloneRecord(rec))
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

// StockMovementRepo libro de movimientos en memoria, append-only.
type StockMovementRepo struct {
	store *Store
	tx    *state
}

func (r *StockMovementRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *StockMovementRepo) Append(ctx context.Context, movement *entity.StockMovement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.Timestamp.IsZero() {
		movement.Timestamp = time.Now().UTC()
	}
	m := *movement
	return r.with(func(st *state) error {
		st.movements = append(st.movements, &m)
		return nil
	})
}

func (r *StockMovementRepo) SumSince(ctx context.Context, warehouseID, productID string, since time.Time) (int64, error) {
	var sum int64
	err := r.with(func(st *state) error {
		for _, m := range st.movements {
			if m.WarehouseID == warehouseID && m.ProductID == productID && !m.Timestamp.Before(since) {
				sum += m.Quantity
			}
		}
		return nil
	})
	return sum, err
}

func (r *StockMovementRepo) History(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.with(func(st *state) error {
		for _, m := range st.movements {
			if m.WarehouseID == warehouseID && m.ProductID == productID {
				// Copia por lectura: el libro es inmutable una vez anexado.
				c := *m
				out = append(out, &c)
			}
		}
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

// InventoryAuditRepo snapshots de auditoría en memoria.
type InventoryAuditRepo struct {
	store *Store
	tx    *state
}

func (r *InventoryAuditRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *InventoryAuditRepo) Create(ctx context.Context, audit *entity.InventoryAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}
	a := *audit
	return r.with(func(st *state) error {
		st.audits = append(st.audits, &a)
		return nil
	})
}

func (r *InventoryAuditRepo) ListByKey(ctx context.Context, warehouseID, productID string, limit, offset int) ([]*entity.InventoryAudit, error) {
	var out []*entity.InventoryAudit
	err := r.with(func(st *state) error {
		for _, a := range st.audits {
			if a.WarehouseID == warehouseID && a.ProductID == productID {
				c := *a
				out = append(out, &c)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].AuditDate.After(out[j].AuditDate) })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

// page aplica limit/offset sobre un slice ya ordenado.
func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
