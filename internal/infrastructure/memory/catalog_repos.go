package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct {
	store *Store
	tx    *state
}

func (r *ProductRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	return r.with(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == product.SKU {
				return domain.ErrDuplicate
			}
		}
		cp := *product
		st.products[product.ID] = &cp
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.with(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				cp := *p
				out = &cp
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.with(func(st *state) error {
		for _, p := range st.products {
			cp := *p
			out = append(out, &cp)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) HasInventoryReferences(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.with(func(st *state) error {
		for _, rec := range st.inventory {
			if rec.ProductID == id {
				found = true
				return nil
			}
		}
		for _, m := range st.movements {
			if m.ProductID == id {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.with(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.products, id)
		return nil
	})
}

// WarehouseRepo catálogo de bodegas en memoria.
type WarehouseRepo struct {
	store *Store
	tx    *state
}

func (r *WarehouseRepo) with(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.view(fn)
}

func (r *WarehouseRepo) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	if warehouse.ID == "" {
		warehouse.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if warehouse.CreatedAt.IsZero() {
		warehouse.CreatedAt = now
	}
	warehouse.UpdatedAt = now
	return r.with(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == warehouse.Code {
				return domain.ErrDuplicate
			}
		}
		cw := *warehouse
		st.warehouses[warehouse.ID] = &cw
		return nil
	})
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.with(func(st *state) error {
		w, ok := st.warehouses[id]
		if !ok {
			return domain.ErrNotFound
		}
		cw := *w
		out = &cw
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.with(func(st *state) error {
		for _, w := range st.warehouses {
			cw := *w
			out = append(out, &cw)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
		out = page(out, limit, offset)
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) HasInventoryReferences(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.with(func(st *state) error {
		for _, rec := range st.inventory {
			if rec.WarehouseID == id {
				found = true
				return nil
			}
		}
		for _, m := range st.movements {
			if m.WarehouseID == id {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *WarehouseRepo) Delete(ctx context.Context, id string) error {
	return r.with(func(st *state) error {
		if _, ok := st.warehouses[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.warehouses, id)
		return nil
	})
}
