package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/internal/domain/repository"
)

// WarehouseUseCase administra las bodegas. Igual que con productos, el
// borrado está restringido mientras haya inventario o movimientos asociados.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create da de alta una bodega.
func (uc *WarehouseUseCase) Create(ctx context.Context, w *entity.Warehouse) (*entity.Warehouse, error) {
	if w.Name == "" || w.Code == "" || w.Location == "" {
		return nil, domain.ErrInvalidInput
	}
	if w.Capacity != nil && *w.Capacity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GetByID devuelve la bodega o ErrNotFound.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

// List lista las bodegas paginadas.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.repo.List(ctx, limit, offset)
}

// Delete elimina una bodega sin referencias vivas; con inventario o
// movimientos asociados falla con ErrConflict.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.repo.HasInventoryReferences(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}
