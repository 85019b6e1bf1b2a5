package repository

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// OrderRepository persiste pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el pedido con sus líneas; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido dentro de la transacción en
	// curso para serializar los cambios de estado.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
	// UpdateItemAllocation persiste el AllocatedQty de una línea.
	UpdateItemAllocation(ctx context.Context, item *entity.OrderItem) error
	// ListByCustomer acceso de reporte por cliente.
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error)
}
