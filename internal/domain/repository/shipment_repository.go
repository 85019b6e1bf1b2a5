package repository

import (
	"context"

	"github.com/jhoicas/logistics-engine/internal/domain/entity"
)

// ShipmentRepository persiste envíos y sus líneas.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error)
	UpdateStatus(ctx context.Context, shipment *entity.Shipment) error
	// ListByOrder devuelve todos los envíos de un pedido con sus líneas.
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Shipment, error)
	// ItemQtyByProduct suma las cantidades por producto entre los envíos del
	// pedido (cualquier estado). Sirve para validar el techo de AllocatedQty
	// al crear un envío nuevo.
	ItemQtyByProduct(ctx context.Context, orderID string) (map[string]int64, error)
	// DispatchedQtyByProduct igual pero solo de envíos ya despachados
	// (in_transit, delivered, failed): lo que realmente salió de bodega.
	DispatchedQtyByProduct(ctx context.Context, orderID string) (map[string]int64, error)
}
