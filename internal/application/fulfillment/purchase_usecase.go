package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/pkg/logger"
	"github.com/shopspring/decimal"
)

// PurchaseItemInput línea para crear una orden de compra.
type PurchaseItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// PurchaseUseCase dirige el ciclo de vida de la orden de compra:
// requested → approved → shipped → received, con cancelación válida solo
// antes de recibir. La recepción es la única transición con efecto sobre
// inventario: una entrada por línea contra la bodega de la orden, creando el
// registro de inventario en la primera recepción del par.
type PurchaseUseCase struct {
	tx    inventory.TxRunner
	stock *inventory.StockUseCase
	log   *logger.Logger
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(tx inventory.TxRunner, stock *inventory.StockUseCase, log *logger.Logger) *PurchaseUseCase {
	return &PurchaseUseCase{tx: tx, stock: stock, log: log}
}

// CreatePurchaseOrder crea una orden de compra en requested.
func (uc *PurchaseUseCase) CreatePurchaseOrder(ctx context.Context, supplierID, warehouseID string, items []PurchaseItemInput) (*entity.PurchaseOrder, error) {
	if supplierID == "" || warehouseID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Status:      entity.PurchaseRequested,
		OrderDate:   time.Now(),
	}
	for _, in := range items {
		if in.ProductID == "" || in.Quantity <= 0 || in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		po.Items = append(po.Items, &entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       in.ProductID,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
		})
	}
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		return r.Purchases.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_order_id", po.ID).Str("supplier_id", supplierID).Msg("orden de compra creada")
	return po, nil
}

// Approve pasa la orden de requested a approved.
func (uc *PurchaseUseCase) Approve(ctx context.Context, purchaseOrderID string) error {
	return uc.transition(ctx, purchaseOrderID, entity.PurchaseApproved)
}

// MarkShipped pasa la orden de approved a shipped (el proveedor despachó).
func (uc *PurchaseUseCase) MarkShipped(ctx context.Context, purchaseOrderID string) error {
	return uc.transition(ctx, purchaseOrderID, entity.PurchaseShipped)
}

// Cancel cancela la orden; solo es válido antes de received y no tiene
// efecto sobre inventario.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, purchaseOrderID string) error {
	return uc.transition(ctx, purchaseOrderID, entity.PurchaseCancelled)
}

func (uc *PurchaseUseCase) transition(ctx context.Context, purchaseOrderID string, status entity.PurchaseOrderStatus) error {
	if purchaseOrderID == "" {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		po, err := r.Purchases.GetForUpdate(ctx, purchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if err := po.Transition(status); err != nil {
			return err
		}
		return r.Purchases.UpdateStatus(ctx, po)
	})
}

// Receive pasa la orden de shipped a received y registra la entrada de cada
// línea en la misma transacción. No deduplica: la orden solo puede recibirse
// una vez porque received es estado terminal.
func (uc *PurchaseUseCase) Receive(ctx context.Context, purchaseOrderID string) error {
	if purchaseOrderID == "" {
		return domain.ErrInvalidInput
	}
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		po, err := r.Purchases.GetForUpdate(ctx, purchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if err := po.Transition(entity.PurchaseReceived); err != nil {
			return err
		}
		for _, item := range po.Items {
			ref := inventory.MovementRef{ID: po.ID, Type: entity.ReferencePurchase}
			if err := uc.stock.ReceiveInTx(ctx, r, po.WarehouseID, item.ProductID, item.Quantity, ref); err != nil {
				return err
			}
		}
		now := time.Now()
		po.ReceivedDate = &now
		return r.Purchases.UpdateStatus(ctx, po)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("purchase_order_id", purchaseOrderID).Msg("orden de compra recibida")
	return nil
}

// GetPurchaseOrder devuelve la orden con sus líneas.
func (uc *PurchaseUseCase) GetPurchaseOrder(ctx context.Context, purchaseOrderID string) (*entity.PurchaseOrder, error) {
	if purchaseOrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		var err error
		po, err = r.Purchases.GetByID(ctx, purchaseOrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}
