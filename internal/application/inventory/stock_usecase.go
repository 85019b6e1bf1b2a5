package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/logistics-engine/internal/domain"
	"github.com/jhoicas/logistics-engine/internal/domain/entity"
	"github.com/jhoicas/logistics-engine/pkg/logger"
)

// MovementRef identifica la entidad que origina un movimiento del libro
// (pedido, compra, envío o acción manual) más una nota libre.
type MovementRef struct {
	ID    string
	Type  string // entity.ReferenceOrder | ReferencePurchase | ReferenceShipment | ReferenceManual
	Notes string
}

// StockUseCase es el único escritor del estado de inventario. Cada operación
// es atómica respecto al par (bodega, producto): corre dentro de TxRunner.Run,
// bloquea la fila con GetForUpdate, aplica la mutación validada en la entidad
// y anexa el movimiento correspondiente antes del Commit. El invariante
// 0 <= reserved_qty <= quantity se sostiene en todo punto observable.
type StockUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx TxRunner, log *logger.Logger) *StockUseCase {
	return &StockUseCase{tx: tx, log: log}
}

// Receive suma qty unidades físicas al par, creando el registro de inventario
// si es la primera recepción, y anexa un movimiento inbound.
// No deduplica recepciones: dos recepciones iguales suman dos veces; la
// idempotencia de reintentos es responsabilidad del caller.
func (uc *StockUseCase) Receive(ctx context.Context, warehouseID, productID string, qty int64, ref MovementRef) error {
	if warehouseID == "" || productID == "" || qty <= 0 {
		return domain.ErrInvalidInput
	}
	if ref.Type == "" {
		ref.Type = entity.ReferenceManual
	}
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		return uc.ReceiveInTx(ctx, r, warehouseID, productID, qty, ref)
	})
	if err != nil {
		return err
	}
	uc.log.Debug().
		Str("warehouse_id", warehouseID).
		Str("product_id", productID).
		Int64("qty", qty).
		Msg("entrada de stock registrada")
	return nil
}

// ReceiveInTx aplica la entrada usando repos ya atados a la transacción del
// caller. Lo usa la recepción de órdenes de compra (package fulfillment).
func (uc *StockUseCase) ReceiveInTx(ctx context.Context, r TxRepos, warehouseID, productID string, qty int64, ref MovementRef) error {
	record, err := r.Inventory.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	if err := record.Receive(qty); err != nil {
		return err
	}
	record.LastUpdated = time.Now()
	if err := r.Inventory.Upsert(ctx, record); err != nil {
		return err
	}
	return r.Movements.Append(ctx, &entity.StockMovement{
		WarehouseID:   warehouseID,
		ProductID:     productID,
		MovementType:  entity.MovementInbound,
		Quantity:      qty,
		ReferenceID:   ref.ID,
		ReferenceType: ref.Type,
		Timestamp:     record.LastUpdated,
		Notes:         ref.Notes,
	})
}

// Reserve incrementa la reserva del par si y solo si hay disponible
// suficiente; si no, falla con ErrInsufficientStock sin reserva parcial.
// No anexa movimiento: la reserva no cambia la cantidad física.
func (uc *StockUseCase) Reserve(ctx context.Context, warehouseID, productID string, qty int64) error {
	if warehouseID == "" || productID == "" || qty <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		record, err := r.Inventory.GetForUpdate(ctx, warehouseID, productID)
		if err != nil {
			return err
		}
		if err := record.Reserve(qty); err != nil {
			return err
		}
		record.LastUpdated = time.Now()
		return r.Inventory.Upsert(ctx, record)
	})
}

// Release libera qty unidades reservadas. Liberar más de lo reservado falla
// con ErrInvalidState: nunca se deja la reserva en negativo en silencio.
func (uc *StockUseCase) Release(ctx context.Context, warehouseID, productID string, qty int64) error {
	if warehouseID == "" || productID == "" || qty <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		record, err := r.Inventory.GetForUpdate(ctx, warehouseID, productID)
		if err != nil {
			return err
		}
		if err := record.Release(qty); err != nil {
			return err
		}
		record.LastUpdated = time.Now()
		return r.Inventory.Upsert(ctx, record)
	})
}

// CommitOutbound consume una reserva previa: descuenta cantidad y reserva a la
// vez y anexa un movimiento outbound con signo negativo. Sin reserva
// suficiente falla con ErrInsufficientReservation.
func (uc *StockUseCase) CommitOutbound(ctx context.Context, warehouseID, productID string, qty int64, ref MovementRef) error {
	if warehouseID == "" || productID == "" || qty <= 0 {
		return domain.ErrInvalidInput
	}
	if ref.Type == "" {
		ref.Type = entity.ReferenceManual
	}
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		return uc.CommitOutboundInTx(ctx, r, warehouseID, productID, qty, ref)
	})
	if err != nil {
		return err
	}
	uc.log.Debug().
		Str("warehouse_id", warehouseID).
		Str("product_id", productID).
		Int64("qty", qty).
		Msg("salida de stock confirmada")
	return nil
}

// CommitOutboundInTx aplica la salida usando repos ya atados a la transacción
// del caller. Lo usa el despacho de envíos (package fulfillment).
func (uc *StockUseCase) CommitOutboundInTx(ctx context.Context, r TxRepos, warehouseID, productID string, qty int64, ref MovementRef) error {
	record, err := r.Inventory.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return err
	}
	if err := record.CommitOutbound(qty); err != nil {
		return err
	}
	record.LastUpdated = time.Now()
	if err := r.Inventory.Upsert(ctx, record); err != nil {
		return err
	}
	return r.Movements.Append(ctx, &entity.StockMovement{
		WarehouseID:   warehouseID,
		ProductID:     productID,
		MovementType:  entity.MovementOutbound,
		Quantity:      -qty,
		ReferenceID:   ref.ID,
		ReferenceType: ref.Type,
		Timestamp:     record.LastUpdated,
		Notes:         ref.Notes,
	})
}

// Adjust aplica una corrección directa con signo (tras una auditoría u otra
// conciliación) y anexa un movimiento adjustment con la razón en las notas.
// Falla con ErrNegativeStock si el resultado quedaría por debajo de cero y
// con ErrInvalidState si quedaría por debajo de lo reservado.
func (uc *StockUseCase) Adjust(ctx context.Context, warehouseID, productID string, delta int64, reason string) error {
	if warehouseID == "" || productID == "" || delta == 0 {
		return domain.ErrInvalidInput
	}
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		record, err := r.Inventory.GetForUpdate(ctx, warehouseID, productID)
		if err != nil {
			return err
		}
		if err := record.Adjust(delta); err != nil {
			return err
		}
		record.LastUpdated = time.Now()
		if err := r.Inventory.Upsert(ctx, record); err != nil {
			return err
		}
		return r.Movements.Append(ctx, &entity.StockMovement{
			WarehouseID:   warehouseID,
			ProductID:     productID,
			MovementType:  entity.MovementAdjustment,
			Quantity:      delta,
			ReferenceType: entity.ReferenceManual,
			Timestamp:     record.LastUpdated,
			Notes:         reason,
		})
	})
	if err != nil {
		return err
	}
	uc.log.Info().
		Str("warehouse_id", warehouseID).
		Str("product_id", productID).
		Int64("delta", delta).
		Str("reason", reason).
		Msg("ajuste de inventario aplicado")
	return nil
}

// Transfer traslada qty unidades disponibles (no reservadas) entre bodegas en
// una sola transacción: resta en origen, suma en destino y anexa dos
// movimientos transfer de signos opuestos.
func (uc *StockUseCase) Transfer(ctx context.Context, fromWarehouseID, toWarehouseID, productID string, qty int64, notes string) error {
	if fromWarehouseID == "" || toWarehouseID == "" || productID == "" || qty <= 0 {
		return domain.ErrInvalidInput
	}
	if fromWarehouseID == toWarehouseID {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		// Las dos filas se bloquean en orden lexicográfico de bodega para que
		// dos traslados de direcciones opuestas nunca se esperen en círculo.
		first, second := fromWarehouseID, toWarehouseID
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*entity.InventoryRecord, 2)
		for _, warehouseID := range []string{first, second} {
			rec, err := r.Inventory.GetForUpdate(ctx, warehouseID, productID)
			if err != nil {
				return err
			}
			locked[warehouseID] = rec
		}
		origin, dest := locked[fromWarehouseID], locked[toWarehouseID]
		if origin.Available() < qty {
			return domain.ErrInsufficientStock
		}
		now := time.Now()
		origin.Quantity -= qty
		origin.LastUpdated = now
		if err := dest.Receive(qty); err != nil {
			return err
		}
		dest.LastUpdated = now
		if err := r.Inventory.Upsert(ctx, origin); err != nil {
			return err
		}
		if err := r.Inventory.Upsert(ctx, dest); err != nil {
			return err
		}
		out := &entity.StockMovement{
			WarehouseID:   fromWarehouseID,
			ProductID:     productID,
			MovementType:  entity.MovementTransfer,
			Quantity:      -qty,
			ReferenceType: entity.ReferenceManual,
			Timestamp:     now,
			Notes:         notes,
		}
		if err := r.Movements.Append(ctx, out); err != nil {
			return err
		}
		in := &entity.StockMovement{
			WarehouseID:   toWarehouseID,
			ProductID:     productID,
			MovementType:  entity.MovementTransfer,
			Quantity:      qty,
			ReferenceType: entity.ReferenceManual,
			Timestamp:     now,
			Notes:         notes,
		}
		return r.Movements.Append(ctx, in)
	})
}
