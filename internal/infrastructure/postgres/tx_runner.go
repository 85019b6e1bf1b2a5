package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con repos
// atados a la tx. El bloqueo por fila (SELECT FOR UPDATE en los repos) más el
// Commit atómico garantizan que mutación de inventario y anexo al libro de
// movimientos confirman juntos.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool. lockTimeoutMS acota la espera
// por bloqueos de fila; vencido el plazo la operación falla como retryable.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 3000
	}
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Un timeout de bloqueo se traduce a ErrConflict para que
// el caller reintente.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Cota superior de espera por bloqueos: ninguna operación espera
	// indefinidamente el lock de otro caller.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	repos := inventory.TxRepos{
		Inventory: NewInventoryRepository(tx),
		Movements: NewStockMovementRepository(tx),
		Orders:    NewOrderRepository(tx),
		Shipments: NewShipmentRepository(tx),
		Purchases: NewPurchaseOrderRepository(tx),
		Audits:    NewInventoryAuditRepository(tx),
	}

	if err := fn(repos); err != nil {
		if isLockTimeout(err) {
			return domain.ErrConflict
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// isLockTimeout verifica si el error es lock_not_available (55P03).
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}
