package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/logistics-engine/internal/application/fulfillment"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/application/usecase"
	"github.com/jhoicas/logistics-engine/internal/infrastructure/memory"
	"github.com/jhoicas/logistics-engine/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/logistics-engine/internal/interfaces/http"
	"github.com/jhoicas/logistics-engine/pkg/config"
	"github.com/jhoicas/logistics-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner    inventory.TxRunner
		ledgerUC    *inventory.LedgerUseCase
		productUC   *usecase.ProductUseCase
		warehouseUC *usecase.WarehouseUseCase
	)

	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		txRunner = postgres.NewTxRunner(pool, cfg.DB.LockTimeoutMS)
		ledgerUC = inventory.NewLedgerUseCase(postgres.NewStockMovementRepository(pool), postgres.NewInventoryRepository(pool))
		productUC = usecase.NewProductUseCase(postgres.NewProductRepository(pool))
		warehouseUC = usecase.NewWarehouseUseCase(postgres.NewWarehouseRepository(pool))
	} else {
		// Sin base configurada: almacenamiento en memoria (modo demo/dev).
		log.Warn().Msg("DATABASE_URL/DB_HOST sin definir: usando almacenamiento en memoria")
		store := memory.NewStore()
		txRunner = store
		ledgerUC = inventory.NewLedgerUseCase(store.Movements(), store.Inventory())
		productUC = usecase.NewProductUseCase(store.Products())
		warehouseUC = usecase.NewWarehouseUseCase(store.Warehouses())
	}

	stockUC := inventory.NewStockUseCase(txRunner, log)
	allocationUC := inventory.NewAllocationUseCase(txRunner, log)
	auditUC := inventory.NewAuditUseCase(txRunner, log)
	orderUC := fulfillment.NewOrderUseCase(txRunner, allocationUC, log)
	shipmentUC := fulfillment.NewShipmentUseCase(txRunner, stockUC, log)
	purchaseUC := fulfillment.NewPurchaseUseCase(txRunner, stockUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:     stockUC,
		LedgerUC:    ledgerUC,
		AuditUC:     auditUC,
		OrderUC:     orderUC,
		ShipmentUC:  shipmentUC,
		PurchaseUC:  purchaseUC,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
