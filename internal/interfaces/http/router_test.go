package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistics-engine/internal/application/fulfillment"
	"github.com/jhoicas/logistics-engine/internal/application/inventory"
	"github.com/jhoicas/logistics-engine/internal/application/usecase"
	"github.com/jhoicas/logistics-engine/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/logistics-engine/internal/interfaces/http"
	"github.com/jhoicas/logistics-engine/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp levanta la API completa contra el almacenamiento en memoria.
func buildTestApp() *fiber.App {
	store := memory.NewStore()
	log := logger.Nop()
	stockUC := inventory.NewStockUseCase(store, log)
	allocationUC := inventory.NewAllocationUseCase(store, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		StockUC:     stockUC,
		LedgerUC:    inventory.NewLedgerUseCase(store.Movements(), store.Inventory()),
		AuditUC:     inventory.NewAuditUseCase(store, log),
		OrderUC:     fulfillment.NewOrderUseCase(store, allocationUC, log),
		ShipmentUC:  fulfillment.NewShipmentUseCase(store, stockUC, log),
		PurchaseUC:  fulfillment.NewPurchaseUseCase(store, stockUC, log),
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.Warehouses()),
	})
	return app
}

// doJSON lanza una petición con body JSON y devuelve la respuesta.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_ReceiveYConsulta(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/receive", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
		"quantity":     50,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode,
		"la entrada de stock debe responder 201")

	resp = doJSON(t, app, http.MethodGet, "/api/inventory/wh-1/prod-1", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(50), body["quantity"])
	assert.Equal(t, float64(0), body["reserved_qty"])
	assert.Equal(t, float64(50), body["available"])
}

func TestAPI_ReservaInsuficiente_Retorna409(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/receive", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
		"quantity":     10,
	})
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/inventory/reserve", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
		"quantity":     11,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK",
		"la respuesta debe incluir el código INSUFFICIENT_STOCK")
}

func TestAPI_ReceiveSinCantidad_Retorna400(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/receive", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AdjustSinReason_Retorna400(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/adjust", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
		"quantity":     5,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "VALIDATION")
}

func TestAPI_HistorialDeMovimientos(t *testing.T) {
	app := buildTestApp()

	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/inventory/receive", fiber.Map{
			"warehouse_id": "wh-1",
			"product_id":   "prod-1",
			"quantity":     10,
		})
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/inventory/wh-1/prod-1/movements?limit=2", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var movements []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&movements))
	assert.Len(t, movements, 2, "limit=2 debe acotar la página")
}

func TestAPI_AuditoriaReportaDiscrepancia(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/receive", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
		"quantity":     30,
	})
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/inventory/audits", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
		"physical_qty": 27,
		"auditor":      "maria",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(30), body["system_qty"])
	assert.Equal(t, float64(27), body["physical_qty"])
	assert.Equal(t, float64(-3), body["discrepancy"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoDePedido(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/receive", fiber.Map{
		"warehouse_id": "wh-1",
		"product_id":   "prod-1",
		"quantity":     100,
	})
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/orders/", fiber.Map{
		"customer_id": "cust-1",
		"items": []fiber.Map{
			{"product_id": "prod-1", "quantity": 40, "unit_price": "9.99"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	resp.Body.Close()
	orderID, _ := body["id"].(string)
	require.NotEmpty(t, orderID)
	assert.Equal(t, "pending", body["status"])

	resp = doJSON(t, app, http.MethodPost, "/api/orders/"+orderID+"/allocate", fiber.Map{
		"warehouse_id": "wh-1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/orders/"+orderID, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "allocated", body["status"])
}

func TestAPI_PedidoInexistente_Retorna404(t *testing.T) {
	app := buildTestApp()

	resp := doJSON(t, app, http.MethodGet, "/api/orders/no-existe", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_ProductoDuplicado_Retorna409(t *testing.T) {
	app := buildTestApp()

	create := fiber.Map{"sku": "SKU-001", "name": "Tornillo"}
	resp := doJSON(t, app, http.MethodPost, "/api/products/", create)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/products/", create)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "DUPLICATE")
}
