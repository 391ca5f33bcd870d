package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/config"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/invoice"
	"github.com/sangkips/tablepos-api/internal/infrastructure/database"
	"github.com/sangkips/tablepos-api/internal/infrastructure/memory"
	"github.com/sangkips/tablepos-api/internal/infrastructure/messaging"
	"github.com/sangkips/tablepos-api/internal/presentation/http/handler"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	kitchen *printer.MemoryPrinter
}

func newTestServer(t *testing.T, rateLimit config.RateLimitConfig) *testServer {
	t.Helper()
	log := zap.NewNop()

	catalog := memory.NewCatalogRepository(database.DemoCatalog()...)
	promotions := service.NewPromotionService(memory.NewPromotionRepository(), catalog, log)
	sales := service.NewSaleService(memory.NewInvoiceRepository(), catalog, promotions, messaging.NopPublisher{},
		invoice.ZeroTax{}, service.SaleSettings{InvoicePrefix: "ANN"}, log)
	carts := service.NewCartService(memory.NewCartStore(), catalog, promotions, sales, log)
	kitchen := printer.NewMemoryPrinter()
	printers := service.NewPrinterService(printer.NewMemoryPrinter(), kitchen, sales, service.PrinterSettings{
		ReceiptType: "memory",
		KitchenType: "memory",
		Header:      entity.ReceiptHeader{StoreName: "TablePOS"},
	}, log)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "tablepos-api"},
		RateLimit: rateLimit,
	}
	limiter := NewRateLimiter(&cfg.RateLimit)
	t.Cleanup(limiter.Stop)

	router := Setup(&Handlers{
		Health:    handler.NewHealthHandler(cfg.App.Name, nil),
		Product:   handler.NewProductHandler(service.NewCatalogService(catalog)),
		Cart:      handler.NewCartHandler(carts),
		Promotion: handler.NewPromotionHandler(promotions),
		Sale:      handler.NewSaleHandler(sales),
		Printer:   handler.NewPrinterHandler(printers),
	}, &Deps{
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: memory.NewIdempotencyRepository(),
		RateLimiter:     limiter,
	})

	return &testServer{t: t, router: router, kitchen: kitchen}
}

func (s *testServer) do(method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func terminal(id string) map[string]string {
	return map[string]string{"X-Terminal-ID": id}
}

func withKey(id, key string) map[string]string {
	return map[string]string{"X-Terminal-ID": id, "Idempotency-Key": key}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	w, _ := s.do(http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	w, env := s.do(http.MethodGet, "/api/v1/products/102", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	product := decode[entity.Product](t, env.Data)
	assert.Equal(t, "Idli", product.Name)
	assert.Len(t, product.Variants, 2)

	w, env = s.do(http.MethodGet, "/api/v1/products/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestCartCheckoutFlow(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	w, _ := s.do(http.MethodPost, "/api/v1/promotions", map[string]any{
		"code":    "SAVE10",
		"type":    "PERCENT",
		"trigger": map[string]any{"kind": "ANY"},
		"reward":  map[string]any{"percent": 10},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"product_code": "101", "quantity": 3}, terminal("till-1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[service.CartView](t, env.Data)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "30.00", view.SubTotal.StringFixed(2))

	w, env = s.do(http.MethodPost, "/api/v1/cart/promotion", map[string]any{"code": "SAVE10"}, terminal("till-1"))
	require.Equal(t, http.StatusOK, w.Code)
	applied := decode[struct {
		Promotion entity.PromotionResult `json:"promotion"`
		Cart      service.CartView       `json:"cart"`
	}](t, env.Data)
	assert.True(t, applied.Promotion.Valid)
	assert.Equal(t, "27.00", applied.Cart.GrandTotal.StringFixed(2))

	w, env = s.do(http.MethodGet, "/api/v1/cart/kitchen-ticket", nil, terminal("till-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "price")

	w, _ = s.do(http.MethodPost, "/api/v1/cart/checkout", nil, terminal("till-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code, "checkout needs an Idempotency-Key")

	w, env = s.do(http.MethodPost, "/api/v1/cart/checkout", map[string]any{}, withKey("till-1", "k-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[entity.Invoice](t, env.Data)
	assert.Equal(t, "ANN-000001", inv.InvoiceNo)
	assert.Equal(t, "27.00", inv.GrandTotal.StringFixed(2))

	w, env = s.do(http.MethodPost, "/api/v1/cart/checkout", map[string]any{}, withKey("till-1", "k-1"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, "ANN-000001", decode[entity.Invoice](t, env.Data).InvoiceNo)

	w, env = s.do(http.MethodPost, "/api/v1/cart/checkout", map[string]any{}, withKey("till-1", "k-2"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", env.Message)
}

func TestIdempotencyKeyIsBoundToEndpoint(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	s.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"product_code": "101", "quantity": 1}, terminal("till-1"))
	w, _ := s.do(http.MethodPost, "/api/v1/cart/checkout", map[string]any{}, withKey("till-1", "shared"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(http.MethodPost, "/api/v1/sales", map[string]any{
		"items": []map[string]any{{"product_code": "101", "quantity": 2}},
	}, withKey("till-1", "shared"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, "Idempotency-Key was already used for a different request", env.Message)

	// the same key on another terminal is unrelated
	w, _ = s.do(http.MethodPost, "/api/v1/sales", map[string]any{
		"items": []map[string]any{{"product_code": "101", "quantity": 2}},
	}, withKey("till-2", "shared"))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCartIsPerTerminal(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	w, _ := s.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"product_code": "101"}, terminal("till-1"))
	require.Equal(t, http.StatusOK, w.Code)

	_, env := s.do(http.MethodGet, "/api/v1/cart", nil, terminal("till-2"))
	assert.Empty(t, decode[service.CartView](t, env.Data).Items)

	_, env = s.do(http.MethodGet, "/api/v1/cart", nil, terminal("till-1"))
	assert.Len(t, decode[service.CartView](t, env.Data).Items, 1)

	w, _ = s.do(http.MethodGet, "/api/v1/cart", nil, terminal("bad id!"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartLineControls(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})
	h := terminal("till-1")

	s.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"product_code": "201", "variant_id": "large"}, h)

	_, env := s.do(http.MethodPost, "/api/v1/cart/items/201:large/increment", nil, h)
	view := decode[service.CartView](t, env.Data)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	_, env = s.do(http.MethodPost, "/api/v1/cart/items/201:large/decrement", nil, h)
	assert.Equal(t, 1, decode[service.CartView](t, env.Data).Items[0].Quantity)

	_, env = s.do(http.MethodDelete, "/api/v1/cart/items/201:large", nil, h)
	assert.Empty(t, decode[service.CartView](t, env.Data).Items)
}

func TestPromotionValidationErrors(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	w, env := s.do(http.MethodPost, "/api/v1/promotions", map[string]any{
		"code":    "BAD",
		"type":    "BOGO",
		"trigger": map[string]any{"kind": "PRODUCT"},
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	fields := map[string]bool{}
	for _, e := range env.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["trigger.product_code"])
	assert.True(t, fields["reward.buy_qty"])
	assert.True(t, fields["reward.get_qty"])

	w, _ = s.do(http.MethodGet, "/api/v1/promotions/BAD", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/promotions", map[string]any{
		"code":    strings.Repeat("X", 51),
		"type":    "AMOUNT",
		"trigger": map[string]any{"kind": "ANY"},
		"reward":  map[string]any{"amount": 5},
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "code", env.Errors[0].Field)
}

func TestStatelessPromotionApply(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	s.do(http.MethodPost, "/api/v1/promotions", map[string]any{
		"code":    "BIG50",
		"type":    "PERCENT",
		"trigger": map[string]any{"kind": "ANY", "min_purchase": 50},
		"reward":  map[string]any{"percent": 10},
	}, nil)

	w, env := s.do(http.MethodPost, "/api/v1/promotions/apply", map[string]any{"code": "BIG50", "items": []any{}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[entity.PromotionResult](t, env.Data)
	assert.False(t, result.Valid)
	assert.Equal(t, "Minimum not met", result.Message)
}

func TestSaleLifecycle(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})
	h := withKey("till-1", "sale-1")

	w, env := s.do(http.MethodPost, "/api/v1/sales", map[string]any{
		"items": []map[string]any{{"product_code": "101", "quantity": 2}},
	}, h)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[entity.Invoice](t, env.Data)
	assert.Equal(t, "Cash", inv.PaymentMode)

	_, env = s.do(http.MethodGet, "/api/v1/sales", nil, nil)
	list := decode[struct {
		Items []entity.Invoice `json:"items"`
	}](t, env.Data)
	assert.Len(t, list.Items, 1)

	w, env = s.do(http.MethodPatch, "/api/v1/sales/"+inv.InvoiceNo+"/cancel", map[string]any{}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "reason", env.Errors[0].Field)

	w, _ = s.do(http.MethodPatch, "/api/v1/sales/"+inv.InvoiceNo+"/cancel", map[string]any{"reason": "Customer left"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPatch, "/api/v1/sales/"+inv.InvoiceNo+"/cancel", map[string]any{"reason": "again"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Invoice already cancelled", env.Message)

	_, env = s.do(http.MethodGet, "/api/v1/sales", nil, nil)
	assert.Empty(t, decode[struct {
		Items []entity.Invoice `json:"items"`
	}](t, env.Data).Items)

	_, env = s.do(http.MethodGet, "/api/v1/sales?status=all", nil, nil)
	assert.Len(t, decode[struct {
		Items []entity.Invoice `json:"items"`
	}](t, env.Data).Items, 1)

	w, env = s.do(http.MethodGet, "/api/v1/sales/"+inv.InvoiceNo, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Customer left", decode[entity.Invoice](t, env.Data).CancelReason)

	w, _ = s.do(http.MethodGet, "/api/v1/sales?status=Paid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPatch, "/api/v1/sales/ANN-999999/cancel", map[string]any{"reason": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrintKitchenTicket(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 100, Duration: 60})

	_, env := s.do(http.MethodPost, "/api/v1/sales", map[string]any{
		"items": []map[string]any{{"product_code": "500", "quantity": 2}},
	}, withKey("till-1", "sale-1"))
	inv := decode[entity.Invoice](t, env.Data)

	w, _ := s.do(http.MethodPost, "/api/v1/sales/"+inv.InvoiceNo+"/print/kitchen", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(s.kitchen.Last()), "2 x Gulab Jamun")
}

func TestRateLimitPerTerminal(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 2, Duration: 3600})

	for i := 0; i < 2; i++ {
		w, _ := s.do(http.MethodGet, "/api/v1/cart", nil, terminal("till-1"))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, _ := s.do(http.MethodGet, "/api/v1/cart", nil, terminal("till-1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/cart", nil, terminal("till-2"))
	assert.Equal(t, http.StatusOK, w.Code)
}
