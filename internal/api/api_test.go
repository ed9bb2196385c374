package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/andresuchdata/stockcash/internal/analytics"
	"github.com/andresuchdata/stockcash/internal/config"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/lock"
	"github.com/andresuchdata/stockcash/internal/repository/memory"
	"github.com/andresuchdata/stockcash/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

type testAPI struct {
	router   *gin.Engine
	store    *memory.Store
	location domain.Location
	empty    domain.Location
	supplier domain.Supplier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return fixedNow }
	store := memory.NewStore()

	supplier := store.AddSupplier(domain.Supplier{Name: "Acme", Code: "ACME", LeadTimeDays: 10})
	location := store.AddLocation(domain.Location{Name: "Main", Code: "MAIN"})
	empty := store.AddLocation(domain.Location{Name: "Annex", Code: "ANX"})
	product := store.AddProduct(domain.Product{SKU: "SKU-1", Name: "Widget", SupplierID: supplier.ID, UnitCost: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(10)})
	store.AddInventory(domain.InventoryRecord{ProductID: product.ID, LocationID: location.ID, OnHand: 20})
	for i := 0; i < 30; i++ {
		store.AddSale(domain.SalesTransaction{Date: fixedNow.AddDate(0, 0, -i), ProductID: product.ID, LocationID: location.ID, UnitsSold: 4, Revenue: decimal.NewFromInt(40)})
	}
	store.SetCashSettings(domain.CashSettings{StartingCash: decimal.NewFromInt(10000), RevenueCollectionDelayDays: 7, PaymentTermsDays: 30})

	velocity := analytics.NewVelocityEstimator(store, analytics.DefaultVelocityWindowDays, clock)
	policy := analytics.NewSafetyStockPolicy(velocity, nil, 0)
	enricher := analytics.NewInventoryEnricher(store, velocity, policy)
	engine := analytics.NewCashForecastEngine(store, store, store, analytics.ForecastOptions{}, clock)

	forecasts := service.NewForecastService(engine, nil)
	inventory := service.NewInventoryService(enricher, policy, store)
	services := &Services{
		Inventory: inventory,
		Forecasts: forecasts,
		POs:       service.NewPOService(store, engine, enricher, velocity, lock.NewLocal(config.LockConfig{}), forecasts, clock),
		Dashboard: service.NewDashboardService(inventory, forecasts, store, clock),
	}

	return &testAPI{
		router:   NewRouter(services, nil),
		store:    store,
		location: location,
		empty:    empty,
		supplier: supplier,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var payload map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func (a *testAPI) createDraft(t *testing.T) int64 {
	t.Helper()
	w, payload := a.do(t, http.MethodPost, "/api/v1/po/suggest", map[string]any{"location_id": a.location.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	orders := payload["data"].([]any)
	require.Len(t, orders, 1)
	return int64(orders[0].(map[string]any)["id"].(float64))
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w, payload := a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", payload["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGetInventory(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantRows int
	}{
		{"unfiltered", "", http.StatusOK, 1},
		{"all means unset", "?location_id=all&supplier_id=all&flags=all", http.StatusOK, 1},
		{"stockout flag", "?flags=stockout", http.StatusOK, 1},
		{"dead stock flag", "?flags=dead_stock", http.StatusOK, 0},
		{"unknown flag matches nothing", "?flags=bogus", http.StatusOK, 0},
		{"other location", "?location_id=" + strconv.FormatInt(a.empty.ID, 10), http.StatusOK, 0},
		{"bad location", "?location_id=abc", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, payload := a.do(t, http.MethodGet, "/api/v1/inventory"+tt.query, nil)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			assert.Len(t, payload["data"], tt.wantRows)
		})
	}

	_, payload := a.do(t, http.MethodGet, "/api/v1/inventory", nil)
	row := payload["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "SKU-1", row["sku"])
	assert.Equal(t, 4.0, row["velocity"])
	assert.Equal(t, 5.0, row["days_on_hand"])
	risk := row["stockout_risk"].(map[string]any)
	assert.Equal(t, true, risk["has_risk"])
	assert.Equal(t, "critical", risk["severity"])
}

func TestGetForecast(t *testing.T) {
	a := newTestAPI(t)

	w, payload := a.do(t, http.MethodGet, "/api/v1/cash/forecast?periods=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10000.0, payload["current_cash"])
	projections := payload["projections"].(map[string]any)
	require.Contains(t, projections, "30")
	assert.Equal(t, "2024-07-15", projections["30"].(map[string]any)["date"])

	w, payload = a.do(t, http.MethodGet, "/api/v1/cash/forecast", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, payload["projections"], 3)
	assert.Contains(t, payload, "low_water_mark")

	w, _ = a.do(t, http.MethodGet, "/api/v1/cash/forecast?periods=30,abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestPOs(t *testing.T) {
	a := newTestAPI(t)

	w, _ := a.do(t, http.MethodPost, "/api/v1/po/suggest", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, payload := a.do(t, http.MethodPost, "/api/v1/po/suggest", map[string]any{"location_id": a.empty.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No products need reordering", payload["message"])

	w, payload = a.do(t, http.MethodPost, "/api/v1/po/suggest", map[string]any{"location_id": a.location.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Purchase orders created", payload["message"])
	po := payload["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "draft", po["status"])
	assert.Len(t, po["lines"], 1)

	w, payload = a.do(t, http.MethodGet, "/api/v1/po", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, payload["data"], 1)
}

func TestTransitionPO(t *testing.T) {
	a := newTestAPI(t)
	id := a.createDraft(t)
	path := "/api/v1/po/" + strconv.FormatInt(id, 10)

	w, payload := a.do(t, http.MethodPost, path+"/transition", map[string]any{"next_status": "approved"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status transition", payload["error"])

	w, _ = a.do(t, http.MethodPost, path+"/transition", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, payload = a.do(t, http.MethodPost, path+"/transition", map[string]any{"next_status": "submitted"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Status updated", payload["message"])
	assert.Equal(t, "submitted", payload["data"].(map[string]any)["status"])

	w, _ = a.do(t, http.MethodPost, "/api/v1/po/9999/transition", map[string]any{"next_status": "submitted"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, payload = a.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "submitted", payload["data"].(map[string]any)["status"])
	assert.Contains(t, payload, "cash_impact")

	w, _ = a.do(t, http.MethodGet, "/api/v1/po/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(t, http.MethodGet, "/api/v1/po/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardAndReferenceLists(t *testing.T) {
	a := newTestAPI(t)

	w, payload := a.do(t, http.MethodGet, "/api/v1/dashboard?location_id=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	kpis := payload["kpis"].(map[string]any)
	assert.Equal(t, 1200.0, kpis["revenue_30d"])
	assert.Equal(t, 1.0, kpis["stockout_risk_count"])

	w, payload = a.do(t, http.MethodGet, "/api/v1/locations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, payload["data"], 2)

	w, payload = a.do(t, http.MethodGet, "/api/v1/suppliers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, payload["data"], 1)

	w, payload = a.do(t, http.MethodPost, "/api/v1/analytics/threshold/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4.0, payload["data"].(map[string]any)["value"])
}
