package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokopos/internal/database"
	"tokopos/internal/metrics"
	"tokopos/internal/repositories"
	"tokopos/internal/server"
	"tokopos/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*server.Deps, *prometheus.Registry) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := zap.NewNop()
	orders := repositories.NewGORMOrderRepository(db)
	uow := repositories.NewGORMUnitOfWork(db)

	return &server.Deps{
		Auth:     services.NewAuthService(repositories.NewGORMUserRepository(db), "secret"),
		Products: services.NewProductService(repositories.NewGORMProductRepository(db)),
		Orders:   services.NewOrderService(uow, orders, nil, m, log),
		Payments: services.NewPaymentService(uow, orders, repositories.NewGORMPaymentRepository(db), services.PaymentPolicy{}, nil, m, log),
		Bills:    services.NewBillService(orders, repositories.NewGORMOutletRepository(db), services.DefaultTaxRate, m, log),
		DB:       db,
		Gatherer: reg,
		Logger:   log,
	}, reg
}

func TestHealth(t *testing.T) {
	deps, _ := newTestServer(t)
	app := server.New(*deps)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "up", body["database"])
	assert.NotEmpty(t, body["time"])
}

func TestHealthReportsClosedDatabase(t *testing.T) {
	deps, _ := newTestServer(t)
	sqlDB, err := deps.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, err := server.New(*deps).Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	deps, _ := newTestServer(t)
	app := server.New(*deps)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tokopos_stock_rejections_total")
}

func TestMetricsRouteDisabledWithoutGatherer(t *testing.T) {
	deps, _ := newTestServer(t)
	deps.Gatherer = nil

	resp, err := server.New(*deps).Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	deps, _ := newTestServer(t)

	resp, err := server.New(*deps).Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["message"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	deps, _ := newTestServer(t)
	app := server.New(*deps)

	for _, path := range []string{"/api/v1/products", "/api/v1/orders", "/api/v1/orders/x/bill"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}
