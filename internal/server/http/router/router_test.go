package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/config"
	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/metrics"
	"github.com/polkiloo/storefront/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

var (
	adminUser     = testhelpers.RandomASCIIString(5, 12)
	adminPassword = testhelpers.RandomASCIIString(16, 32)
)

func newTestEngine(t *testing.T, facade *testhelpers.StoreFacadeStub) *gin.Engine {
	t.Helper()
	registry := metrics.NewRegistry()
	engine := Setup(Params{
		Facade:   facade,
		Config:   &config.Config{AllowedOrigins: []string{"https://shop.example.com"}},
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Metrics:  metrics.New(registry),
		Registry: registry,
		Admin:    testhelpers.CredentialsStub{User: adminUser, Password: adminPassword},
		Verifier: testhelpers.SignatureVerifierStub{},
	})
	gin.SetMode(gin.TestMode)
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func expectStatus(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()
	if resp.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.Code, resp.Body.String())
	}
}

func TestSetupPublicRoutes(t *testing.T) {
	facade := testhelpers.NewStoreFacadeStub()
	engine := newTestEngine(t, facade)

	resp := serve(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	expectStatus(t, resp, http.StatusOK)
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}

	resp = serve(engine, httptest.NewRequest(http.MethodGet, "/api/productos", nil))
	expectStatus(t, resp, http.StatusOK)

	body := `{"customer":{"name":"Ana","email":"ana@example.com"},"items":[{"product_id":1,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = serve(engine, req)
	expectStatus(t, resp, http.StatusCreated)
	if !strings.Contains(resp.Body.String(), `"payment_url":"https://checkout.example.com/1"`) {
		t.Fatalf("expected payment url in %s", resp.Body.String())
	}

	resp = serve(engine, httptest.NewRequest(http.MethodGet, "/api/pedidos/5", nil))
	expectStatus(t, resp, http.StatusOK)

	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/mp", bytes.NewReader([]byte(`{"type":"payment","data":{"id":"9"}}`)))
	resp = serve(engine, req)
	expectStatus(t, resp, http.StatusOK)
	notifications := facade.Notifications()
	if len(notifications) != 1 || notifications[0].PaymentID != "9" {
		t.Fatalf("expected one notification for payment 9, got %+v", notifications)
	}
}

func TestSetupAdminRoutesRequireCredentials(t *testing.T) {
	facade := testhelpers.NewStoreFacadeStub()
	engine := newTestEngine(t, facade)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/productos", strings.NewReader(`{"name":"Torta","price":10}`))
	resp := serve(engine, req)
	expectStatus(t, resp, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/productos", strings.NewReader(`{"name":"Torta","price":10}`))
	req.SetBasicAuth(adminUser, adminPassword)
	resp = serve(engine, req)
	expectStatus(t, resp, http.StatusCreated)

	req = httptest.NewRequest(http.MethodPut, "/api/admin/productos/1", strings.NewReader(`{"stock":3}`))
	req.SetBasicAuth(adminUser, adminPassword)
	resp = serve(engine, req)
	expectStatus(t, resp, http.StatusOK)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/pedidos/1", nil)
	req.SetBasicAuth(adminUser, adminPassword)
	resp = serve(engine, req)
	expectStatus(t, resp, http.StatusOK)
}

func TestSetupMapsDomainErrors(t *testing.T) {
	facade := testhelpers.NewStoreFacadeStub()
	facade.OrderFacadeStub.OrderFn = func(context.Context, int64) (*model.OrderDetails, error) {
		return nil, domainErrors.ErrNotFound
	}
	engine := newTestEngine(t, facade)

	resp := serve(engine, httptest.NewRequest(http.MethodGet, "/api/pedidos/99", nil))
	expectStatus(t, resp, http.StatusNotFound)
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "not_found" || body["message"] != "not found" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestSetupCORSPreflight(t *testing.T) {
	engine := newTestEngine(t, testhelpers.NewStoreFacadeStub())

	req := httptest.NewRequest(http.MethodOptions, "/api/pedidos", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := serve(engine, req)
	expectStatus(t, resp, http.StatusNoContent)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestSetupCompressesResponses(t *testing.T) {
	engine := newTestEngine(t, testhelpers.NewStoreFacadeStub())

	req := httptest.NewRequest(http.MethodGet, "/api/productos", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := serve(engine, req)
	if got := resp.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected gzip encoding, got %q", got)
	}
}

func TestSetupExposesMetrics(t *testing.T) {
	engine := newTestEngine(t, testhelpers.NewStoreFacadeStub())

	serve(engine, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	resp := serve(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	expectStatus(t, resp, http.StatusOK)
	want := `storefront_http_requests_total{method="GET",route="/api/health",status="200"} 1`
	if !strings.Contains(resp.Body.String(), want) {
		t.Fatalf("expected %s in metrics output", want)
	}
}

var _ handlers.StoreFacade = (*testhelpers.StoreFacadeStub)(nil)
