package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-backend/internal/address"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	pkgAuth "github.com/angelmondragon/storefront-backend/pkg/auth"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memoryRedis struct {
	stubPinger
	data     map[string]string
	counters map[string]int64
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: map[string]string{}, counters: map[string]int64{}}
}

func (m *memoryRedis) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryRedis) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memoryRedis) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

type stubSessions struct{}

func (stubSessions) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{}, nil
}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{}, nil
}

func (stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.TokenResponse, error) {
	return &auth.TokenResponse{}, nil
}

func (stubAuthService) Logout(context.Context, string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListCategories(context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}

func (stubCatalogService) ListProducts(context.Context, catalog.ListProductsInput) (*types.Page[catalog.ProductDTO], error) {
	return &types.Page[catalog.ProductDTO]{Items: []catalog.ProductDTO{}}, nil
}

func (stubCatalogService) GetVariantBySlug(_ context.Context, slug string) (*catalog.VariantDetail, error) {
	return &catalog.VariantDetail{Variant: catalog.VariantDTO{Slug: slug}}, nil
}

type stubCartService struct {
	lastUser   uuid.UUID
	lastItemID string
}

func (s *stubCartService) GetOrCreateCart(_ context.Context, userID uuid.UUID) (*cart.Detail, error) {
	s.lastUser = userID
	return &cart.Detail{ID: uuid.New(), UserID: userID, Items: []cart.ItemDTO{}}, nil
}

func (s *stubCartService) AddItem(_ context.Context, userID uuid.UUID, _ cart.AddItemInput) (*cart.ItemDTO, error) {
	s.lastUser = userID
	return &cart.ItemDTO{ID: uuid.New(), Quantity: 1}, nil
}

func (s *stubCartService) IncreaseItem(_ context.Context, userID uuid.UUID, _ cart.IncreaseItemInput) (*cart.ItemDTO, error) {
	s.lastUser = userID
	return &cart.ItemDTO{ID: uuid.New(), Quantity: 2}, nil
}

func (s *stubCartService) DecreaseItem(_ context.Context, userID uuid.UUID, input cart.DecreaseItemInput) (*cart.DecreaseResult, error) {
	s.lastUser = userID
	s.lastItemID = input.CartItemID
	return &cart.DecreaseResult{Removed: true}, nil
}

func (s *stubCartService) RemoveItem(_ context.Context, userID uuid.UUID, input cart.RemoveItemInput) (*cart.RemoveResult, error) {
	s.lastUser = userID
	s.lastItemID = input.CartItemID
	return &cart.RemoveResult{Removed: true}, nil
}

type stubAddressService struct {
	created int
}

func (s *stubAddressService) CreateAddress(_ context.Context, userID uuid.UUID, input address.CreateAddressInput) (*address.AddressDTO, error) {
	s.created++
	return &address.AddressDTO{ID: uuid.New(), UserID: userID, FullName: input.FullName}, nil
}

func (s *stubAddressService) ListAddresses(context.Context, uuid.UUID) ([]address.AddressDTO, error) {
	return []address.AddressDTO{}, nil
}

func (s *stubAddressService) BindAddressToCart(_ context.Context, userID uuid.UUID, _ address.BindAddressInput) (*cart.Detail, error) {
	return &cart.Detail{UserID: userID}, nil
}

type stubGuard struct {
	lastUser uuid.UUID
	called   bool
}

func (s *stubGuard) Evaluate(_ context.Context, userID uuid.UUID) (checkout.Decision, error) {
	s.called = true
	s.lastUser = userID
	if userID == uuid.Nil {
		return checkout.Decision{Reason: checkout.ReasonUnauthenticated, RedirectTo: "/"}, nil
	}
	return checkout.Decision{Allowed: true}, nil
}

type testRouter struct {
	handler  http.Handler
	cart     *stubCartService
	address  *stubAddressService
	guard    *stubGuard
	registry *prometheus.Registry
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Storefront: config.StorefrontConfig{CORSOrigins: []string{"https://shop.example.com"}},
	}
}

func newTestRouter(cfg *config.Config) testRouter {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	tr := testRouter{
		cart:     &stubCartService{},
		address:  &stubAddressService{},
		guard:    &stubGuard{},
		registry: registry,
	}
	tr.handler = NewRouter(
		cfg,
		logg,
		stubPinger{},
		newMemoryRedis(),
		stubSessions{},
		Services{
			Auth:     stubAuthService{},
			Catalog:  stubCatalogService{},
			Cart:     tr.cart,
			Address:  tr.address,
			Checkout: tr.guard,
		},
		Observability{
			HTTP:    metrics.NewHTTPMetrics(registry),
			Handler: metrics.Handler(registry),
		},
	)
	return tr
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func serve(tr testRouter, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	tr.handler.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutesArePublic(t *testing.T) {
	tr := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := serve(tr, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCatalogRoutesArePublic(t *testing.T) {
	tr := newTestRouter(testConfig())

	for _, path := range []string{"/api/v1/catalog/categories", "/api/v1/catalog/products", "/api/v1/catalog/variants/tee-v1"} {
		resp := serve(tr, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCartRoutesRequireJWT(t *testing.T) {
	tr := newTestRouter(testConfig())

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/items"},
		{http.MethodPost, "/api/v1/cart/items/increase"},
		{http.MethodPost, "/api/v1/cart/items/" + uuid.NewString() + "/decrease"},
		{http.MethodDelete, "/api/v1/cart/items/" + uuid.NewString()},
		{http.MethodPatch, "/api/v1/cart/shipping-address"},
		{http.MethodGet, "/api/v1/shipping-addresses"},
		{http.MethodPost, "/api/v1/auth/logout"},
	}
	for _, tc := range cases {
		resp := serve(tr, httptest.NewRequest(tc.method, tc.path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestCartRoutesSucceedWithJWT(t *testing.T) {
	cfg := testConfig()
	tr := newTestRouter(cfg)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, userID))
	resp := serve(tr, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if tr.cart.lastUser != userID {
		t.Fatalf("expected cart service to receive %s got %s", userID, tr.cart.lastUser)
	}

	itemID := uuid.NewString()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/"+itemID+"/decrease", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, userID))
	resp = serve(tr, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if tr.cart.lastItemID != itemID {
		t.Fatalf("expected item id %s got %s", itemID, tr.cart.lastItemID)
	}
}

func TestCheckoutConfirmationAllowsAnonymous(t *testing.T) {
	cfg := testConfig()
	tr := newTestRouter(cfg)

	resp := serve(tr, httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirmation", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !tr.guard.called || tr.guard.lastUser != uuid.Nil {
		t.Fatalf("expected guard to evaluate an anonymous request")
	}
	if !strings.Contains(resp.Body.String(), `"redirect_to":"/"`) {
		t.Fatalf("expected redirect decision got %s", resp.Body.String())
	}

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirmation", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, userID))
	resp = serve(tr, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if tr.guard.lastUser != userID {
		t.Fatalf("expected guard to receive %s got %s", userID, tr.guard.lastUser)
	}
}

const addressBody = `{"full_name":"Maria Silva","email":"maria@example.com","cpf":"123.456.789-00","phone":"(11) 98765-4321","zip_code":"01310-100","address":"Avenida Paulista","number":"1000","neighborhood":"Bela Vista","city":"São Paulo","state":"SP"}`

func TestShippingAddressCreateIsIdempotent(t *testing.T) {
	cfg := testConfig()
	tr := newTestRouter(cfg)
	token := buildToken(t, cfg, uuid.New())

	missing := httptest.NewRequest(http.MethodPost, "/api/v1/shipping-addresses", strings.NewReader(addressBody))
	missing.Header.Set("Authorization", "Bearer "+token)
	if resp := serve(tr, missing); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}

	var first string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shipping-addresses", strings.NewReader(addressBody))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "addr-1")
		resp := serve(tr, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d: %s", i, resp.Code, resp.Body.String())
		}
		if i == 0 {
			first = resp.Body.String()
		} else if resp.Body.String() != first {
			t.Fatalf("expected replayed body")
		}
	}
	if tr.address.created != 1 {
		t.Fatalf("expected one address creation got %d", tr.address.created)
	}
}

func TestCORSPreflight(t *testing.T) {
	tr := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart/items", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := serve(tr, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected allowed origin header got %q", got)
	}
}

func TestMetricsEndpointExposesRequestDurations(t *testing.T) {
	tr := newTestRouter(testConfig())

	serve(tr, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/variants/tee-v1", nil))

	resp := serve(tr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "storefront_http_request_duration_seconds") {
		t.Fatalf("expected http duration histogram in output")
	}
	if !strings.Contains(body, `route="/api/v1/catalog/variants/{slug}"`) {
		t.Fatalf("expected route pattern label got %s", body)
	}
}
