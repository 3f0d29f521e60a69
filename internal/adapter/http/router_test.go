package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/adapter/repository/memory"
	redisrepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

type seqIDGenerator struct {
	n atomic.Int64
}

func (g *seqIDGenerator) Generate() string {
	return fmt.Sprintf("e-%04d", g.n.Add(1))
}

func newRouterConfig(opts ...func(*RouterConfig)) (RouterConfig, *memory.LedgerStore) {
	store := memory.NewLedgerStore()
	audit := memory.NewAuditRepository()
	walletUC := usecase.NewWalletUseCase(store, &seqIDGenerator{}, usecase.WithAuditLog(audit))

	cfg := RouterConfig{
		WalletHandler: handler.NewWalletHandler(walletUC),
		EntryHandler:  handler.NewEntryHandler(usecase.NewEntryUseCase(store)),
		LedgerHandler: handler.NewLedgerHandler(usecase.NewLedgerUseCase(store)),
		AuditHandler:  handler.NewAuditHandler(usecase.NewAuditUseCase(audit)),
		HealthHandler: handler.NewHealthHandler(),
		Logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, store
}

func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func balanceOf(t *testing.T, rec *httptest.ResponseRecorder) decimal.Decimal {
	t.Helper()
	var resp dto.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Amount
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	cfg, _ := newRouterConfig()
	router := NewRouter(cfg)

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_WalletScenario(t *testing.T) {
	cfg, store := newRouterConfig()
	router := NewRouter(cfg)

	rec := do(t, router, http.MethodPost, "/api/v1/wallet/deposit", `{"amount":"70"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, balanceOf(t, rec).Equal(decimal.NewFromInt(70)))

	rec = do(t, router, http.MethodPost, "/api/v1/wallet/deposit", `{"amount":200}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, balanceOf(t, rec).Equal(decimal.NewFromInt(270)))

	rec = do(t, router, http.MethodPost, "/api/v1/wallet/withdraw", `{"amount":"50"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, balanceOf(t, rec).Equal(decimal.NewFromInt(220)))

	rec = do(t, router, http.MethodPost, "/api/v1/wallet/withdraw", `{"amount":"500"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/wallet/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, balanceOf(t, rec).Equal(decimal.NewFromInt(220)))
	assert.Equal(t, 3, store.Len())

	rec = do(t, router, http.MethodGet, "/api/v1/wallet/entries?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page dto.EntriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "e-0003", page.Entries[0].ID)
	assert.True(t, page.Entries[0].Amount.Equal(decimal.NewFromInt(-50)))
	assert.True(t, page.Entries[0].BalanceBefore.Equal(decimal.NewFromInt(270)))

	rec = do(t, router, http.MethodGet, "/api/v1/wallet/verify", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report dto.VerificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Consistent)
	assert.Equal(t, 3, report.EntriesChecked)
	assert.True(t, report.Balance.Equal(decimal.NewFromInt(220)))
}

func TestNewRouter_AuditRecordsRejectedWithdrawal(t *testing.T) {
	cfg, _ := newRouterConfig()
	router := NewRouter(cfg)

	rec := do(t, router, http.MethodPost, "/api/v1/wallet/deposit", `{"amount":"70"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/wallet/withdraw", `{"amount":"500"}`,
		"X-Request-Id", "req-withdraw", "X-Real-IP", "10.1.2.3", "User-Agent", "walletctl/1.0")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/wallet/audit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page dto.AuditLogsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.AuditLogs, 2)

	rejected := page.AuditLogs[0]
	assert.Equal(t, "wallet.withdraw", rejected.Action)
	assert.Equal(t, "failure", rejected.Status)
	assert.True(t, rejected.Amount.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, rejected.EntryID)
	assert.Nil(t, rejected.BalanceAfter)
	assert.Equal(t, "req-withdraw", rejected.RequestID)
	assert.Equal(t, "10.1.2.3", rejected.IPAddress)
	assert.Equal(t, "walletctl/1.0", rejected.UserAgent)

	deposit := page.AuditLogs[1]
	assert.Equal(t, "success", deposit.Status)
	assert.Equal(t, "e-0001", deposit.EntryID)

	rec = do(t, router, http.MethodGet, "/api/v1/wallet/audit?status=success", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.AuditLogs, 1)
	assert.Equal(t, "wallet.deposit", page.AuditLogs[0].Action)
}

func TestNewRouter_RejectsNegativeDepositBeforeEngine(t *testing.T) {
	cfg, store := newRouterConfig()
	router := NewRouter(cfg)

	rec := do(t, router, http.MethodPost, "/api/v1/wallet/deposit", `{"amount":"-10"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	cfg, _ := newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	})
	router := NewRouter(cfg)

	rec1 := do(t, router, http.MethodGet, "/health", "", "X-Real-IP", "1.2.3.4")
	require.Equal(t, http.StatusOK, rec1.Code)

	rec2 := do(t, router, http.MethodGet, "/health", "", "X-Real-IP", "1.2.3.4")
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestNewRouter_IdempotentDepositAppliesOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg, store := newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = redisrepo.NewIdempotencyStore(client)
		cfg.IdempotencyTTL = time.Minute
	})
	router := NewRouter(cfg)

	first := do(t, router, http.MethodPost, "/api/v1/wallet/deposit", `{"amount":"70"}`,
		apimiddleware.IdempotencyKeyHeader, "dep-1")
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, router, http.MethodPost, "/api/v1/wallet/deposit", `{"amount":"70"}`,
		apimiddleware.IdempotencyKeyHeader, "dep-1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(apimiddleware.IdempotencyReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	assert.Equal(t, 1, store.Len())
}

func TestNewRouter_ExposesMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	cfg, _ := newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	})
	router := NewRouter(cfg)

	do(t, router, http.MethodGet, "/api/v1/wallet/balance", "")

	rec := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gowallet_http_requests_total{method="GET",path="/api/v1/wallet/balance",status="200"} 1`)
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	cfg, _ := newRouterConfig()
	router := NewRouter(cfg)

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/wallet/balance",
		"POST /api/v1/wallet/deposit",
		"POST /api/v1/wallet/withdraw",
		"GET /api/v1/wallet/entries",
		"GET /api/v1/wallet/verify",
		"GET /api/v1/wallet/audit",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}
