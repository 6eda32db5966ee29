//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gopal274/Ssdn/internal/config"
	"github.com/Gopal274/Ssdn/internal/dto"
	"github.com/Gopal274/Ssdn/internal/infra"
	"github.com/Gopal274/Ssdn/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("ledger_test"),
		tcPostgres.WithUsername("ledger"),
		tcPostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		WorkerPoolSize:      1,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		SuggestSidecarURL:   "http://localhost:9999", // unused here
		RateCacheTTLMinutes: 240,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	breaker := infra.NewBreaker(infra.DefaultBreakerConfig())
	engine, _ := router.New(cfg, db, rdb, breaker)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func createProduct(t *testing.T, srv *httptest.Server, name string) dto.ProductResponse {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/v1/products", jsonBody(t, map[string]any{
		"product_name": name,
		"unit":         "kg",
		"rate":         100,
		"gst":          18,
		"party_name":   "Sharma Traders",
		"category":     "construction",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ProductResponse
	decodeJSON(t, resp, &created)
	return created
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestLedgerLifecycle(t *testing.T) {
	srv := setupServer(t)

	created := createProduct(t, srv, "Cement OPC 53")
	assert.Equal(t, "118", created.CurrentRate.FinalRate.String())
	assert.Empty(t, created.RateHistory)

	// Duplicate name is rejected.
	resp := do(t, srv, http.MethodPost, "/v1/products", jsonBody(t, map[string]any{
		"product_name": "Cement OPC 53",
		"unit":         "bag",
		"rate":         50,
		"gst":          5,
		"party_name":   "Verma Suppliers",
	}))
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Supersede: the old rate moves to the history front.
	resp = do(t, srv, http.MethodPut, "/v1/products/"+created.ID+"/rate", jsonBody(t, map[string]any{
		"rate":       200,
		"gst":        18,
		"party_name": "Verma Suppliers",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after dto.ProductResponse
	decodeJSON(t, resp, &after)
	require.Len(t, after.RateHistory, 1)
	assert.Equal(t, created.CurrentRate.EntryID, after.RateHistory[0].EntryID)
	assert.Equal(t, "236", after.CurrentRate.FinalRate.String())

	// History list.
	resp = do(t, srv, http.MethodGet, "/v1/products/"+created.ID+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist dto.HistoryListResponse
	decodeJSON(t, resp, &hist)
	assert.Equal(t, 1, hist.Total)

	// Restore undoes the supersession.
	resp = do(t, srv, http.MethodDelete, "/v1/products/"+created.ID+"/current-rate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var restored dto.ProductResponse
	decodeJSON(t, resp, &restored)
	assert.Equal(t, created.CurrentRate.EntryID, restored.CurrentRate.EntryID)
	assert.Empty(t, restored.RateHistory)

	// Restoring again fails: the history is empty now.
	resp = do(t, srv, http.MethodDelete, "/v1/products/"+created.ID+"/current-rate", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete the product entirely.
	resp = do(t, srv, http.MethodDelete, "/v1/products/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/v1/products/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoryEntryDeletion(t *testing.T) {
	srv := setupServer(t)
	created := createProduct(t, srv, "Steel TMT 12mm")

	resp := do(t, srv, http.MethodPut, "/v1/products/"+created.ID+"/rate", jsonBody(t, map[string]any{
		"rate":       150,
		"gst":        18,
		"party_name": "Verma Suppliers",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after dto.ProductResponse
	decodeJSON(t, resp, &after)
	entryID := after.RateHistory[0].EntryID

	resp = do(t, srv, http.MethodDelete, "/v1/products/"+created.ID+"/history", jsonBody(t, map[string]any{
		"entry_id": entryID,
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var trimmed dto.ProductResponse
	decodeJSON(t, resp, &trimmed)
	assert.Empty(t, trimmed.RateHistory)

	// Same deletion again: nothing matches.
	resp = do(t, srv, http.MethodDelete, "/v1/products/"+created.ID+"/history", jsonBody(t, map[string]any{
		"entry_id": entryID,
	}))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRateCheckCaching(t *testing.T) {
	srv := setupServer(t)
	createProduct(t, srv, "River Sand")

	resp := do(t, srv, http.MethodGet, "/v1/rate/River Sand", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var check dto.RateCheckResponse
	decodeJSON(t, resp, &check)
	assert.Equal(t, "River Sand", check.ProductName)
	assert.Equal(t, "118", check.FinalRate.String())

	// Second hit is served from cache and must agree.
	resp = do(t, srv, http.MethodGet, "/v1/rate/River Sand", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cached dto.RateCheckResponse
	decodeJSON(t, resp, &cached)
	assert.Equal(t, check.FinalRate.String(), cached.FinalRate.String())

	resp = do(t, srv, http.MethodGet, "/v1/rate/No Such Product", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAmendDetailsOverHTTP(t *testing.T) {
	srv := setupServer(t)
	created := createProduct(t, srv, "Paint 20L")

	resp := do(t, srv, http.MethodPatch, "/v1/products/"+created.ID+"/details", jsonBody(t, map[string]any{
		"page_no":   "B-14",
		"bill_date": "2026-03-15",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var amended dto.ProductResponse
	decodeJSON(t, resp, &amended)
	require.NotNil(t, amended.CurrentRate.PageNo)
	assert.Equal(t, "B-14", *amended.CurrentRate.PageNo)
	// The quotation itself did not move.
	assert.Equal(t, created.CurrentRate.EntryID, amended.CurrentRate.EntryID)
	assert.Equal(t, created.CurrentRate.FinalRate.String(), amended.CurrentRate.FinalRate.String())
}

func TestAnalyticsAndPDF(t *testing.T) {
	srv := setupServer(t)
	created := createProduct(t, srv, "Cement OPC 43")
	createProduct(t, srv, "Bricks Class A")

	resp := do(t, srv, http.MethodGet, "/v1/analytics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var analytics dto.AnalyticsResponse
	decodeJSON(t, resp, &analytics)
	assert.Equal(t, 2, analytics.TotalProducts)

	resp = do(t, srv, http.MethodGet, "/v1/products/"+created.ID+"/history/pdf", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	resp := do(t, srv, http.MethodGet, "/health", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, "connected", health["db"])
	assert.Equal(t, "connected", health["redis"])
	assert.Equal(t, "closed", health["suggest_breaker"])
}
