package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AndresCespedes/inventory-service/internal/config"
	httpapi "github.com/AndresCespedes/inventory-service/internal/http"
	"github.com/AndresCespedes/inventory-service/internal/inventory"
	"github.com/AndresCespedes/inventory-service/internal/notify"
	"github.com/AndresCespedes/inventory-service/internal/obs"
	"github.com/AndresCespedes/inventory-service/internal/product"
	"github.com/AndresCespedes/inventory-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiKey = "integration-key"

// startService wires the whole service against a fake product upstream:
// a dead candidate first, then the healthy one, exercising the ordered
// fallback on every request.
func startService(t *testing.T, upstream http.Handler) (*httptest.Server, *store.Memory) {
	t.Helper()
	obs.InitLogger()

	productSrv := httptest.NewServer(upstream)
	t.Cleanup(productSrv.Close)

	dead := httptest.NewServer(nil)
	dead.Close()

	st := store.NewMemory()
	bus := notify.NewBus(16, notify.LogSink{})
	t.Cleanup(bus.Close)

	client := product.NewClient([]string{dead.URL, productSrv.URL}, apiKey, 500*time.Millisecond)
	engine := inventory.NewEngine(client, st, bus)
	app := httpapi.NewApp(config.Config{APIKey: apiKey}, engine)

	srv := httptest.NewServer(httpapi.NewRouter(app))
	t.Cleanup(srv.Close)
	return srv, st
}

func request(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, bytes.NewBufferString(body))
	}
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-api-key", apiKey)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	return res, decoded
}

func TestUpsertThenLookupFlow(t *testing.T) {
	var productCalls atomic.Int64
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		productCalls.Add(1)
		assert.Equal(t, apiKey, r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"type":"product","id":"1","attributes":{"name":"keyboard","price":49.9}}}`)
	})
	srv, _ := startService(t, upstream)

	// first write creates the record; no included resource
	res, doc := request(t, http.MethodPatch, srv.URL+"/inventory/1", `{"quantity":45}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := doc["data"].(map[string]any)
	assert.Equal(t, "inventory", data["type"])
	assert.Equal(t, float64(45), data["attributes"].(map[string]any)["quantity"])
	assert.Nil(t, doc["included"])

	// second write updates and includes the product resource
	res, doc = request(t, http.MethodPatch, srv.URL+"/inventory/1", `{"quantity":40}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, doc["included"])

	// lookup returns the linked document with the stored quantity
	res, doc = request(t, http.MethodGet, srv.URL+"/inventory/1", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	data = doc["data"].(map[string]any)
	assert.Equal(t, float64(40), data["attributes"].(map[string]any)["quantity"])
	included := doc["included"].([]any)
	require.Len(t, included, 1)
	assert.Equal(t, "product", included[0].(map[string]any)["type"])
	assert.Equal(t, "/inventory/1", doc["links"].(map[string]any)["self"])

	// each operation resolved the product exactly once via the fallback list
	assert.Equal(t, int64(3), productCalls.Load())
}

func TestLookupUnknownRecord(t *testing.T) {
	srv, _ := startService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"exists upstream"}`)
	}))

	res, doc := request(t, http.MethodGet, srv.URL+"/inventory/404", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "record_not_found", doc["error"])
	assert.NotEmpty(t, doc["meta"].(map[string]any)["timestamp"])
}

func TestUpsertAgainstMissingUpstreamProduct(t *testing.T) {
	srv, st := startService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	st.Upsert(context.Background(), 5, 80)

	res, doc := request(t, http.MethodPatch, srv.URL+"/inventory/5", `{"quantity":0}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "upstream_product_missing", doc["error"])

	rec, err := st.FindByProductID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(80), rec.Quantity)
}

func TestRequestIDPropagation(t *testing.T) {
	srv, _ := startService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "req-123", res.Header.Get("X-Request-Id"))
}
