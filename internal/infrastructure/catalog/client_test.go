package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, fallback bool) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		BaseURL:         srv.URL,
		Timeout:         time.Second,
		CacheSize:       16,
		CacheTTL:        time.Minute,
		FallbackEnabled: fallback,
	})
	require.NoError(t, err)
	return c, &calls
}

func TestGetProductDecodesCatalogShape(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/SKU-100", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sku":"SKU-100","name":"Hammer","description":"16oz","price":19.99,"originalPrice":24.99,"onSale":true,"availableQuantity":7,"category":"Tools","imageUrl":"/img/h.png"}`))
	}, false)

	p, err := c.GetProduct(context.Background(), "SKU-100")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Hammer", p.Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(p.Price))
	assert.True(t, decimal.RequireFromString("24.99").Equal(p.ListPrice()))
	assert.True(t, p.OnSale)
	assert.Equal(t, 7, p.AvailableQuantity)
	assert.Equal(t, "/img/h.png", p.ImageURL)
}

func TestGetProductCachesAndInvalidates(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sku":"SKU-100","name":"Hammer","price":19.99,"availableQuantity":7}`))
	}, false)
	ctx := context.Background()

	_, err := c.GetProduct(ctx, "SKU-100")
	require.NoError(t, err)
	_, err = c.GetProduct(ctx, "SKU-100")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	c.Invalidate("SKU-100")
	_, err = c.GetProduct(ctx, "SKU-100")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGetProductExpiresCacheEntries(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sku":"SKU-100","name":"Hammer","price":19.99,"availableQuantity":7}`))
	}, false)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.GetProduct(context.Background(), "SKU-100")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.GetProduct(context.Background(), "SKU-100")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestGetProductNotFound(t *testing.T) {
	notFound := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }

	c, _ := newTestClient(t, notFound, false)
	p, err := c.GetProduct(context.Background(), "SKU-001")
	assert.NoError(t, err)
	assert.Nil(t, p)

	// with the fallback on, known demo SKUs are served locally
	c, _ = newTestClient(t, notFound, true)
	p, err = c.GetProduct(context.Background(), "SKU-001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "SKU-001", p.SKU)

	p, err = c.GetProduct(context.Background(), "SKU-UNKNOWN")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetProductServerErrorWithoutFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, false)

	p, err := c.GetProduct(context.Background(), "SKU-001")
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestGetProductTransportFailureUsesFallback(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond, FallbackEnabled: true})
	require.NoError(t, err)

	p, err := c.GetProduct(context.Background(), "SKU-002")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, decimal.RequireFromString("30.00").Equal(p.Price))
}

func TestFallbackCatalogIsKeyedBySKU(t *testing.T) {
	for sku, p := range FallbackCatalog() {
		assert.Equal(t, sku, p.SKU)
		assert.False(t, p.Price.IsNegative())
	}
}
