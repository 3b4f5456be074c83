package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// productDTO is the catalog service's wire shape
type productDTO struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	OriginalPrice     decimal.Decimal `json:"originalPrice"`
	OnSale            bool            `json:"onSale"`
	AvailableQuantity int             `json:"availableQuantity"`
	Category          string          `json:"category"`
	ImageURL          string          `json:"imageUrl"`
}

func (d productDTO) toEntity() entity.Product {
	return entity.Product{
		SKU:               d.SKU,
		Name:              d.Name,
		Description:       d.Description,
		Price:             d.Price,
		OriginalPrice:     d.OriginalPrice,
		OnSale:            d.OnSale,
		AvailableQuantity: d.AvailableQuantity,
		Category:          d.Category,
		ImageURL:          d.ImageURL,
	}
}

type cachedProduct struct {
	product   entity.Product
	expiresAt time.Time
}

// Options configures a catalog Client
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	CacheSize       int
	CacheTTL        time.Duration
	FallbackEnabled bool
	HTTPClient      *http.Client
	Logger          *zap.Logger
}

// Client looks products up in the catalog service, keeping recent answers in
// an LRU cache. With the fallback enabled, a 404 or transport failure is
// answered from the built-in demo catalog.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    *lru.Cache
	ttl      time.Duration
	fallback map[string]entity.Product
	log      *zap.Logger
	now      func() time.Time
}

// NewClient creates a catalog client
func NewClient(opts Options) (*Client, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		baseURL: opts.BaseURL,
		http:    httpClient,
		cache:   cache,
		ttl:     opts.CacheTTL,
		log:     log,
		now:     time.Now,
	}
	if opts.FallbackEnabled {
		c.fallback = FallbackCatalog()
	}
	return c, nil
}

// GetProduct returns the product for sku, or nil when the catalog does not
// know it. An error means the catalog could not be asked and no fallback applied.
func (c *Client) GetProduct(ctx context.Context, sku string) (*entity.Product, error) {
	if v, ok := c.cache.Get(sku); ok {
		entry := v.(cachedProduct)
		if c.ttl <= 0 || c.now().Before(entry.expiresAt) {
			product := entry.product
			return &product, nil
		}
		c.cache.Remove(sku)
	}

	product, err := c.fetch(ctx, sku)
	if err != nil {
		c.log.Warn("catalog lookup failed", zap.String("sku", sku), zap.Error(err))
		return c.fromFallback(sku, err)
	}
	if product == nil {
		return c.fromFallback(sku, nil)
	}

	c.cache.Add(sku, cachedProduct{product: *product, expiresAt: c.now().Add(c.ttl)})
	return product, nil
}

// Invalidate drops cached entries, e.g. after a sale changes stock levels
func (c *Client) Invalidate(skus ...string) {
	for _, sku := range skus {
		c.cache.Remove(sku)
	}
}

// Purge drops every cached entry
func (c *Client) Purge() {
	c.cache.Purge()
}

func (c *Client) fetch(ctx context.Context, sku string) (*entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+url.PathEscape(sku), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var dto productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("failed to decode catalog product: %w", err)
	}
	if dto.SKU == "" {
		dto.SKU = sku
	}

	product := dto.toEntity()
	return &product, nil
}

// fromFallback answers from the demo catalog. Fallback answers are not
// cached so the real catalog wins as soon as it responds again.
func (c *Client) fromFallback(sku string, cause error) (*entity.Product, error) {
	if c.fallback == nil {
		return nil, cause
	}
	product, ok := c.fallback[sku]
	if !ok {
		return nil, nil
	}
	c.log.Info("serving product from fallback catalog", zap.String("sku", sku))
	return &product, nil
}
