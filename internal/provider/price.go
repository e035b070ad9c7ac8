// internal/provider/price.go
package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/soltrack/internal/cache"
)

const (
	priceTTL = 60 * time.Second

	// Used only when no price was ever fetched. Keeps USD estimates in a
	// plausible range instead of zeroing the whole column.
	DefaultSOLPrice = 150.0
)

// PriceClient serves the current SOL/USD price with a short-lived cache.
// It never fails the caller: on upstream trouble it returns the last
// cached price, and the fixed default if nothing was ever fetched.
type PriceClient struct {
	url        string
	httpClient *http.Client
	cached     *cache.TTL[float64]
	logger     *zap.Logger
}

// PriceOptions parameterises the price feed client.
type PriceOptions struct {
	URL     string
	Timeout time.Duration
}

func NewPriceClient(opts PriceOptions, logger *zap.Logger) (*PriceClient, error) {
	if opts.URL == "" {
		return nil, errors.New("price provider: missing URL")
	}
	return &PriceClient{
		url:        opts.URL,
		httpClient: newHTTPClient(opts.Timeout),
		cached:     cache.NewTTL[float64](priceTTL),
		logger:     logger.Named("price-provider"),
	}, nil
}

type priceResponse struct {
	Solana struct {
		USD float64 `json:"usd"`
	} `json:"solana"`
}

// Current returns the SOL/USD price, best effort.
func (c *PriceClient) Current(ctx context.Context) float64 {
	if price, ok := c.cached.Get(); ok {
		return price
	}

	var resp priceResponse
	if err := getJSON(ctx, c.httpClient, c.logger, c.url, &resp); err != nil || resp.Solana.USD <= 0 {
		if err != nil {
			c.logger.Debug("price fetch failed, reusing last known price", zap.Error(err))
		}
		if stale, ok := c.cached.Stale(); ok {
			return stale
		}
		return DefaultSOLPrice
	}

	c.cached.Put(resp.Solana.USD)
	return resp.Solana.USD
}
