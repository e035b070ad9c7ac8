// internal/provider/portfolio.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/soltrack/internal/types"
)

// PortfolioClient queries the position/valuation provider for current
// holdings and historical daily balances.
type PortfolioClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// PortfolioOptions parameterises the valuation provider client.
type PortfolioOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewPortfolioClient(opts PortfolioOptions, logger *zap.Logger) (*PortfolioClient, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("portfolio provider: missing base URL")
	}
	return &PortfolioClient{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: newHTTPClient(opts.Timeout),
		logger:     logger.Named("portfolio-provider"),
	}, nil
}

type portfolioResponse struct {
	NetWorth float64 `json:"net_worth"`
	Items    []struct {
		Symbol        string  `json:"symbol"`
		Address       string  `json:"address"`
		Balance       float64 `json:"ui_amount"`
		ValueUSD      float64 `json:"value_usd"`
		RealizedPnl   float64 `json:"realized_pnl"`
		UnrealizedPnl float64 `json:"unrealized_pnl"`
	} `json:"items"`
}

// Positions returns the wallet's current holdings plus the total net worth
// in USD. A wallet unknown to the provider yields an empty portfolio.
func (c *PortfolioClient) Positions(ctx context.Context, wallet string) ([]types.Position, float64, error) {
	endpoint := fmt.Sprintf("%s/v1/wallet/portfolio?wallet=%s&api_key=%s",
		c.baseURL, url.QueryEscape(wallet), url.QueryEscape(c.apiKey))

	var resp portfolioResponse
	if err := getJSON(ctx, c.httpClient, c.logger, endpoint, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("fetch wallet portfolio: %w", err)
	}

	positions := make([]types.Position, 0, len(resp.Items))
	for _, item := range resp.Items {
		positions = append(positions, types.Position{
			Symbol:        item.Symbol,
			Mint:          item.Address,
			Balance:       item.Balance,
			ValueUSD:      item.ValueUSD,
			RealizedPnl:   item.RealizedPnl,
			UnrealizedPnl: item.UnrealizedPnl,
		})
	}
	return positions, resp.NetWorth, nil
}

type historyResponse struct {
	Items []struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	} `json:"items"`
}

// HistoricalValue returns the daily USD balance series for the last
// `days` days, oldest first.
func (c *PortfolioClient) HistoricalValue(ctx context.Context, wallet string, days int) ([]types.PortfolioHistoryPoint, error) {
	endpoint := fmt.Sprintf("%s/v1/wallet/balance_history?wallet=%s&days=%d&api_key=%s",
		c.baseURL, url.QueryEscape(wallet), days, url.QueryEscape(c.apiKey))

	var resp historyResponse
	if err := getJSON(ctx, c.httpClient, c.logger, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetch balance history: %w", err)
	}

	points := make([]types.PortfolioHistoryPoint, 0, len(resp.Items))
	for _, item := range resp.Items {
		points = append(points, types.PortfolioHistoryPoint{Date: item.Date, Value: item.Value})
	}
	return points, nil
}
