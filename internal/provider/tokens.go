// internal/provider/tokens.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TokenInfo is one entry of the bulk token list.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

// MintMetadata is the best-effort display metadata for one mint as
// returned by the batch metadata provider.
type MintMetadata struct {
	Mint     string `json:"account"`
	Metadata struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"onChainMetadata"`
	TokenInfo struct {
		Symbol string `json:"symbol"`
	} `json:"legacyMetadata"`
}

// TokenClient serves both symbol-resolution tiers: the bulk well-known
// token list and the per-mint metadata batch lookup.
type TokenClient struct {
	listURL     string
	metadataURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// TokenOptions parameterises the token list/metadata client.
type TokenOptions struct {
	ListURL     string
	MetadataURL string
	Timeout     time.Duration
}

func NewTokenClient(opts TokenOptions, logger *zap.Logger) (*TokenClient, error) {
	if opts.ListURL == "" {
		return nil, errors.New("token provider: missing token list URL")
	}
	if opts.MetadataURL == "" {
		return nil, errors.New("token provider: missing metadata URL")
	}
	return &TokenClient{
		listURL:     opts.ListURL,
		metadataURL: opts.MetadataURL,
		httpClient:  newHTTPClient(opts.Timeout),
		logger:      logger.Named("token-provider"),
	}, nil
}

// TokenList fetches the full list of well-known tokens.
func (c *TokenClient) TokenList(ctx context.Context) ([]TokenInfo, error) {
	var list []TokenInfo
	if err := getJSON(ctx, c.httpClient, c.logger, c.listURL, &list); err != nil {
		return nil, fmt.Errorf("fetch token list: %w", err)
	}
	c.logger.Debug("fetched bulk token list", zap.Int("count", len(list)))
	return list, nil
}

// TokenMetadata batch-queries display metadata for the given mints in a
// single call.
func (c *TokenClient) TokenMetadata(ctx context.Context, mints []string) ([]MintMetadata, error) {
	if len(mints) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(struct {
		MintAccounts []string `json:"mintAccounts"`
	}{MintAccounts: mints})
	if err != nil {
		return nil, fmt.Errorf("encode metadata request: %w", err)
	}

	var out []MintMetadata
	err = doJSON(ctx, c.httpClient, c.logger, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.metadataURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &out, defaultRetries)
	if err != nil {
		return nil, fmt.Errorf("fetch token metadata: %w", err)
	}
	return out, nil
}
