// internal/cli/wire.go
package cli

import (
	"fmt"

	"github.com/rovshanmuradov/soltrack/internal/interpret"
	"github.com/rovshanmuradov/soltrack/internal/provider"
	"github.com/rovshanmuradov/soltrack/internal/service"
	"github.com/rovshanmuradov/soltrack/internal/symbols"
)

// buildService wires providers, resolver and interpreter into one
// aggregation service from the loaded configuration.
func buildService() (*service.Service, error) {
	txClient, err := provider.NewTransactionsClient(provider.TransactionsOptions{
		BaseURL: cfg.IndexerURL,
		APIKey:  cfg.IndexerAPIKey,
		Limit:   cfg.TxLimit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init transactions provider: %w", err)
	}

	portfolioClient, err := provider.NewPortfolioClient(provider.PortfolioOptions{
		BaseURL: cfg.PortfolioURL,
		APIKey:  cfg.PortfolioAPIKey,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init portfolio provider: %w", err)
	}

	tokenClient, err := provider.NewTokenClient(provider.TokenOptions{
		ListURL:     cfg.TokenListURL,
		MetadataURL: cfg.TokenMetadataURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init token provider: %w", err)
	}

	priceClient, err := provider.NewPriceClient(provider.PriceOptions{
		URL: cfg.PriceURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init price provider: %w", err)
	}

	resolver := symbols.NewResolver(tokenClient, tokenClient, logger)
	interpreter := interpret.New(resolver, priceClient, logger)

	return service.New(txClient, portfolioClient, interpreter, cfg.HistoryDays, logger), nil
}
