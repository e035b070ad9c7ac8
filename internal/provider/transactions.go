// internal/provider/transactions.go
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

const defaultTxLimit = 100

// TransactionsClient запрашивает обогащённые транзакции кошелька
// у индексирующего провайдера.
type TransactionsClient struct {
	baseURL    string
	apiKey     string
	limit      int
	httpClient *http.Client
	logger     *zap.Logger
}

// TransactionsOptions параметризует клиент индексера.
type TransactionsOptions struct {
	BaseURL string
	APIKey  string
	Limit   int
	Timeout time.Duration
}

// NewTransactionsClient создает клиент. Отсутствие API-ключа — ошибка
// конфигурации, она фатальна и не ретраится.
func NewTransactionsClient(opts TransactionsOptions, logger *zap.Logger) (*TransactionsClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("transactions provider: missing API key")
	}
	if opts.BaseURL == "" {
		return nil, errors.New("transactions provider: missing base URL")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultTxLimit
	}

	return &TransactionsClient{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		limit:      limit,
		httpClient: newHTTPClient(opts.Timeout),
		logger:     logger.Named("tx-provider"),
	}, nil
}

// WalletTransactions возвращает ограниченный список последних транзакций.
// "Не найдено" у провайдера означает пустую историю, а не ошибку.
func (c *TransactionsClient) WalletTransactions(ctx context.Context, wallet string) ([]types.RawTransaction, error) {
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?api-key=%s&limit=%d",
		c.baseURL, url.PathEscape(wallet), url.QueryEscape(c.apiKey), c.limit)

	var txs []types.RawTransaction
	if err := getJSON(ctx, c.httpClient, c.logger, endpoint, &txs); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.logger.Debug("no transaction history in provider window",
				zap.String("wallet", wallet))
			return nil, nil
		}
		return nil, fmt.Errorf("fetch wallet transactions: %w", err)
	}

	c.logger.Debug("fetched wallet transactions",
		zap.String("wallet", wallet),
		zap.Int("count", len(txs)))
	return txs, nil
}
