package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransactionsClientRequiresAPIKey(t *testing.T) {
	_, err := NewTransactionsClient(TransactionsOptions{BaseURL: "http://localhost"}, zap.NewNop())
	assert.Error(t, err)
}

func TestWalletTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v0/addresses/wallet1/transactions")
		assert.Equal(t, "secret", r.URL.Query().Get("api-key"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"signature":"sig1","type":"SWAP","fee":5000}]`))
	}))
	defer srv.Close()

	c, err := NewTransactionsClient(TransactionsOptions{
		BaseURL: srv.URL, APIKey: "secret", Limit: 50,
	}, zap.NewNop())
	require.NoError(t, err)

	txs, err := c.WalletTransactions(context.Background(), "wallet1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "sig1", txs[0].Signature)
	assert.Equal(t, uint64(5000), txs[0].Fee)
}

// Пустая история у провайдера — это не ошибка.
func TestWalletTransactionsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, err := NewTransactionsClient(TransactionsOptions{BaseURL: srv.URL, APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)

	txs, err := c.WalletTransactions(context.Background(), "wallet1")
	assert.NoError(t, err)
	assert.Nil(t, txs)
}

func TestWalletTransactionsRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"signature":"sig1"}]`))
	}))
	defer srv.Close()

	c, err := NewTransactionsClient(TransactionsOptions{BaseURL: srv.URL, APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)

	txs, err := c.WalletTransactions(context.Background(), "wallet1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWalletTransactionsNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewTransactionsClient(TransactionsOptions{BaseURL: srv.URL, APIKey: "bad"}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.WalletTransactions(context.Background(), "wallet1")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx other than 429 must not be retried")
}

func TestPortfolioPositions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wallet1", r.URL.Query().Get("wallet"))
		w.Write([]byte(`{
			"net_worth": 1234.5,
			"items": [
				{"symbol":"BONK","address":"mint1","ui_amount":100,"value_usd":50,"realized_pnl":10,"unrealized_pnl":-2}
			]
		}`))
	}))
	defer srv.Close()

	c, err := NewPortfolioClient(PortfolioOptions{BaseURL: srv.URL, APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)

	positions, netWorth, err := c.Positions(context.Background(), "wallet1")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, netWorth)
	require.Len(t, positions, 1)
	assert.Equal(t, "BONK", positions[0].Symbol)
	assert.Equal(t, 8.0, positions[0].TotalPnl())
}

func TestPortfolioPositionsUnknownWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, err := NewPortfolioClient(PortfolioOptions{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	positions, netWorth, err := c.Positions(context.Background(), "wallet1")
	assert.NoError(t, err)
	assert.Empty(t, positions)
	assert.Zero(t, netWorth)
}

func TestHistoricalValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		w.Write([]byte(`{"items":[{"date":"2026-08-01","value":100},{"date":"2026-08-02","value":110}]}`))
	}))
	defer srv.Close()

	c, err := NewPortfolioClient(PortfolioOptions{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	points, err := c.HistoricalValue(context.Background(), "wallet1", 30)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-08-01", points[0].Date)
	assert.Equal(t, 110.0, points[1].Value)
}

func TestPriceCurrent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"solana":{"usd":187.5}}`))
	}))
	defer srv.Close()

	c, err := NewPriceClient(PriceOptions{URL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 187.5, c.Current(context.Background()))
	// Повторный вызов обслуживается из кэша.
	assert.Equal(t, 187.5, c.Current(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestPriceCurrentDefaultOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewPriceClient(PriceOptions{URL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, DefaultSOLPrice, c.Current(context.Background()))
}

func TestPriceCurrentIgnoresNonPositive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"solana":{"usd":0}}`))
	}))
	defer srv.Close()

	c, err := NewPriceClient(PriceOptions{URL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, DefaultSOLPrice, c.Current(context.Background()))
}

func TestTokenList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"address":"mint1","symbol":"BONK","name":"Bonk","decimals":5}]`))
	}))
	defer srv.Close()

	c, err := NewTokenClient(TokenOptions{ListURL: srv.URL, MetadataURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	list, err := c.TokenList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BONK", list[0].Symbol)
}

func TestTokenMetadataBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`[{"account":"mint1","onChainMetadata":{"symbol":"WIF"},"legacyMetadata":{"symbol":"OLD"}}]`))
	}))
	defer srv.Close()

	c, err := NewTokenClient(TokenOptions{ListURL: srv.URL, MetadataURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	items, err := c.TokenMetadata(context.Background(), []string{"mint1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mint1", items[0].Mint)
	assert.Equal(t, "WIF", items[0].Metadata.Symbol)
}
