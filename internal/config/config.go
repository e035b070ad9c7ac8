// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr    string `mapstructure:"listen_addr"`
	DefaultWallet string `mapstructure:"default_wallet"`
	TxLimit       int    `mapstructure:"tx_limit"`
	HistoryDays   int    `mapstructure:"history_days"`
	DebugLogging  bool   `mapstructure:"debug_logging"`

	IndexerURL       string `mapstructure:"indexer_url"`
	IndexerAPIKey    string `mapstructure:"indexer_api_key"`
	PortfolioURL     string `mapstructure:"portfolio_url"`
	PortfolioAPIKey  string `mapstructure:"portfolio_api_key"`
	TokenListURL     string `mapstructure:"token_list_url"`
	TokenMetadataURL string `mapstructure:"token_metadata_url"`
	PriceURL         string `mapstructure:"price_url"`
}

const (
	DefaultListenAddr  = ":8080"
	DefaultTxLimit     = 100
	DefaultHistoryDays = 30

	// Demonstration wallet shown when the presentation layer supplies none.
	DefaultDemoWallet = "DYw8jCTfwHNRJhhmFcbXvVDTqWMEVFBX6ZKUmG5CNSKK"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"listen_addr":        DefaultListenAddr,
		"default_wallet":     DefaultDemoWallet,
		"tx_limit":           DefaultTxLimit,
		"history_days":       DefaultHistoryDays,
		"debug_logging":      false,
		// Пустые значения по умолчанию регистрируют ключи во viper,
		// иначе AutomaticEnv не увидит их при Unmarshal.
		"indexer_api_key":   "",
		"portfolio_api_key": "",
		"indexer_url":        "https://api.helius.xyz",
		"portfolio_url":      "https://public-api.birdeye.so",
		"token_list_url":     "https://token.jup.ag/strict",
		"token_metadata_url": "https://api.helius.xyz/v0/token-metadata",
		"price_url":          "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("SOLTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.IndexerAPIKey == "" {
		return errors.New("missing indexer_api_key in configuration")
	}
	if cfg.TxLimit <= 0 {
		return errors.New("invalid tx_limit")
	}
	if cfg.HistoryDays <= 0 {
		return errors.New("invalid history_days")
	}
	if _, err := solana.PublicKeyFromBase58(cfg.DefaultWallet); err != nil {
		return errors.New("default_wallet is not a valid address")
	}
	return nil
}
