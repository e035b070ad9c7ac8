// internal/symbols/resolver.go
package symbols

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/soltrack/internal/cache"
	"github.com/rovshanmuradov/soltrack/internal/provider"
)

const (
	bulkListTTL  = 10 * time.Minute
	maxSymbolLen = 12
)

// ListSource supplies the bulk well-known token list.
type ListSource interface {
	TokenList(ctx context.Context) ([]provider.TokenInfo, error)
}

// MetadataSource supplies best-effort display metadata per mint.
type MetadataSource interface {
	TokenMetadata(ctx context.Context, mints []string) ([]provider.MintMetadata, error)
}

// Resolver maps mint identifiers to display symbols through two cached
// tiers: the bulk token list and a lazy per-mint metadata fallback.
// Bulk-list entries always win over fallback entries.
type Resolver struct {
	list     ListSource
	metadata MetadataSource
	logger   *zap.Logger

	bulk *cache.TTL[map[string]string]

	mu       sync.RWMutex
	fallback map[string]string // per-mint, unbounded within process
}

func NewResolver(list ListSource, metadata MetadataSource, logger *zap.Logger) *Resolver {
	return &Resolver{
		list:     list,
		metadata: metadata,
		logger:   logger.Named("symbols"),
		bulk:     cache.NewTTL[map[string]string](bulkListTTL),
		fallback: make(map[string]string),
	}
}

// WithClock overrides the bulk cache time source. Meant for tests.
func (r *Resolver) WithClock(now cache.Clock) *Resolver {
	r.bulk.WithClock(now)
	return r
}

// Resolve returns a display symbol for every requested mint. Partial
// upstream failures degrade to the truncated-mint fallback, never to an
// error: every input mint is present as a key in the result.
func (r *Resolver) Resolve(ctx context.Context, mints []string) map[string]string {
	result := make(map[string]string, len(mints))
	if len(mints) == 0 {
		return result
	}

	bulk := r.bulkList(ctx)

	var unknown []string
	for _, mint := range mints {
		if _, done := result[mint]; done {
			continue
		}
		if sym, ok := bulk[mint]; ok {
			result[mint] = sym
			continue
		}
		unknown = append(unknown, mint)
	}

	var missing []string
	r.mu.RLock()
	for _, mint := range unknown {
		if sym, ok := r.fallback[mint]; ok {
			result[mint] = sym
		} else {
			missing = append(missing, mint)
		}
	}
	r.mu.RUnlock()

	if len(missing) > 0 {
		r.resolveViaMetadata(ctx, missing, result)
	}

	// Everything still unresolved keeps a recognizable form of the mint.
	for _, mint := range mints {
		if _, ok := result[mint]; !ok {
			result[mint] = truncateMint(mint)
		}
	}
	return result
}

// bulkList returns the cached token list mapping, refreshing it when the
// TTL elapsed. A failed refresh silently reuses the last good list.
func (r *Resolver) bulkList(ctx context.Context) map[string]string {
	if m, ok := r.bulk.Get(); ok {
		return m
	}

	list, err := r.list.TokenList(ctx)
	if err != nil {
		r.logger.Debug("token list refresh failed, reusing stale cache", zap.Error(err))
		if stale, ok := r.bulk.Stale(); ok {
			return stale
		}
		return nil
	}

	m := make(map[string]string, len(list))
	for _, t := range list {
		if t.Symbol != "" {
			m[t.Address] = truncateSymbol(t.Symbol)
		}
	}
	r.bulk.Put(m)
	return m
}

func (r *Resolver) resolveViaMetadata(ctx context.Context, mints []string, result map[string]string) {
	items, err := r.metadata.TokenMetadata(ctx, mints)
	if err != nil {
		r.logger.Debug("metadata lookup failed, falling back to truncated mints",
			zap.Int("mints", len(mints)),
			zap.Error(err))
		return
	}

	resolved := make(map[string]string, len(items))
	for _, item := range items {
		sym := bestName(item)
		if sym == "" {
			continue
		}
		resolved[item.Mint] = sym
		result[item.Mint] = sym
	}

	if len(resolved) > 0 {
		r.mu.Lock()
		for mint, sym := range resolved {
			r.fallback[mint] = sym
		}
		r.mu.Unlock()
	}
}

// bestName picks the display name by priority: structured metadata symbol,
// then structured metadata name, then the legacy token-info symbol.
func bestName(item provider.MintMetadata) string {
	switch {
	case item.Metadata.Symbol != "":
		return truncateSymbol(item.Metadata.Symbol)
	case item.Metadata.Name != "":
		return truncateSymbol(item.Metadata.Name)
	case item.TokenInfo.Symbol != "":
		return truncateSymbol(item.TokenInfo.Symbol)
	}
	return ""
}

func truncateSymbol(s string) string {
	if len(s) > maxSymbolLen {
		return s[:maxSymbolLen]
	}
	return s
}

// truncateMint renders a mint as "abcd...wxyz" so unresolved tokens stay
// distinguishable in the UI.
func truncateMint(mint string) string {
	if len(mint) <= 8 {
		return mint
	}
	return mint[:4] + "..." + mint[len(mint)-4:]
}
