// internal/service/service.go
package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/soltrack/internal/interpret"
	"github.com/rovshanmuradov/soltrack/internal/stats"
	"github.com/rovshanmuradov/soltrack/internal/types"
)

const defaultHistoryDays = 30

// TransactionSource supplies raw wallet transactions.
type TransactionSource interface {
	WalletTransactions(ctx context.Context, wallet string) ([]types.RawTransaction, error)
}

// PortfolioSource supplies positions, net worth and balance history.
type PortfolioSource interface {
	Positions(ctx context.Context, wallet string) ([]types.Position, float64, error)
	HistoricalValue(ctx context.Context, wallet string, days int) ([]types.PortfolioHistoryPoint, error)
}

// Service runs one aggregation request end to end: fetch, interpret,
// fold. Stateless per request; all caching lives in the collaborators.
type Service struct {
	txs         TransactionSource
	portfolio   PortfolioSource
	interpreter *interpret.Interpreter
	historyDays int
	logger      *zap.Logger
	now         func() time.Time
}

func New(txs TransactionSource, portfolio PortfolioSource, interpreter *interpret.Interpreter, historyDays int, logger *zap.Logger) *Service {
	if historyDays <= 0 {
		historyDays = defaultHistoryDays
	}
	return &Service{
		txs:         txs,
		portfolio:   portfolio,
		interpreter: interpreter,
		historyDays: historyDays,
		logger:      logger.Named("service"),
		now:         time.Now,
	}
}

// Analysis is one wallet's interpreted transaction batch plus the
// position snapshot it was fetched alongside.
type Analysis struct {
	Wallet    string                  `json:"wallet"`
	Swaps     []types.InterpretedSwap `json:"swaps"`
	Positions []types.Position        `json:"positions"`
	NetWorth  float64                 `json:"net_worth"`
}

// Analyze fetches transactions and positions concurrently and runs the
// interpretation pipeline. A transactions failure propagates; a positions
// failure degrades to an empty snapshot.
func (s *Service) Analyze(ctx context.Context, wallet string) (*Analysis, error) {
	var (
		raw       []types.RawTransaction
		positions []types.Position
		netWorth  float64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = s.txs.WalletTransactions(gCtx, wallet)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", wallet, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		positions, netWorth, err = s.portfolio.Positions(gCtx, wallet)
		if err != nil {
			s.logger.Warn("position snapshot unavailable, continuing without it",
				zap.String("wallet", wallet),
				zap.Error(err))
			positions, netWorth = nil, 0
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Wallet:    wallet,
		Swaps:     s.interpreter.InterpretAll(ctx, raw, wallet),
		Positions: positions,
		NetWorth:  netWorth,
	}
	s.logger.Debug("wallet analyzed",
		zap.String("wallet", wallet),
		zap.Int("transactions", len(raw)),
		zap.Int("swaps", len(analysis.Swaps)),
		zap.Int("positions", len(positions)))
	return analysis, nil
}

// Summary is the headline metric payload for one wallet.
type Summary struct {
	Wallet           string                  `json:"wallet"`
	NetWorth         float64                 `json:"net_worth"`
	TotalPnl         float64                 `json:"total_pnl"` // SOL, recent window
	WinRate          float64                 `json:"win_rate"`
	Trades           stats.TradeCounts       `json:"trades"`
	Positions        stats.PositionStats     `json:"position_stats"`
	AvgTradeInterval float64                 `json:"avg_trade_interval_min"`
	TotalFees        float64                 `json:"total_fees_sol"`
	VolumeNative     float64                 `json:"volume_sol"`
	VolumeQuote      float64                 `json:"volume_usd"`
	MaxDrawdown      types.MaxDrawdownResult `json:"max_drawdown"`
	SharpeRatio      *float64                `json:"sharpe_ratio"`
}

// Summarize folds an analysis into the headline metrics.
func (s *Service) Summarize(ctx context.Context, a *Analysis) Summary {
	sum := Summary{
		Wallet:           a.Wallet,
		NetWorth:         a.NetWorth,
		Trades:           stats.CountTrades(a.Swaps),
		Positions:        stats.PositionBreakdown(a.Positions),
		AvgTradeInterval: stats.AverageTradeInterval(a.Swaps),
	}

	for _, sw := range a.Swaps {
		sum.TotalPnl += sw.NativeDelta
		sum.TotalFees += float64(sw.FeeLamports) / 1e9
		sum.VolumeNative += sw.NativeValue
		sum.VolumeQuote += sw.QuoteValue
	}
	if wins, losses := sum.Positions.Wins, sum.Positions.Losses; wins+losses > 0 {
		sum.WinRate = float64(wins) / float64(wins+losses)
	}

	history := s.PortfolioHistory(ctx, a.Wallet, a.NetWorth)
	sum.MaxDrawdown = stats.MaxDrawdown(history)

	values := make([]float64, len(history))
	for i, p := range history {
		values[i] = p.Value
	}
	sum.SharpeRatio = stats.SharpeRatio(stats.DailyReturns(values))

	return sum
}

// Positions exposes the current position snapshot and net worth.
func (s *Service) Positions(ctx context.Context, wallet string) ([]types.Position, float64, error) {
	return s.portfolio.Positions(ctx, wallet)
}

// PortfolioHistory returns the daily USD value series, substituting a
// deterministic simulated walk when the provider fails. The fallback is
// seeded from the wallet so repeated requests chart the same curve.
func (s *Service) PortfolioHistory(ctx context.Context, wallet string, netWorth float64) []types.PortfolioHistoryPoint {
	history, err := s.portfolio.HistoricalValue(ctx, wallet, s.historyDays)
	if err == nil && len(history) > 0 {
		return history
	}
	if err != nil {
		s.logger.Debug("balance history unavailable, simulating series",
			zap.String("wallet", wallet),
			zap.Error(err))
	}
	return stats.SimulatedHistory(walletSeed(wallet), netWorth, s.historyDays, s.now())
}

func walletSeed(wallet string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(wallet))
	return int64(h.Sum64())
}
