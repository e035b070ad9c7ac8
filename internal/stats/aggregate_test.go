package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/soltrack/internal/types"
)

func swapAt(t time.Time, delta float64) types.InterpretedSwap {
	return types.InterpretedSwap{Timestamp: t.Unix(), NativeDelta: delta}
}

func TestDailyPnlConservesTotal(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	swaps := []types.InterpretedSwap{
		swapAt(base, 1.5),
		swapAt(base.Add(2*time.Hour), -0.5),
		swapAt(base.AddDate(0, 0, 1), 2.0),
		swapAt(base.AddDate(0, 0, 3), -3.25),
	}

	points := DailyPnl(swaps)
	require.Len(t, points, 3)

	// Сумма дневного PnL должна совпадать с суммой дельт по свопам.
	var fromPoints, fromSwaps float64
	for _, p := range points {
		fromPoints += p.Pnl
	}
	for _, s := range swaps {
		fromSwaps += s.NativeDelta
	}
	assert.InDelta(t, fromSwaps, fromPoints, 1e-9)

	// Ascending date order, no zero-filled days.
	assert.Equal(t, "2025-06-01", points[0].Date)
	assert.Equal(t, "2025-06-02", points[1].Date)
	assert.Equal(t, "2025-06-04", points[2].Date)
	assert.Equal(t, 2, points[0].Count)
}

func TestDailyPnlEmpty(t *testing.T) {
	assert.Empty(t, DailyPnl(nil))
}

func TestHourlyActivity(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	swaps := []types.InterpretedSwap{
		swapAt(base.Add(3*time.Hour), 0),
		swapAt(base.Add(3*time.Hour+30*time.Minute), 0),
		swapAt(base.Add(23*time.Hour), 0),
	}

	buckets := HourlyActivity(swaps)
	require.Len(t, buckets, 24)
	assert.Equal(t, 2, buckets[3].Count)
	assert.Equal(t, 1, buckets[23].Count)
	assert.Equal(t, 0, buckets[12].Count)
}

func TestSessionStats(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	swaps := []types.InterpretedSwap{
		swapAt(base.Add(1*time.Hour), 1.0),   // Asia, win
		swapAt(base.Add(7*time.Hour), -2.0),  // Asia, loss
		swapAt(base.Add(8*time.Hour), 3.0),   // Europe boundary, win
		swapAt(base.Add(16*time.Hour), -1.0), // US boundary, loss
		swapAt(base.Add(23*time.Hour), 0.5),  // US, win
	}

	stats := SessionStats(swaps)
	require.Len(t, stats, 3)

	asia := stats[0]
	assert.Equal(t, "Asia", asia.Session)
	assert.Equal(t, 2, asia.Count)
	assert.InDelta(t, -1.0, asia.Pnl, 1e-9)
	assert.InDelta(t, -0.5, asia.AvgPnl, 1e-9)
	assert.InDelta(t, 0.5, asia.WinRate, 1e-9)

	europe := stats[1]
	assert.Equal(t, 1, europe.Count)
	assert.InDelta(t, 3.0, europe.Pnl, 1e-9)

	us := stats[2]
	assert.Equal(t, 2, us.Count)
	assert.InDelta(t, 0.5, us.WinRate, 1e-9)
}

func TestCountTradesRatio(t *testing.T) {
	buy := types.InterpretedSwap{Direction: types.DirectionBuy}
	sell := types.InterpretedSwap{Direction: types.DirectionSell}
	unknown := types.InterpretedSwap{Direction: types.DirectionUnknown}

	tc := CountTrades([]types.InterpretedSwap{buy, buy, buy, sell, sell, unknown})
	assert.Equal(t, 3, tc.Buys)
	assert.Equal(t, 2, tc.Sells)
	require.NotNil(t, tc.Ratio)
	assert.Equal(t, "1.50", *tc.Ratio)

	tc = CountTrades([]types.InterpretedSwap{buy})
	require.NotNil(t, tc.Ratio)
	assert.Equal(t, "∞", *tc.Ratio)

	tc = CountTrades([]types.InterpretedSwap{unknown})
	assert.Nil(t, tc.Ratio)
}

func TestPositionBreakdown(t *testing.T) {
	positions := []types.Position{
		{RealizedPnl: 10, UnrealizedPnl: 5},  // +15
		{RealizedPnl: -2, UnrealizedPnl: -3}, // -5
		{RealizedPnl: 1, UnrealizedPnl: 0},   // +1
		{RealizedPnl: 0, UnrealizedPnl: 0},   // flat, ignored
	}

	ps := PositionBreakdown(positions)
	assert.Equal(t, 2, ps.Wins)
	assert.Equal(t, 1, ps.Losses)
	assert.InDelta(t, 15.0, ps.LargestGain, 1e-9)
	assert.InDelta(t, -5.0, ps.LargestLoss, 1e-9)
	assert.InDelta(t, 8.0, ps.AvgWin, 1e-9)
	assert.InDelta(t, -5.0, ps.AvgLoss, 1e-9)
	require.NotNil(t, ps.ProfitFactor)
	assert.InDelta(t, 16.0/5.0, *ps.ProfitFactor, 1e-9)
}

func TestPositionBreakdownNoLosses(t *testing.T) {
	ps := PositionBreakdown([]types.Position{{RealizedPnl: 4}})
	assert.Nil(t, ps.ProfitFactor)
}

func TestAverageTradeInterval(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	swaps := []types.InterpretedSwap{
		swapAt(base.Add(20*time.Minute), 0),
		swapAt(base, 0),
		swapAt(base.Add(10*time.Minute), 0),
		swapAt(base.Add(10*time.Minute), 0), // duplicate timestamp, gap discarded
	}

	assert.InDelta(t, 10.0, AverageTradeInterval(swaps), 1e-9)
	assert.Zero(t, AverageTradeInterval(swaps[:1]))
	assert.Zero(t, AverageTradeInterval(nil))
}

func TestOrderBreakdown(t *testing.T) {
	swaps := []types.InterpretedSwap{
		{OrderType: types.OrderMarket, NativeValue: 1},
		{OrderType: types.OrderMarket, NativeValue: 2},
		{OrderType: types.OrderDCA},
		{OrderType: types.OrderUnknown},
	}

	buckets := OrderBreakdown(swaps)
	require.Len(t, buckets, 4)
	assert.Equal(t, types.OrderMarket, buckets[0].Type)
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 3.0, buckets[0].VolumeNative, 1e-9)
	assert.Equal(t, 1, buckets[2].Count) // DCA
	assert.Equal(t, 1, buckets[3].Count) // Unknown
}

func TestFeeComposition(t *testing.T) {
	swaps := []types.InterpretedSwap{
		{Source: "JUPITER", FeeLamports: 5_000_000},
		{Source: "JUPITER", FeeLamports: 5_000_000},
		{Source: "RAYDIUM", FeeLamports: 10_000_000},
		{Source: "", FeeLamports: 20_000_000},
	}

	buckets := FeeComposition(swaps)
	require.Len(t, buckets, 3)

	var total float64
	for _, b := range buckets {
		total += b.Percent
	}
	assert.InDelta(t, 100.0, total, 1e-9)
	assert.Equal(t, "UNKNOWN", buckets[0].Source)
	assert.InDelta(t, 50.0, buckets[0].Percent, 1e-9)
}

func TestFeeCompositionCollapsesSmallSources(t *testing.T) {
	sources := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var swaps []types.InterpretedSwap
	for i, src := range sources {
		swaps = append(swaps, types.InterpretedSwap{
			Source:      src,
			FeeLamports: uint64((i + 1) * 1_000_000),
		})
	}

	buckets := FeeComposition(swaps)
	require.Len(t, buckets, 6)
	assert.Equal(t, "Other", buckets[5].Source)

	var total float64
	for _, b := range buckets {
		total += b.Percent
	}
	assert.InDelta(t, 100.0, total, 1e-9)

	// The biggest sources survive the collapse.
	assert.Equal(t, "H", buckets[0].Source)
	assert.False(t, math.IsNaN(buckets[5].Percent))
}

func TestFeeCompositionEmpty(t *testing.T) {
	assert.Nil(t, FeeComposition(nil))
}
