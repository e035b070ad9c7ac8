// internal/stats/risk.go
package stats

import (
	"math"
	"math/rand"
	"time"

	"github.com/rovshanmuradov/soltrack/internal/types"
)

const (
	annualRiskFreeRate = 0.02
	tradingDaysPerYear = 252
)

// MaxDrawdown scans a value series once, tracking the rolling peak and
// retaining the most negative decline with its peak/trough pair. A peak
// of exactly zero skips that point's drawdown computation.
func MaxDrawdown(points []types.PortfolioHistoryPoint) types.MaxDrawdownResult {
	if len(points) == 0 {
		return types.MaxDrawdownResult{}
	}

	peak := points[0].Value
	peakDate := points[0].Date
	result := types.MaxDrawdownResult{
		Peak:       peak,
		Trough:     points[0].Value,
		PeakDate:   peakDate,
		TroughDate: points[0].Date,
	}

	for _, p := range points {
		if p.Value > peak {
			peak = p.Value
			peakDate = p.Date
		}
		if peak == 0 {
			continue
		}
		dd := (p.Value - peak) / peak * 100
		if dd < result.Percentage {
			result.Percentage = dd
			result.Peak = peak
			result.PeakDate = peakDate
			result.Trough = p.Value
			result.TroughDate = p.Date
		}
	}
	return result
}

// DailyReturns computes the simple fractional change between consecutive
// values, skipping non-finite values and zero-valued predecessors.
func DailyReturns(values []float64) []float64 {
	var returns []float64
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1], values[i]
		if !isFinite(prev) || !isFinite(cur) || prev == 0 {
			continue
		}
		returns = append(returns, (cur-prev)/prev)
	}
	return returns
}

// StdDev is the Bessel-corrected sample standard deviation over the
// finite values. Returns 0 for fewer than two values or zero variance.
func StdDev(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) < 2 {
		return 0
	}

	var sum float64
	for _, v := range finite {
		sum += v
	}
	mean := sum / float64(len(finite))

	var sq float64
	for _, v := range finite {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(finite)-1))
}

// SharpeRatio annualizes the risk-adjusted return of a daily return
// series, rounded to 4 decimals. Nil when there are fewer than two finite
// returns, zero volatility, or a non-finite result.
func SharpeRatio(dailyReturns []float64) *float64 {
	finite := make([]float64, 0, len(dailyReturns))
	for _, r := range dailyReturns {
		if isFinite(r) {
			finite = append(finite, r)
		}
	}
	if len(finite) < 2 {
		return nil
	}

	var sum float64
	for _, r := range finite {
		sum += r
	}
	mean := sum / float64(len(finite))

	vol := StdDev(finite)
	if vol == 0 {
		return nil
	}

	dailyRiskFree := annualRiskFreeRate / tradingDaysPerYear
	sharpe := (mean - dailyRiskFree) / vol * math.Sqrt(tradingDaysPerYear)
	if !isFinite(sharpe) {
		return nil
	}

	sharpe = math.Round(sharpe*10000) / 10000
	return &sharpe
}

// SimulatedHistory produces a deterministic pseudo-random walk anchored
// at the current net worth, used when the real time-series provider is
// unavailable. Same seed and net worth always yield the same values.
func SimulatedHistory(seed int64, netWorth float64, days int, now time.Time) []types.PortfolioHistoryPoint {
	if days <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, days)
	values[days-1] = netWorth
	for i := days - 2; i >= 0; i-- {
		// Daily move in the ±4% range, walking backwards from the anchor.
		change := (rng.Float64() - 0.5) * 0.08
		values[i] = values[i+1] / (1 + change)
	}

	start := now.UTC().AddDate(0, 0, -(days - 1))
	points := make([]types.PortfolioHistoryPoint, days)
	for i := range points {
		points[i] = types.PortfolioHistoryPoint{
			Date:  start.AddDate(0, 0, i).Format("2006-01-02"),
			Value: values[i],
		}
	}
	return points
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
