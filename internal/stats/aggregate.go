// internal/stats/aggregate.go
package stats

import (
	"sort"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/soltrack/internal/types"
)

// Session boundaries, UTC hours.
const (
	sessionAsiaEnd   = 8  // 00-08
	sessionEuropeEnd = 16 // 08-16
)

var sessionNames = []string{"Asia", "Europe", "US"}

// DailyPnl groups swaps by UTC calendar date and sums native deltas.
// Only dates with data are emitted, sorted ascending. The grouping
// conserves total PnL: the points sum to the sum of all deltas.
func DailyPnl(swaps []types.InterpretedSwap) []types.DailyPnlPoint {
	byDate := make(map[string]*types.DailyPnlPoint)
	for _, s := range swaps {
		date := time.Unix(s.Timestamp, 0).UTC().Format("2006-01-02")
		p, ok := byDate[date]
		if !ok {
			p = &types.DailyPnlPoint{Date: date}
			byDate[date] = p
		}
		p.Pnl += s.NativeDelta
		p.Count++
	}

	points := make([]types.DailyPnlPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// HourlyActivity is a fixed 24-bucket histogram keyed by UTC hour.
func HourlyActivity(swaps []types.InterpretedSwap) []types.HourlyActivityPoint {
	buckets := make([]types.HourlyActivityPoint, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}
	for _, s := range swaps {
		hour := time.Unix(s.Timestamp, 0).UTC().Hour()
		buckets[hour].Count++
	}
	return buckets
}

// SessionStats folds swaps into the three fixed 8-hour UTC windows.
// Every swap belongs to exactly one session, determined solely by hour.
func SessionStats(swaps []types.InterpretedSwap) []types.SessionStat {
	stats := make([]types.SessionStat, len(sessionNames))
	wins := make([]int, len(sessionNames))
	for i, name := range sessionNames {
		stats[i].Session = name
	}

	for _, s := range swaps {
		idx := sessionIndex(time.Unix(s.Timestamp, 0).UTC().Hour())
		stats[idx].Count++
		stats[idx].Pnl += s.NativeDelta
		if s.NativeDelta > 0 {
			wins[idx]++
		}
	}

	for i := range stats {
		if stats[i].Count > 0 {
			stats[i].AvgPnl = stats[i].Pnl / float64(stats[i].Count)
			stats[i].WinRate = float64(wins[i]) / float64(stats[i].Count)
		}
	}
	return stats
}

func sessionIndex(hour int) int {
	switch {
	case hour < sessionAsiaEnd:
		return 0
	case hour < sessionEuropeEnd:
		return 1
	}
	return 2
}

// TradeCounts summarizes buy/sell classified swaps.
type TradeCounts struct {
	Buys  int     `json:"buys"`
	Sells int     `json:"sells"`
	Ratio *string `json:"ratio"` // buys/sells, "∞" when sells=0, null when both 0
}

// CountTrades counts directional swaps and derives the buy/sell ratio.
func CountTrades(swaps []types.InterpretedSwap) TradeCounts {
	var tc TradeCounts
	for _, s := range swaps {
		switch s.Direction {
		case types.DirectionBuy:
			tc.Buys++
		case types.DirectionSell:
			tc.Sells++
		}
	}

	switch {
	case tc.Sells > 0:
		ratio := strconv.FormatFloat(float64(tc.Buys)/float64(tc.Sells), 'f', 2, 64)
		tc.Ratio = &ratio
	case tc.Buys > 0:
		inf := "∞"
		tc.Ratio = &inf
	}
	return tc
}

// PositionStats are the per-position PnL aggregates: realized plus
// unrealized per holding, not per transaction.
type PositionStats struct {
	LargestGain  float64  `json:"largest_gain"`
	LargestLoss  float64  `json:"largest_loss"`
	AvgWin       float64  `json:"avg_win"`
	AvgLoss      float64  `json:"avg_loss"`
	ProfitFactor *float64 `json:"profit_factor"` // null when there are no losses
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
}

// PositionBreakdown folds position-level PnL into gain/loss aggregates.
func PositionBreakdown(positions []types.Position) PositionStats {
	var ps PositionStats
	var grossWin, grossLoss float64

	for _, p := range positions {
		pnl := p.TotalPnl()
		switch {
		case pnl > 0:
			ps.Wins++
			grossWin += pnl
			if pnl > ps.LargestGain {
				ps.LargestGain = pnl
			}
		case pnl < 0:
			ps.Losses++
			grossLoss += -pnl
			if pnl < ps.LargestLoss {
				ps.LargestLoss = pnl
			}
		}
	}

	if ps.Wins > 0 {
		ps.AvgWin = grossWin / float64(ps.Wins)
	}
	if ps.Losses > 0 {
		ps.AvgLoss = -grossLoss / float64(ps.Losses)
		pf := grossWin / grossLoss
		ps.ProfitFactor = &pf
	}
	return ps
}

// AverageTradeInterval returns the mean gap in minutes between
// consecutive swaps. Needs at least two; non-positive gaps are noise
// from identical timestamps and are discarded.
func AverageTradeInterval(swaps []types.InterpretedSwap) float64 {
	if len(swaps) < 2 {
		return 0
	}

	ts := make([]int64, 0, len(swaps))
	for _, s := range swaps {
		ts = append(ts, s.Timestamp)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })

	var total int64
	var gaps int
	for i := 1; i < len(ts); i++ {
		gap := ts[i] - ts[i-1]
		if gap <= 0 {
			continue
		}
		total += gap
		gaps++
	}
	if gaps == 0 {
		return 0
	}
	return float64(total) / float64(gaps) / 60
}

// OrderBucket is one slice of the order-type breakdown.
type OrderBucket struct {
	Type         types.OrderType `json:"type"`
	Count        int             `json:"count"`
	VolumeNative float64         `json:"volume_sol"`
}

// OrderBreakdown counts swaps per order-type tag, in a fixed order.
func OrderBreakdown(swaps []types.InterpretedSwap) []OrderBucket {
	order := []types.OrderType{types.OrderMarket, types.OrderLimit, types.OrderDCA, types.OrderUnknown}
	index := make(map[types.OrderType]int, len(order))
	buckets := make([]OrderBucket, len(order))
	for i, t := range order {
		buckets[i].Type = t
		index[t] = i
	}

	for _, s := range swaps {
		i, ok := index[s.OrderType]
		if !ok {
			i = index[types.OrderUnknown]
		}
		buckets[i].Count++
		buckets[i].VolumeNative += s.NativeValue
	}
	return buckets
}

const maxFeeSources = 6

// FeeComposition groups transaction fees by source tag. More than six
// distinct sources collapse the smallest into a single "Other" bucket.
// Percentages sum to 100 relative to total fees.
func FeeComposition(swaps []types.InterpretedSwap) []types.FeeBucket {
	bySource := make(map[string]float64)
	var total float64
	for _, s := range swaps {
		fee := float64(s.FeeLamports) / float64(solana.LAMPORTS_PER_SOL)
		source := s.Source
		if source == "" {
			source = "UNKNOWN"
		}
		bySource[source] += fee
		total += fee
	}
	if total == 0 {
		return nil
	}

	buckets := make([]types.FeeBucket, 0, len(bySource))
	for source, fee := range bySource {
		buckets = append(buckets, types.FeeBucket{Source: source, Fee: fee})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Fee != buckets[j].Fee {
			return buckets[i].Fee > buckets[j].Fee
		}
		return buckets[i].Source < buckets[j].Source
	})

	if len(buckets) > maxFeeSources {
		var other float64
		for _, b := range buckets[maxFeeSources-1:] {
			other += b.Fee
		}
		buckets = append(buckets[:maxFeeSources-1], types.FeeBucket{Source: "Other", Fee: other})
	}

	for i := range buckets {
		buckets[i].Percent = buckets[i].Fee / total * 100
	}
	return buckets
}
