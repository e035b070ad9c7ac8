// internal/types/types.go
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the trade direction from the wallet's perspective.
type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionUnknown Direction = "unknown"
)

// OrderType is the coarse order taxonomy derived from program metadata.
type OrderType string

const (
	OrderMarket  OrderType = "Market"
	OrderLimit   OrderType = "Limit"
	OrderDCA     OrderType = "DCA"
	OrderUnknown OrderType = "Unknown"
)

// RawTransaction is one transaction as reported by the enhanced
// transactions indexer. Immutable once fetched.
type RawTransaction struct {
	Signature       string           `json:"signature"`
	Timestamp       int64            `json:"timestamp"`
	Type            string           `json:"type"`
	Source          string           `json:"source"`
	Description     string           `json:"description"`
	Fee             uint64           `json:"fee"`
	FeePayer        string           `json:"feePayer"`
	TokenTransfers  []TokenTransfer  `json:"tokenTransfers"`
	NativeTransfers []NativeTransfer `json:"nativeTransfers"`
	Events          Events           `json:"events"`
	Err             *TxError         `json:"transactionError,omitempty"`
}

// TxError marks a failed transaction.
type TxError struct {
	Error string `json:"error"`
}

// TokenTransfer is a single SPL token movement.
type TokenTransfer struct {
	Mint            string `json:"mint"`
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	RawAmount       string `json:"rawTokenAmount"`
	Decimals        uint8  `json:"decimals"`
}

// Amount returns the transfer amount scaled by the token decimals.
func (t TokenTransfer) Amount() float64 {
	return scaledAmount(t.RawAmount, int32(t.Decimals))
}

// NativeTransfer is a lamport movement between two accounts.
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"` // lamports
}

// Events holds the structured event sub-records the indexer attaches.
type Events struct {
	Swap *SwapEvent `json:"swap,omitempty"`
}

// SwapEvent describes the input/output legs of a trade directly.
type SwapEvent struct {
	NativeInput  *NativeLeg   `json:"nativeInput,omitempty"`
	NativeOutput *NativeLeg   `json:"nativeOutput,omitempty"`
	TokenInputs  []TokenLeg   `json:"tokenInputs,omitempty"`
	TokenOutputs []TokenLeg   `json:"tokenOutputs,omitempty"`
	ProgramInfo  *ProgramInfo `json:"programInfo,omitempty"`
}

// NativeLeg is a SOL leg of a swap event. Amount is lamports as a string.
type NativeLeg struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// Lamports parses the leg amount, 0 on malformed input.
func (l NativeLeg) Lamports() int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(l.Amount))
	if err != nil {
		return 0
	}
	return d.IntPart()
}

// TokenLeg is a token leg of a swap event.
type TokenLeg struct {
	UserAccount string `json:"userAccount"`
	Mint        string `json:"mint"`
	RawAmount   string `json:"rawTokenAmount"`
	Decimals    uint8  `json:"decimals"`
}

// Amount returns the leg amount scaled by the token decimals.
func (l TokenLeg) Amount() float64 {
	return scaledAmount(l.RawAmount, int32(l.Decimals))
}

// ProgramInfo identifies the program that produced a swap event.
type ProgramInfo struct {
	Source      string `json:"source"`
	Account     string `json:"account"`
	ProgramName string `json:"programName"`
}

// InterpretedSwap is the structured reading of one RawTransaction for a
// given wallet. Created fresh per aggregation request, never cached.
type InterpretedSwap struct {
	Signature   string    `json:"signature"`
	Timestamp   int64     `json:"timestamp"`
	Direction   Direction `json:"direction"`
	NativeDelta float64   `json:"native_delta"` // SOL, signed from the wallet's perspective
	Action      string    `json:"action"`
	Symbols     []string  `json:"symbols"`
	OrderType   OrderType `json:"order_type"`
	Source      string    `json:"source"`
	FeeLamports uint64    `json:"fee_lamports"`
	NativeValue float64   `json:"native_value"` // SOL
	QuoteValue  float64   `json:"quote_value"`  // USD
}

// Position is one wallet holding as reported by the valuation provider.
type Position struct {
	Symbol        string  `json:"symbol"`
	Mint          string  `json:"mint"`
	Balance       float64 `json:"balance"`
	ValueUSD      float64 `json:"value_usd"`
	RealizedPnl   float64 `json:"realized_pnl"`
	UnrealizedPnl float64 `json:"unrealized_pnl"`
}

// TotalPnl is the realized plus unrealized PnL of the position.
func (p Position) TotalPnl() float64 {
	return p.RealizedPnl + p.UnrealizedPnl
}

// DailyPnlPoint is one calendar day with at least one qualifying transaction.
type DailyPnlPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD, UTC
	Pnl   float64 `json:"pnl"`
	Count int     `json:"count"`
}

// HourlyActivityPoint is one bucket of the fixed 24-hour histogram.
type HourlyActivityPoint struct {
	Hour  int `json:"hour"` // 0..23, UTC
	Count int `json:"count"`
}

// SessionStat aggregates activity inside one fixed 8-hour UTC window.
type SessionStat struct {
	Session string  `json:"session"` // Asia | Europe | US
	Count   int     `json:"count"`
	Pnl     float64 `json:"pnl"`
	AvgPnl  float64 `json:"avg_pnl"`
	WinRate float64 `json:"win_rate"` // share of positive-PnL transactions
}

// PortfolioHistoryPoint is one day of portfolio USD value.
type PortfolioHistoryPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// MaxDrawdownResult is the outcome of a single-pass drawdown scan.
type MaxDrawdownResult struct {
	Percentage float64 `json:"percentage"` // <= 0
	Peak       float64 `json:"peak"`
	Trough     float64 `json:"trough"`
	PeakDate   string  `json:"peak_date,omitempty"`
	TroughDate string  `json:"trough_date,omitempty"`
}

// FeeBucket is one slice of the fee composition breakdown.
type FeeBucket struct {
	Source  string  `json:"source"`
	Fee     float64 `json:"fee"` // SOL
	Percent float64 `json:"percent"`
}

func scaledAmount(raw string, decimals int32) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	f, _ := d.Shift(-decimals).Float64()
	return f
}
