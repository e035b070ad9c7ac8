// internal/interpret/interpreter.go
package interpret

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/soltrack/internal/classify"
	"github.com/rovshanmuradov/soltrack/internal/types"
)

const (
	// Native transfers below this are fee/rent noise, not trade legs.
	dustLamports = 1_000_000 // 0.001 SOL

	nativeSymbol  = "SOL"
	unknownAction = "Unknown Swap"
)

var (
	lamportsPerSOL = float64(solana.LAMPORTS_PER_SOL)
	wrappedSOLMint = solana.WrappedSol.String()
)

// stableSymbols is the quote-currency set used for direction inference:
// the native currency plus the major stablecoins. A swap between two
// members of the set has no inferable direction.
var stableSymbols = map[string]bool{
	"SOL":  true,
	"WSOL": true,
	"USDC": true,
	"USDT": true,
}

// SymbolSource resolves mint identifiers to display symbols.
type SymbolSource interface {
	Resolve(ctx context.Context, mints []string) map[string]string
}

// PriceSource supplies the current SOL/USD price, best effort.
type PriceSource interface {
	Current(ctx context.Context) float64
}

// reading is the output of one interpretation strategy: the two trade
// counterparties and the wallet's native delta, all from the same tier.
type reading struct {
	fromSym string
	toSym   string
	delta   float64 // SOL, signed from the wallet's perspective
}

// Interpreter переводит сырые записи индексера в структурированные
// свопы. Стратегии применяются в фиксированном порядке приоритета,
// останавливаясь на первой уверенной.
type Interpreter struct {
	symbols SymbolSource
	price   PriceSource
	logger  *zap.Logger
}

func New(symbols SymbolSource, price PriceSource, logger *zap.Logger) *Interpreter {
	return &Interpreter{
		symbols: symbols,
		price:   price,
		logger:  logger.Named("interpreter"),
	}
}

// InterpretAll интерпретирует батч транзакций, пропуская всё, что не
// похоже на своп, и упавшие на цепочке транзакции.
func (in *Interpreter) InterpretAll(ctx context.Context, txs []types.RawTransaction, wallet string) []types.InterpretedSwap {
	swaps := make([]types.InterpretedSwap, 0, len(txs))
	for _, tx := range txs {
		if tx.Err != nil {
			continue
		}
		if swap := in.Interpret(ctx, tx, wallet); swap != nil {
			swaps = append(swaps, *swap)
		}
	}
	return swaps
}

// Interpret returns nil when the record does not look like a swap at all.
// Otherwise it always produces a best-effort result, degrading to the
// "Unknown Swap" label rather than an error.
func (in *Interpreter) Interpret(ctx context.Context, tx types.RawTransaction, wallet string) *types.InterpretedSwap {
	if !looksLikeSwap(tx) {
		return nil
	}

	syms := in.resolveMints(ctx, tx)

	r, ok := structuredStrategy(tx, wallet, syms)
	if !ok {
		r, ok = longTextStrategy(tx)
	}
	if !ok {
		r, ok = shortTextStrategy(tx)
	}
	if !ok {
		r, ok = transferStrategy(tx, wallet, syms)
	}
	if !ok {
		r = reading{}
	}

	nativeValue := EstimateNativeValue(tx)
	swap := &types.InterpretedSwap{
		Signature:   tx.Signature,
		Timestamp:   tx.Timestamp,
		Direction:   stableDirection(r.fromSym, r.toSym),
		NativeDelta: r.delta,
		Action:      actionLabel(r.fromSym, r.toSym),
		Symbols:     symbolSet(r, syms),
		OrderType:   classify.Classify(tx),
		Source:      tx.Source,
		FeeLamports: tx.Fee,
		NativeValue: nativeValue,
		QuoteValue:  nativeValue * in.price.Current(ctx),
	}
	return swap
}

// resolveMints collects every mint the transaction mentions and resolves
// them in one call. The wrapped-native mint is pinned to SOL locally so
// interpretation never depends on upstream availability for it.
func (in *Interpreter) resolveMints(ctx context.Context, tx types.RawTransaction) map[string]string {
	seen := make(map[string]bool)
	var mints []string
	add := func(mint string) {
		if mint == "" || mint == wrappedSOLMint || seen[mint] {
			return
		}
		seen[mint] = true
		mints = append(mints, mint)
	}

	if ev := tx.Events.Swap; ev != nil {
		for _, leg := range ev.TokenInputs {
			add(leg.Mint)
		}
		for _, leg := range ev.TokenOutputs {
			add(leg.Mint)
		}
	}
	for _, tt := range tx.TokenTransfers {
		add(tt.Mint)
	}

	resolved := in.symbols.Resolve(ctx, mints)
	if resolved == nil {
		resolved = make(map[string]string)
	}
	resolved[wrappedSOLMint] = nativeSymbol
	return resolved
}

func looksLikeSwap(tx types.RawTransaction) bool {
	if tx.Events.Swap != nil {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Description), "swap") {
		return true
	}
	return strings.EqualFold(tx.Type, "SWAP")
}

// structuredStrategy reads the swap-event legs directly. When multi-hop
// routing through wrapped SOL collapses both legs to the native currency,
// the raw token transfers are inspected to recover the real counterparty.
func structuredStrategy(tx types.RawTransaction, wallet string, syms map[string]string) (reading, bool) {
	ev := tx.Events.Swap
	if ev == nil {
		return reading{}, false
	}

	var r reading

	if ev.NativeInput != nil && ev.NativeInput.Lamports() > 0 {
		r.fromSym = nativeSymbol
		r.delta -= float64(ev.NativeInput.Lamports()) / lamportsPerSOL
	} else if len(ev.TokenInputs) > 0 {
		leg := ev.TokenInputs[0]
		r.fromSym = syms[leg.Mint]
		if leg.Mint == wrappedSOLMint {
			r.fromSym = nativeSymbol
			r.delta -= leg.Amount()
		}
	}

	if ev.NativeOutput != nil && ev.NativeOutput.Lamports() > 0 {
		r.toSym = nativeSymbol
		r.delta += float64(ev.NativeOutput.Lamports()) / lamportsPerSOL
	} else if len(ev.TokenOutputs) > 0 {
		leg := ev.TokenOutputs[0]
		r.toSym = syms[leg.Mint]
		if leg.Mint == wrappedSOLMint {
			r.toSym = nativeSymbol
			r.delta += leg.Amount()
		}
	}

	if r.fromSym == "" && r.toSym == "" {
		return reading{}, false
	}

	// Multi-hop artifact: both legs reduced to SOL. The actual counterparty
	// hides in the token transfers.
	if r.fromSym == nativeSymbol && r.toSym == nativeSymbol {
		if mint, received, found := nonNativeCounterparty(tx, wallet); found {
			sym := syms[mint]
			if sym == "" {
				sym = mint
			}
			if received {
				r.toSym = sym // wallet bought the token
			} else {
				r.fromSym = sym // wallet sold the token
			}
		}
	}

	return r, true
}

// nonNativeCounterparty finds the first non-wrapped-SOL token transfer
// touching the wallet and reports whether the wallet received it.
func nonNativeCounterparty(tx types.RawTransaction, wallet string) (mint string, received bool, found bool) {
	for _, tt := range tx.TokenTransfers {
		if tt.Mint == "" || tt.Mint == wrappedSOLMint {
			continue
		}
		if tt.ToUserAccount == wallet {
			return tt.Mint, true, true
		}
		if tt.FromUserAccount == wallet {
			return tt.Mint, false, true
		}
	}
	return "", false, false
}

// Long form: "Swapped 1.5 SOL for 42,000 BONK".
var longSwapRe = regexp.MustCompile(`(?i)swapped\s+([\d.,]+)\s+(\S+)\s+for\s+([\d.,]+)\s+(\S+)`)

func longTextStrategy(tx types.RawTransaction) (reading, bool) {
	m := longSwapRe.FindStringSubmatch(tx.Description)
	if m == nil {
		return reading{}, false
	}

	fromSym := cleanSymbol(m[2])
	toSym := cleanSymbol(m[4])
	if isNumeric(fromSym) || isNumeric(toSym) || fromSym == "" || toSym == "" {
		return reading{}, false
	}

	var delta float64
	if strings.EqualFold(fromSym, nativeSymbol) {
		delta -= parseAmount(m[1])
	}
	if strings.EqualFold(toSym, nativeSymbol) {
		delta += parseAmount(m[3])
	}
	return reading{fromSym: fromSym, toSym: toSym, delta: delta}, true
}

// Short form: "BONK for USDC" somewhere in the description.
var shortSwapRe = regexp.MustCompile(`([A-Za-z0-9$]{2,12})\s+for\s+([A-Za-z0-9$]{2,12})`)

// Non-symbol words the short-form matcher must never accept.
var symbolStoplist = map[string]bool{
	"SWAPPED": true,
	"UNKNOWN": true,
	"TOKEN":   true,
	"FOR":     true,
}

func shortTextStrategy(tx types.RawTransaction) (reading, bool) {
	m := shortSwapRe.FindStringSubmatch(tx.Description)
	if m == nil {
		return reading{}, false
	}

	fromSym := cleanSymbol(m[1])
	toSym := cleanSymbol(m[2])
	if symbolStoplist[strings.ToUpper(fromSym)] || symbolStoplist[strings.ToUpper(toSym)] {
		return reading{}, false
	}
	if isNumeric(fromSym) || isNumeric(toSym) {
		return reading{}, false
	}
	return reading{fromSym: fromSym, toSym: toSym}, true
}

// transferStrategy infers the trade from generic transfers: native out
// plus token in is a buy, token out plus native in is a sell. Anything
// else with transfer activity yields an unknown-direction record.
func transferStrategy(tx types.RawTransaction, wallet string, syms map[string]string) (reading, bool) {
	var sentLamports, recvLamports int64
	for _, nt := range tx.NativeTransfers {
		amount := nt.Amount
		if amount < 0 {
			amount = -amount
		}
		if amount < dustLamports {
			continue
		}
		if nt.FromUserAccount == wallet {
			sentLamports += amount
		}
		if nt.ToUserAccount == wallet {
			recvLamports += amount
		}
	}
	delta := float64(recvLamports-sentLamports) / lamportsPerSOL

	var sentMint, recvMint string
	for _, tt := range tx.TokenTransfers {
		if tt.Mint == "" || tt.Mint == wrappedSOLMint {
			continue
		}
		if tt.FromUserAccount == wallet && sentMint == "" {
			sentMint = tt.Mint
		}
		if tt.ToUserAccount == wallet && recvMint == "" {
			recvMint = tt.Mint
		}
	}

	switch {
	case sentLamports > 0 && recvMint != "":
		return reading{fromSym: nativeSymbol, toSym: symOrMint(syms, recvMint), delta: delta}, true
	case sentMint != "" && recvLamports > 0:
		return reading{fromSym: symOrMint(syms, sentMint), toSym: nativeSymbol, delta: delta}, true
	case sentLamports > 0 || recvLamports > 0 || sentMint != "" || recvMint != "":
		return reading{delta: delta}, true
	}
	return reading{}, false
}

// stableDirection applies the stable/native quote rule: buying means
// paying with the stable set for something outside it, selling is the
// reverse. Stable-to-stable (including SOL wrap/unwrap) stays unknown.
func stableDirection(fromSym, toSym string) types.Direction {
	if fromSym == "" || toSym == "" {
		return types.DirectionUnknown
	}
	fromStable := stableSymbols[strings.ToUpper(fromSym)]
	toStable := stableSymbols[strings.ToUpper(toSym)]
	switch {
	case fromStable && !toStable:
		return types.DirectionBuy
	case !fromStable && toStable:
		return types.DirectionSell
	}
	return types.DirectionUnknown
}

func actionLabel(fromSym, toSym string) string {
	switch {
	case fromSym != "" && toSym != "":
		return fromSym + " -> " + toSym
	case fromSym != "":
		return fromSym + " -> ?"
	case toSym != "":
		return "? -> " + toSym
	}
	return unknownAction
}

// symbolSet is the deduplicated symbol list attached to the swap record,
// used by the presentation layer for client-side filtering.
func symbolSet(r reading, syms map[string]string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(sym string) {
		if sym == "" || sym == "?" || seen[sym] {
			return
		}
		seen[sym] = true
		out = append(out, sym)
	}
	add(r.fromSym)
	add(r.toSym)
	for _, sym := range syms {
		add(sym)
	}
	return out
}

func symOrMint(syms map[string]string, mint string) string {
	if sym := syms[mint]; sym != "" {
		return sym
	}
	return mint
}

func cleanSymbol(s string) string {
	return strings.Trim(s, ".,:;!?()[]\"'")
}

func isNumeric(s string) bool {
	if s == "" {
		return true
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return err == nil
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
