// internal/classify/classifier.go
package classify

import (
	"strings"

	"github.com/rovshanmuradov/soltrack/internal/types"
)

// Program accounts of the known DCA and order-book programs.
var (
	dcaPrograms = map[string]bool{
		"DCA265Vj8a9CEuX1eb1LWRnDT7uK6q1xMipnNyatn23M": true, // Jupiter DCA
	}

	limitPrograms = map[string]bool{
		"jupoNjAxXgZ4rjzxzPMP4oxduvQsQtZzyknqvzYNrNu": true, // Jupiter Limit Order
		"j1o2qRpjcyUwEvwtcfhEQefh773ZgjxcVRry7LDqg5X": true, // Jupiter Limit Order v2
		"PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY": true, // Phoenix
		"opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb": true, // OpenBook v2
	}
)

// Source tags the indexer assigns to order-book style venues.
var limitSources = map[string]bool{
	"JUPITER_LIMIT_ORDER": true,
	"OPENBOOK":            true,
	"PHOENIX":             true,
	"SERUM":               true,
}

// Source tags of AMMs and aggregators, i.e. straight market swaps.
var marketSources = map[string]bool{
	"JUPITER":   true,
	"RAYDIUM":   true,
	"ORCA":      true,
	"METEORA":   true,
	"PUMP_FUN":  true,
	"PUMP_AMM":  true,
	"LIFINITY":  true,
	"ALDRIN":    true,
	"SABER":     true,
	"MOONSHOT":  true,
	"OKX_DEX":   true,
	"BANANAGUN": true,
}

// Classify maps a transaction's originating program metadata to the order
// taxonomy. Total and deterministic: first matching rule wins, every input
// gets exactly one of the four tags.
func Classify(tx types.RawTransaction) types.OrderType {
	source := strings.ToUpper(strings.TrimSpace(tx.Source))
	desc := strings.ToLower(tx.Description)

	var programName, programAccount string
	if tx.Events.Swap != nil && tx.Events.Swap.ProgramInfo != nil {
		programName = strings.ToLower(tx.Events.Swap.ProgramInfo.ProgramName)
		programAccount = tx.Events.Swap.ProgramInfo.Account
	}

	if strings.Contains(source, "DCA") ||
		strings.Contains(desc, "dca") ||
		strings.Contains(programName, "dca") ||
		dcaPrograms[programAccount] {
		return types.OrderDCA
	}

	if limitSources[source] ||
		limitPrograms[programAccount] ||
		strings.Contains(desc, "limit") ||
		strings.Contains(programName, "limit") {
		return types.OrderLimit
	}

	if marketSources[source] || isSwapType(tx.Type) {
		return types.OrderMarket
	}

	return types.OrderUnknown
}

func isSwapType(txType string) bool {
	return strings.EqualFold(txType, "SWAP")
}
