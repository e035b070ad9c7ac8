// internal/interpret/value.go
package interpret

import (
	"github.com/rovshanmuradov/soltrack/internal/types"
)

// EstimateNativeValue estimates the SOL size of a transaction. Preference
// order: structured swap-event native legs (larger magnitude), wrapped-SOL
// token legs, then the largest non-dust native transfer touching the
// transaction. Returns 0 when nothing qualifies.
func EstimateNativeValue(tx types.RawTransaction) float64 {
	if ev := tx.Events.Swap; ev != nil {
		var in, out int64
		if ev.NativeInput != nil {
			in = abs64(ev.NativeInput.Lamports())
		}
		if ev.NativeOutput != nil {
			out = abs64(ev.NativeOutput.Lamports())
		}
		if m := max64(in, out); m > 0 {
			return float64(m) / lamportsPerSOL
		}

		var wsol float64
		for _, leg := range ev.TokenInputs {
			if leg.Mint == wrappedSOLMint && leg.Amount() > wsol {
				wsol = leg.Amount()
			}
		}
		for _, leg := range ev.TokenOutputs {
			if leg.Mint == wrappedSOLMint && leg.Amount() > wsol {
				wsol = leg.Amount()
			}
		}
		if wsol > 0 {
			return wsol
		}
	}

	var largest int64
	for _, nt := range tx.NativeTransfers {
		amount := abs64(nt.Amount)
		if amount >= dustLamports && amount > largest {
			largest = amount
		}
	}
	return float64(largest) / lamportsPerSOL
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
