// internal/cli/stats.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [wallet]",
	Short: "Print the summary payload for a wallet and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet := cfg.DefaultWallet
		if len(args) == 1 {
			wallet = args[0]
		}

		svc, err := buildService()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		analysis, err := svc.Analyze(ctx, wallet)
		if err != nil {
			return fmt.Errorf("analyze wallet: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(svc.Summarize(ctx, analysis))
	},
}
