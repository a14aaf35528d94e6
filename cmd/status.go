package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/pickwatch/internal/store"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show persisted monitor state and recent picks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		state, err := st.Load(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("known identities: %d\n", len(state.KnownIdentities))
		fmt.Printf("emitted today:    %d\n", len(state.DailyEmitted))
		fmt.Printf("total emitted:    %d\n", state.TotalEmitted)
		fmt.Printf("last check:       %s\n", formatTime(state.LastCheckAt))
		fmt.Printf("last full sweep:  %s\n", formatTime(state.LastFullSweepAt))

		picks, err := st.RecentPicks(ctx, statusLimit)
		if err != nil {
			return err
		}
		if len(picks) > 0 {
			fmt.Println("\nrecent picks:")
			for _, p := range picks {
				fmt.Printf("  %s  %-30s %-24s %s %s\n",
					p.CreatedAt.UTC().Format("2006-01-02 15:04"),
					p.Pairing, p.Selection, p.Price, p.Stake)
			}
		}
		return nil
	},
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "number of recent picks to show")
	rootCmd.AddCommand(statusCmd)
}
