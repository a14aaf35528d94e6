package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/pickwatch/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all persisted monitor history",
	Long:  "Deletes the known-identity state and the emitted-pick audit. The next incremental check will treat every pick on the page as new.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("state reset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
