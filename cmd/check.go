package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/pickwatch/internal/extract"
	"github.com/sells-group/pickwatch/internal/fetch"
	"github.com/sells-group/pickwatch/internal/model"
	"github.com/sells-group/pickwatch/internal/monitor"
	"github.com/sells-group/pickwatch/internal/notify"
	"github.com/sells-group/pickwatch/internal/store"
)

var checkFullSweep bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one monitoring pass",
	Long: "Fetches the configured expert pages, extracts picks, and notifies about new ones. " +
		"With --full-sweep, every currently pending pick is emitted regardless of history " +
		"and the daily tracker is reset; the scheduler typically runs one sweep per day " +
		"and incremental checks in between.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fetcher, err := fetch.NewHTTP(cfg.Fetch, cfg.Source)
		if err != nil {
			return err
		}

		var notifier notify.Notifier = notify.Noop{}
		if cfg.Discord.WebhookURL != "" {
			notifier = notify.NewDiscord(cfg.Discord)
		}

		mode := model.ModeIncremental
		if checkFullSweep {
			mode = model.ModeFullSweep
		}

		engine := extract.NewEngine(cfg.Extract)
		mon := monitor.New(cfg, engine, fetcher, st, notifier)
		report, err := mon.Run(ctx, mode)
		if err != nil {
			return err
		}

		fmt.Printf("mode=%s candidates=%d extracted=%d emitted=%d fetch_fails=%d\n",
			report.Mode, report.Candidates, report.Extracted, report.Emitted, report.FetchFails)
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkFullSweep, "full-sweep", false,
		"emit all pending picks regardless of history and reset the daily tracker")
	rootCmd.AddCommand(checkCmd)
}
