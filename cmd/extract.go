package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pickwatch/internal/dedup"
	"github.com/sells-group/pickwatch/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Run the extraction engine over a file or stdin",
	Long:  "Debugging aid: runs the pick extraction engine over saved page text and prints the resulting records as JSON. No state is read or written.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return eris.Wrapf(err, "extract: read %s", args[0])
			}
		} else {
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "extract: read stdin")
			}
		}

		engine := extract.NewEngine(cfg.Extract)
		res := engine.Extract(string(data))
		dedup.Assign(res.Picks, time.Now())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Picks)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
