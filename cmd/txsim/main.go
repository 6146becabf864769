// Command txsim is a single-transaction driver for the resource engine:
// it publishes packages, invokes blueprint functions and methods, and
// exports a blueprint's ABI, each run against a ledger rooted at
// --data-dir (or an in-memory ledger with --ephemeral).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexargate/resource-engine/pkg/config"
)

var (
	flagDataDir   string
	flagSnapshot  string
	flagInterval  int
	flagTrace     bool
	flagEphemeral bool
	flagEnv       string
)

func main() {
	root := &cobra.Command{
		Use:   "txsim",
		Short: "drive single transactions against the resource engine",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "config" {
				return nil
			}
			cfg, err := config.Load(flagEnv)
			if err != nil {
				return nil // fall back to flag defaults; a missing config file is not fatal for ad-hoc runs
			}
			if !cmd.Flags().Changed("data-dir") && cfg.Ledger.DataDir != "" {
				flagDataDir = cfg.Ledger.DataDir
			}
			if !cmd.Flags().Changed("snapshot-interval") && cfg.Ledger.SnapshotInterval != 0 {
				flagInterval = cfg.Ledger.SnapshotInterval
			}
			if !cmd.Flags().Changed("trace") && cfg.Runtime.Trace {
				flagTrace = true
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "txsim-data", "directory holding the WAL and snapshot")
	root.PersistentFlags().StringVar(&flagSnapshot, "snapshot", "", "snapshot file path (default: <data-dir>/snapshot.gz)")
	root.PersistentFlags().IntVar(&flagInterval, "snapshot-interval", 0, "WAL records between automatic snapshots (0 disables)")
	root.PersistentFlags().BoolVar(&flagTrace, "trace", false, "mirror the transaction log to stderr as it runs")
	root.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "use an in-memory ledger instead of --data-dir")
	root.PersistentFlags().StringVar(&flagEnv, "env", "", "config environment overlay name (see pkg/config)")

	root.AddCommand(publishCmd())
	root.AddCommand(callFunctionCmd())
	root.AddCommand(callMethodCmd())
	root.AddCommand(exportABICmd())
	root.AddCommand(newAccountCmd())
	root.AddCommand(configCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
