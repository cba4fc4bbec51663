// Package cmd provides the ledgerctl commands.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/congo-pay/account_ledger/internal/tz"
)

// NewRootCmd builds the command tree. Each call returns a fresh tree.
func NewRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Inspect and produce ledger confirmation codes",
		Long: `ledgerctl works with the confirmation codes issued by the account ledger.

Example:
  ledgerctl decode D-A100-20241018235512-100 --tz MST --hours -7
  ledgerctl encode --kind W --account A100 --seq 101
  ledgerctl simulate --balance 200`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newDecodeCmd(), newEncodeCmd(), newSimulateCmd())
	return root
}

// Execute runs the CLI against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

type zoneFlags struct {
	name    string
	hours   int
	minutes int
}

func (z *zoneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&z.name, "tz", "UTC", "time zone name")
	cmd.Flags().IntVar(&z.hours, "hours", 0, "hours offset from UTC")
	cmd.Flags().IntVar(&z.minutes, "minutes", 0, "minutes offset from UTC")
}

func (z *zoneFlags) offset() (tz.FixedOffset, error) {
	return tz.New(z.name, z.hours, z.minutes)
}
