package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/congo-pay/account_ledger/internal/confirmation"
)

func newDecodeCmd() *cobra.Command {
	var zone zoneFlags
	cmd := &cobra.Command{
		Use:   "decode CODE",
		Short: "Decode a confirmation code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := zone.offset()
			if err != nil {
				return err
			}
			slog.Debug("decoding", "code", args[0], "timezone", offset.String())
			rec, err := confirmation.DecodeIn(args[0], offset)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kind:        %s\n", rec.Kind)
			fmt.Fprintf(out, "account:     %s\n", rec.AccountNumber)
			fmt.Fprintf(out, "sequence id: %d\n", rec.SequenceID)
			fmt.Fprintf(out, "time (UTC):  %s\n", rec.TimeUTC.Format(time.RFC3339))
			fmt.Fprintf(out, "time (%s): %s\n", offset.Name(), rec.TimeLocal.Format(time.RFC3339))
			return nil
		},
	}
	zone.register(cmd)
	return cmd
}
