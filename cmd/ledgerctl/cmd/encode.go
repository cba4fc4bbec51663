package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/congo-pay/account_ledger/internal/confirmation"
)

func newEncodeCmd() *cobra.Command {
	var (
		kind    string
		account string
		seq     int64
		at      string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a confirmation code",
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				when = parsed
			}
			code, err := confirmation.Encode(kind, account, when, seq)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", confirmation.KindDeposit, "transaction kind (D, W, X or I)")
	cmd.Flags().StringVar(&account, "account", "", "account number")
	cmd.Flags().Int64Var(&seq, "seq", 0, "sequence id")
	cmd.Flags().StringVar(&at, "at", "", "timestamp in RFC3339 (default now)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("seq")
	return cmd
}
