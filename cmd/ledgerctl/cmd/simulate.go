package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/congo-pay/account_ledger/internal/accounts"
	"github.com/congo-pay/account_ledger/internal/bank"
	"github.com/congo-pay/account_ledger/internal/infra"
	"github.com/congo-pay/account_ledger/internal/journal"
	"github.com/congo-pay/account_ledger/internal/logging"
	"github.com/congo-pay/account_ledger/internal/sequence"
)

type simulateOptions struct {
	zone    zoneFlags
	number  string
	balance string
	rate    string
	seed    int64
	at      string
	sqlite  string
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scripted session against an in-process ledger",
		Long: `simulate opens one account and runs a deposit, a withdrawal, a withdrawal
that overdraws and an interest payment, printing each confirmation code.
With --sqlite the confirmations are also journaled to that file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	opts.zone.register(cmd)
	cmd.Flags().StringVar(&opts.number, "account", "A100", "account number")
	cmd.Flags().StringVar(&opts.balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&opts.rate, "rate", bank.DefaultInterestRate.String(), "interest rate in percent")
	cmd.Flags().Int64Var(&opts.seed, "seed", sequence.DefaultSeed, "first sequence id")
	cmd.Flags().StringVar(&opts.at, "at", "", "fixed clock in RFC3339 (default now)")
	cmd.Flags().StringVar(&opts.sqlite, "sqlite", "", "journal confirmations to this SQLite file")
	return cmd
}

func runSimulate(ctx context.Context, out io.Writer, opts simulateOptions) error {
	balance, err := decimal.NewFromString(opts.balance)
	if err != nil {
		return fmt.Errorf("invalid --balance: %w", err)
	}
	rate, err := decimal.NewFromString(opts.rate)
	if err != nil {
		return fmt.Errorf("invalid --rate: %w", err)
	}
	zone, err := opts.zone.offset()
	if err != nil {
		return err
	}
	clock := time.Now
	if opts.at != "" {
		fixed, err := time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		clock = func() time.Time { return fixed }
	}

	j := journal.NewInMemory()
	if opts.sqlite != "" {
		db, err := infra.OpenSQLite(ctx, opts.sqlite)
		if err != nil {
			return err
		}
		defer db.Close()
		if j, err = journal.NewSQLiteJournal(ctx, db); err != nil {
			return err
		}
	}

	seed, err := journal.NextSeed(ctx, j, opts.seed)
	if err != nil {
		return err
	}
	ledger, err := bank.New(bank.Options{
		Sequence:     sequence.NewCounter(seed),
		Clock:        clock,
		InterestRate: &rate,
	})
	if err != nil {
		return err
	}
	svc := accounts.NewService(ledger, accounts.NewMemoryRepository(), j, nil, logging.Discard())

	view, err := svc.Open(ctx, bank.OpenInput{
		Number:    opts.number,
		FirstName: "Simulated",
		LastName:  "Holder",
		TimeZone:  zone,
		Balance:   balance,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "opened %s for %s in %s with balance %s\n", view.Number, view.FullName, view.TimeZone, view.Balance)

	steps := []struct {
		label string
		run   func() (bank.Confirmation, error)
	}{
		{"deposit 100", func() (bank.Confirmation, error) { return svc.Deposit(ctx, view.Number, decimal.NewFromInt(100)) }},
		{"withdraw 30", func() (bank.Confirmation, error) { return svc.Withdraw(ctx, view.Number, decimal.NewFromInt(30)) }},
		{"withdraw 1000000", func() (bank.Confirmation, error) { return svc.Withdraw(ctx, view.Number, decimal.NewFromInt(1000000)) }},
		{"pay interest", func() (bank.Confirmation, error) { return svc.PayInterest(ctx, view.Number) }},
	}
	var first string
	for _, step := range steps {
		conf, err := step.run()
		if err != nil {
			return fmt.Errorf("%s: %w", step.label, err)
		}
		status := "ok"
		if conf.Rejected() {
			status = "rejected"
		}
		if first == "" {
			first = conf.Code
		}
		fmt.Fprintf(out, "%-17s %-8s %s balance=%s\n", step.label, status, conf.Code, conf.Balance)
	}

	decoded, err := svc.DecodeForAccount(ctx, first)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "first code at local time %s\n", decoded.Record.TimeLocal.Format("2006-01-02 15:04:05 -07:00"))
	return nil
}
