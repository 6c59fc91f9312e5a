package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/cli"
	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/statestore"
	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/storage"
	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"
)

func operationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List operations for an account",
		Long: `List the operations of one account over a date range. The account argument
is the internal account id shown by 'tbank accounts', not the external number.`,
		RunE: runOperations,
	}

	cmd.Flags().StringP("account", "a", "", "account id (required)")
	cmd.Flags().IntP("days", "d", 30, "number of days to fetch, ending now")
	cmd.Flags().Bool("save", false, "archive the operations to the local database")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runOperations(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	accountID, _ := cmd.Flags().GetString("account")
	days, _ := cmd.Flags().GetInt("days")

	store, err := statestore.New()
	if err != nil {
		return err
	}
	state, err := loadState(store)
	if err != nil {
		return err
	}

	client, err := newClient(state.DeviceID)
	if err != nil {
		return err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	env, err := client.ListOperations(ctx, state.SessionID, accountID, start, end)
	if err != nil {
		return fmt.Errorf("failed to list operations: %w", err)
	}
	if env.ResultCode != tinkoff.ResultOK || env.Payload == nil {
		return fmt.Errorf("unexpected operations response: %s", env.ResultCode)
	}
	operations := *env.Payload

	fmt.Fprintln(out, cli.TitleStyle.Render(
		fmt.Sprintf("Operations for account %s, last %d days (%d)", accountID, days, len(operations))))

	for _, op := range operations {
		sign := "-"
		if op.Type == tinkoff.OperationCredit {
			sign = "+"
		}
		fmt.Fprintf(out, "%s  %s%s  %s\n",
			cli.SubtleStyle.Render(op.Time.Local().Format("2006-01-02 15:04")),
			sign,
			cli.AmountStyle.Render(formatMoney(op.Amount)),
			op.Description)

		details := op.SpendingCategory
		if op.Merchant != nil && *op.Merchant != "" {
			details += " · " + *op.Merchant
		}
		fmt.Fprintln(out, cli.SubtleStyle.Render("  "+details))
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		dbPath, err := archivePath()
		if err != nil {
			return err
		}
		archive, err := storage.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = archive.Close() }()

		inserted, err := archive.SaveOperations(ctx, operations)
		if err != nil {
			return fmt.Errorf("failed to archive operations: %w", err)
		}
		total, err := archive.CountOperations(ctx, accountID)
		if err != nil {
			return err
		}
		slog.Info("Archived operations", "new", inserted, "total", total, "db", dbPath)
	}

	return nil
}
