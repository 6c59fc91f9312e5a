package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/cli"
	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/statestore"
	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/storage"
	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts with their balances",
		RunE:  runAccounts,
	}

	cmd.Flags().Bool("save", false, "archive the accounts to the local database")

	return cmd
}

func runAccounts(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

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

	env, err := client.ListAccounts(ctx, state.SessionID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if env.ResultCode != tinkoff.ResultOK || env.Payload == nil {
		return fmt.Errorf("unexpected accounts response: %s", env.ResultCode)
	}
	accounts := *env.Payload

	fmt.Fprintln(out, cli.TitleStyle.Render(fmt.Sprintf("Accounts (%d)", len(accounts))))
	for _, account := range accounts {
		fmt.Fprintf(out, "%s  %s\n",
			cli.AmountStyle.Render(formatMoney(account.MoneyAmount)),
			account.Name)
		fmt.Fprintln(out, cli.SubtleStyle.Render(
			fmt.Sprintf("  id %s · number %s · %s", account.ID, account.ExternalNumber, account.Group)))
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

		if err := archive.SaveAccounts(ctx, accounts); err != nil {
			return fmt.Errorf("failed to archive accounts: %w", err)
		}
		slog.Info("Archived accounts", "count", len(accounts), "db", dbPath)
	}

	return nil
}
