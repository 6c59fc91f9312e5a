package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/cli"
	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/statestore"
	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Show the access level of the saved session",
		RunE:  runPing,
	}
}

func runPing(cmd *cobra.Command, _ []string) error {
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

	env, err := client.Ping(cmd.Context(), state.SessionID)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	if env.ResultCode != tinkoff.ResultOK || env.Payload == nil {
		return fmt.Errorf("unexpected ping response: %s", env.ResultCode)
	}

	info := env.Payload
	fmt.Fprintln(out, cli.SuccessStyle.Render("Session is alive"))
	fmt.Fprintf(out, "Access level: %s\n", info.AccessLevel)
	if info.UserID != "" {
		fmt.Fprintln(out, cli.SubtleStyle.Render("User id: "+info.UserID))
	}
	fmt.Fprintln(out, cli.SubtleStyle.Render(
		fmt.Sprintf("Logged in at %s", state.SavedAt.Local().Format("2006-01-02 15:04"))))

	return nil
}
