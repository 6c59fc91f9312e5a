package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/cli"
	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/statestore"
	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"
)

func reloginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relogin",
		Short: "Re-authenticate with the enrolled PIN, skipping phone and password",
		Long: `Request a fresh session and authenticate it with the PIN hash enrolled at
login time plus the previous session id. The fresh session replaces the saved
one on success.`,
		RunE: runRelogin,
	}
}

func runRelogin(cmd *cobra.Command, _ []string) error {
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
	if state.PinHash == "" {
		return fmt.Errorf("no PIN enrolled, run 'tbank login' without --no-pin")
	}

	client, err := newClient(state.DeviceID)
	if err != nil {
		return err
	}

	sessionEnv, err := client.RequestSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to request session: %w", err)
	}
	if sessionEnv.ResultCode != tinkoff.ResultOK || sessionEnv.Payload == nil {
		return fmt.Errorf("unexpected session response: %s", sessionEnv.ResultCode)
	}
	newSessionID := sessionEnv.Payload.ID

	authEnv, err := client.AuthByPin(ctx, newSessionID, state.PinHash, state.SessionID)
	if err != nil {
		return fmt.Errorf("failed to authenticate by PIN: %w", err)
	}
	if authEnv.ResultCode != tinkoff.ResultOK || authEnv.Payload == nil {
		return fmt.Errorf("PIN authentication rejected: %s", authEnv.ResultCode)
	}

	state.SessionID = newSessionID
	if err := store.Save(state); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.SuccessStyle.Render(
		fmt.Sprintf("Re-authenticated (access level %s)", authEnv.Payload.AccessLevel)))

	return nil
}
