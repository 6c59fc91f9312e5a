package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/cli"
	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/statestore"
	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Walk the full authentication flow and save the session",
		Long: `Establish a session and escalate it through the phone/SMS and password
factors. On success the session is saved locally and a random PIN hash is
enrolled so 'tbank relogin' can re-authenticate without repeating the flow.`,
		RunE: runLogin,
	}

	cmd.Flags().String("phone", "", "phone number, like +79998887766 (prompted when omitted)")
	cmd.Flags().Bool("no-pin", false, "skip PIN enrollment")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	reader := cli.NewReader(cmd.InOrStdin(), cmd.OutOrStdout())
	out := cmd.OutOrStdout()

	store, err := statestore.New()
	if err != nil {
		return err
	}

	client, err := newClient("")
	if err != nil {
		return err
	}
	slog.Debug("Generated device id", "device_id", client.DeviceID())

	fmt.Fprintln(out, cli.TitleStyle.Render("Requesting session"))
	sessionEnv, err := client.RequestSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to request session: %w", err)
	}
	if sessionEnv.ResultCode != tinkoff.ResultOK || sessionEnv.Payload == nil {
		return fmt.Errorf("unexpected session response: %s", sessionEnv.ResultCode)
	}
	sessionID := sessionEnv.Payload.ID

	phone, _ := cmd.Flags().GetString("phone")
	if phone == "" {
		phone, err = reader.Prompt(ctx, "Enter phone number, like +79998887766:")
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, cli.TitleStyle.Render("Authenticating by phone"))
	phoneEnv, err := client.AuthByPhone(ctx, sessionID, phone)
	if err != nil {
		return fmt.Errorf("failed to start phone auth: %w", err)
	}
	if phoneEnv.ResultCode != tinkoff.ResultWaitingConfirmation {
		return fmt.Errorf("expected an SMS confirmation request, got %s", phoneEnv.ResultCode)
	}
	slog.Debug("Phone auth pending confirmation",
		"confirmations", phoneEnv.Confirmations,
		"initial_operation", phoneEnv.InitialOperation)

	smsCode, err := reader.Prompt(ctx, "Enter the code from sms:")
	if err != nil {
		return err
	}

	confirmEnv, err := client.ConfirmAuthByPhone(ctx, sessionID, phoneEnv.OperationTicket, smsCode)
	if err != nil {
		return fmt.Errorf("failed to confirm phone auth: %w", err)
	}
	if confirmEnv.ResultCode != tinkoff.ResultOK {
		return fmt.Errorf("SMS confirmation rejected: %s", confirmEnv.ResultCode)
	}

	password, err := reader.Prompt(ctx, "Enter your password:")
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.TitleStyle.Render("Authenticating by password"))
	passwordEnv, err := client.AuthByPassword(ctx, sessionID, password)
	if err != nil {
		return fmt.Errorf("failed to authenticate by password: %w", err)
	}
	if passwordEnv.ResultCode != tinkoff.ResultOK || passwordEnv.Payload == nil {
		return fmt.Errorf("password rejected: %s", passwordEnv.ResultCode)
	}

	state := &statestore.State{
		SessionID: sessionID,
		DeviceID:  client.DeviceID(),
	}

	if noPin, _ := cmd.Flags().GetBool("no-pin"); !noPin {
		// The backend treats the hash as opaque, a random UUID works as well
		// as anything derived from a real PIN.
		pinHash := uuid.New().String()
		pinEnv, err := client.SetAuthPin(ctx, sessionID, pinHash)
		if err != nil {
			return fmt.Errorf("failed to enroll PIN: %w", err)
		}
		if pinEnv.ResultCode != tinkoff.ResultOK {
			return fmt.Errorf("PIN enrollment rejected: %s", pinEnv.ResultCode)
		}
		state.PinHash = pinHash
	}

	if err := store.Save(state); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.SuccessStyle.Render(
		fmt.Sprintf("Logged in as %s (access level %s)",
			passwordEnv.Payload.UserID, passwordEnv.Payload.AccessLevel)))
	fmt.Fprintln(out, cli.SubtleStyle.Render("Session saved to "+store.Path()))

	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := statestore.New()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render("Saved session removed"))
			return nil
		},
	}
}
