package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ryabkov-dev/tinkoff-mobile-go/internal/statestore"
	"github.com/ryabkov-dev/tinkoff-mobile-go/tinkoff"
)

// newClient builds an API client from config, reusing the device id the saved
// login state was established with (PIN re-auth is device-bound).
func newClient(deviceID string) (*tinkoff.Client, error) {
	client, err := tinkoff.NewClient(tinkoff.Config{
		BaseURL:  viper.GetString("api.base_url"),
		DeviceID: deviceID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// loadState returns the saved login state or a friendly error telling the
// user to log in first.
func loadState(store *statestore.Store) (*statestore.State, error) {
	state, err := store.Load()
	if err != nil {
		if errors.Is(err, statestore.ErrNoState) {
			return nil, fmt.Errorf("not logged in, run 'tbank login' first")
		}
		return nil, err
	}
	return state, nil
}

// archivePath resolves the SQLite archive location: config override first,
// then XDG data dir.
func archivePath() (string, error) {
	if path := viper.GetString("archive.path"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "tbank", "archive.db"), nil
}

func formatMoney(amount tinkoff.MoneyAmount) string {
	return fmt.Sprintf("%.2f %s", amount.Value, amount.Currency)
}
