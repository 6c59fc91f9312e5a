// Package statestore persists login state between CLI invocations: the
// session id, the device id it was established with, and the PIN hash
// enrolled for fast re-authentication. The library itself stays stateless;
// only the CLI driver uses this.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoState is returned by Load when no state file exists yet.
var ErrNoState = errors.New("no saved login state")

// State is the saved login state.
type State struct {
	SavedAt   time.Time `json:"saved_at"`
	SessionID string    `json:"session_id"`
	DeviceID  string    `json:"device_id"`
	PinHash   string    `json:"pin_hash,omitempty"`
}

// Store reads and writes the state file.
type Store struct {
	path string
}

// New creates a Store rooted at the default state file path.
func New() (*Store, error) {
	path, err := defaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolve state file path: %w", err)
	}
	return &Store{path: path}, nil
}

// NewAt creates a Store using an explicit file path.
func NewAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved state. Returns ErrNoState when the file is absent.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return &state, nil
}

// Save writes the state, stamping SavedAt.
func (s *Store) Save(state *State) error {
	state.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	// Owner-only: the file holds live credentials.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Clear removes the state file. Removing an absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// Use XDG_DATA_HOME if set, otherwise ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataDir, "tbank", "login_state.json"), nil
}
