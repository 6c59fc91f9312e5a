package statestore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewAt(filepath.Join(t.TempDir(), "nested", "login_state.json"))

	err := store.Save(&State{
		SessionID: "session-id-example",
		DeviceID:  "device-id-example",
		PinHash:   "pin-hash-example",
	})
	require.NoError(t, err)

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "session-id-example", loaded.SessionID)
	assert.Equal(t, "device-id-example", loaded.DeviceID)
	assert.Equal(t, "pin-hash-example", loaded.PinHash)
	assert.WithinDuration(t, time.Now(), loaded.SavedAt, time.Minute)
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewAt(filepath.Join(t.TempDir(), "login_state.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoState)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewAt(filepath.Join(t.TempDir(), "login_state.json"))

	require.NoError(t, store.Save(&State{SessionID: "first"}))
	require.NoError(t, store.Save(&State{SessionID: "second"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.SessionID)
	assert.Empty(t, loaded.PinHash)
}

func TestStore_Clear(t *testing.T) {
	store := NewAt(filepath.Join(t.TempDir(), "login_state.json"))

	require.NoError(t, store.Save(&State{SessionID: "sid"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoState)

	// Clearing again is fine.
	assert.NoError(t, store.Clear())
}
