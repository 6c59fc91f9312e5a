package cli

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Prompt(t *testing.T) {
	var out bytes.Buffer
	reader := NewReader(strings.NewReader("  +79991112233\n"), &out)

	got, err := reader.Prompt(context.Background(), "Enter phone number:")
	require.NoError(t, err)

	assert.Equal(t, "+79991112233", got)
	assert.Contains(t, out.String(), "Enter phone number:")
}

func TestReader_PromptCancelled(t *testing.T) {
	var out bytes.Buffer
	// A reader that never delivers a line.
	blocked, _ := net.Pipe()
	reader := NewReader(blocked, &out)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := reader.Prompt(ctx, "Enter the code from sms:")
	assert.ErrorIs(t, err, ErrInputCancelled)
}
