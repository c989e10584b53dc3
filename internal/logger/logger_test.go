package logger

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesAndRecalls(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, false))

	Infof("session %s started", "s-1")
	Warnf("worker slow")
	Debugf("hidden in non-debug mode")

	Close()

	recent := Recent()
	messages := make([]string, len(recent))
	for i, e := range recent {
		messages[i] = e.Message
	}
	assert.Contains(t, messages, "session s-1 started")
	assert.Contains(t, messages, "worker slow")
	assert.NotContains(t, messages, "hidden in non-debug mode")

	data, err := os.ReadFile(FilePath())
	require.NoError(t, err)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry Entry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry.Message == "session s-1 started" {
			found = true
			assert.Equal(t, LevelInfo, entry.Level)
		}
	}
	assert.True(t, found, "entry not flushed to file")
}

func TestLogger_DebugModeEmitsDebug(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, true))
	defer Close()

	Debugf("visible now")

	recent := Recent()
	require.NotEmpty(t, recent)
	assert.Equal(t, "visible now", recent[len(recent)-1].Message)
}
