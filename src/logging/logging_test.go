package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type logEntry map[string]any

func TestInfoWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.With("session", "abc").Info("history changed", "cursor", 2)

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "history changed", entry["message"])
	require.Equal(t, "abc", entry["session"])
	require.Equal(t, float64(2), entry["cursor"])
	require.Equal(t, "info", entry["level"])
}

func TestDebugRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug("hidden")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestErrorIncludesError(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log.Error(errors.New("disk full"), "write failed")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "disk full", entry["error"])
	require.Equal(t, "error", entry["level"])
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	require.NotPanics(t, func() {
		log.Info("x")
		log.With("k", "v").Warn(nil, "y")
	})
}
