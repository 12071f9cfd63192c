package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "walleria.log")
	require.NoError(t, Init(path, "debug"))
	t.Cleanup(Close)

	Debug("fetching page", "page", 2)
	WithPrefix("download").Warn("slow")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetching page")
	assert.Contains(t, string(data), "page=2")
	assert.Contains(t, string(data), "download")
}

func TestInit_InvalidLevel(t *testing.T) {
	err := Init(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}

func TestInit_EmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, Init("", "info"))
	// Logging without a sink must not panic.
	Info("discarded")
}

func TestSetOutput_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.WarnLevel)
	t.Cleanup(Close)

	Info("hidden")
	Error("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
