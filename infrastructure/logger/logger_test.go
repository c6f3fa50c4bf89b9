package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-os/infrastructure/logger"
)

func TestGetLogger_AddsCallerFields(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	logger.GetLogger().WithField("handle", "jane").Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "jane", entry["handle"])
	assert.Contains(t, entry["function"], "TestGetLogger_AddsCallerFields")
	assert.Contains(t, entry["file"], "logger_test.go")
}

func TestSetLevel_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)
	defer logger.SetLevel("debug")

	logger.SetLevel("warn")
	logger.GetLogger().Info("dropped")
	assert.Empty(t, buf.String())

	logger.GetLogger().Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
