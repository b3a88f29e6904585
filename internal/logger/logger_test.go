package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	logger := New(Options{Level: "warn"})
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestNewFallsBackToInfo(t *testing.T) {
	logger := New(Options{Level: "chatty"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewDebugUsesTextFormatter(t *testing.T) {
	logger := New(Options{Level: "debug"})
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fbdash.log")

	logger := New(Options{Level: "info", File: path})
	logger.WithField("component", "test").Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Options{Level: "info", Output: &buf})
	logger.Info("to buffer")

	assert.Contains(t, buf.String(), `"msg":"to buffer"`)
}
