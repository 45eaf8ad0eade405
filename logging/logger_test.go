package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/crytic/solflat/logging/colors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddAndRemoveWriter will test to Logger.AddWriter and Logger.RemoveWriter functions to ensure that they work as expected.
func TestAddAndRemoveWriter(t *testing.T) {
	// Create a base logger
	logger := NewLogger(zerolog.InfoLevel)

	// Add three types of writers
	// 1. Unstructured and colorized output to stdout
	logger.AddWriter(os.Stdout, UNSTRUCTURED, true)
	// 2. Unstructured and non-colorized output to stderr
	logger.AddWriter(os.Stderr, UNSTRUCTURED, false)
	// 3. Structured output to stdin
	logger.AddWriter(os.Stdin, STRUCTURED, false)

	// We should expect the underlying data structures are correctly updated
	assert.Equal(t, 1, len(logger.unstructuredWriters))
	assert.Equal(t, 1, len(logger.unstructuredColorWriters))
	assert.Equal(t, 1, len(logger.structuredWriters))

	// Try to add duplicate writers
	logger.AddWriter(os.Stdout, UNSTRUCTURED, true)
	logger.AddWriter(os.Stderr, UNSTRUCTURED, false)
	logger.AddWriter(os.Stdin, STRUCTURED, false)

	// Ensure that the lengths of the lists have not changed
	assert.Equal(t, 1, len(logger.unstructuredWriters))
	assert.Equal(t, 1, len(logger.unstructuredColorWriters))
	assert.Equal(t, 1, len(logger.structuredWriters))

	// Remove each writer
	logger.RemoveWriter(os.Stdout, UNSTRUCTURED, true)
	logger.RemoveWriter(os.Stderr, UNSTRUCTURED, false)
	logger.RemoveWriter(os.Stdin, STRUCTURED, false)

	// We should expect the underlying data structures are correctly updated
	assert.Equal(t, 0, len(logger.unstructuredWriters))
	assert.Equal(t, 0, len(logger.unstructuredColorWriters))
	assert.Equal(t, 0, len(logger.structuredWriters))
}

// TestDisabledColors verifies the behavior of the unstructured colored logger when colors are disabled,
// ensuring that it does not output colors when the color feature is turned off.
func TestDisabledColors(t *testing.T) {
	// Create a base logger
	logger := NewLogger(zerolog.InfoLevel)

	// Add colorized logger
	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, true)

	// We should expect the underlying data structures are correctly updated
	assert.Equal(t, 1, len(logger.unstructuredColorWriters))

	// Disable colors and log msg
	colors.DisableColor()
	defer colors.EnableColor()
	logger.Info("foo")

	// Ensure that msg doesn't include colors afterwards
	assert.Equal(t, fmt.Sprintf("%s %s\n", colors.LEFT_ARROW, "foo"), buf.String())

	// Colored arguments, errors and structured info are emitted without escape codes as well
	buf.Reset()
	logger.Warn("could not resolve ", colors.Bold, "B.sol", colors.Reset, errors.New("missing"))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "could not resolve B.sol")
	assert.Contains(t, buf.String(), "error=missing")
}

// TestEnabledColors ensures a colored writer emits escape codes while colors are enabled, and that the message is
// not wrapped in additional formatting.
func TestEnabledColors(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, true)

	colors.EnableColor()
	logger.Info("plain ", colors.Bold, "bold")
	assert.Equal(t, colors.GreenBold(colors.LEFT_ARROW)+" plain "+colors.Bold("bold")+"\n", buf.String())
}

// TestStructuredSubLogger ensures that a sub-logger attaches its key-value context to structured output, and that
// errors and structured log info are serialized alongside the message.
func TestStructuredSubLogger(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, STRUCTURED, false)

	subLogger := logger.NewSubLogger("module", FLATTENING_SERVICE)
	subLogger.Warn("could not resolve ", colors.Bold, "B.sol", errors.New("missing"), StructuredLogInfo{"line": 3})

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.EqualValues(t, "warn", event["level"])
	assert.EqualValues(t, FLATTENING_SERVICE, event["module"])
	assert.EqualValues(t, "could not resolve B.sol", event["message"])
	assert.EqualValues(t, "missing", event["error"])
	assert.EqualValues(t, map[string]any{"line": float64(3)}, event["info"])
}

// TestLevelFiltering ensures events below the configured level are discarded.
func TestLevelFiltering(t *testing.T) {
	logger := NewLogger(zerolog.WarnLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, false)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(zerolog.InfoLevel)
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

// TestLogBuffer ensures a LogBuffer is expanded into a single message, dropping color context in plain output.
func TestLogBuffer(t *testing.T) {
	buffer := NewLogBuffer()
	buffer.Append("merged ", colors.Bold, 2, colors.Reset, " sources")
	assert.Equal(t, "merged 2 sources", buffer.String())

	logger := NewLogger(zerolog.InfoLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, false)
	logger.Info(buffer)
	assert.Contains(t, buf.String(), "merged 2 sources")
}
