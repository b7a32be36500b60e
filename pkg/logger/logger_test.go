package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture() (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(Options{Output: buf, Level: LevelDebug}), buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry LogEntry
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLogger_JSONOutput(t *testing.T) {
	log, buf := capture()

	log.Info("import completed", SourceFile("week12.csv"), Count(5))

	entry := lastEntry(t, buf)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "import completed", entry.Message)
	assert.Equal(t, "week12.csv", entry.Fields["source_file"])
	assert.Equal(t, float64(5), entry.Fields["count"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Output: buf, Level: LevelWarn})

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	entry := lastEntry(t, buf)
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestLogger_With(t *testing.T) {
	log, buf := capture()

	scoped := log.With(Component("ingest"))
	scoped.Info("row parsed", Row(3))

	entry := lastEntry(t, buf)
	assert.Equal(t, "ingest", entry.Fields["component"])
	assert.Equal(t, float64(3), entry.Fields["row"])

	// Parent logger is unaffected.
	log.Info("plain")
	entry = lastEntry(t, buf)
	assert.NotContains(t, entry.Fields, "component")
}

func TestLogger_ErrField(t *testing.T) {
	log, buf := capture()

	log.Error("save failed", Err(errors.New("disk full")))

	entry := lastEntry(t, buf)
	assert.Equal(t, "disk full", entry.Fields["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}
