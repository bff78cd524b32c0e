package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, l)

	l, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestWriterLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("terrain", &buf, WARN)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)
	l.Error("boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] [terrain] shown 2")
	assert.Contains(t, out, "[ERROR] [terrain] boom")
}

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	Configure(Options{Dir: dir, ConsoleLevel: ERROR, FileLevel: DEBUG})
	t.Cleanup(func() { Configure(Options{Dir: "", ConsoleLevel: INFO, FileLevel: DEBUG}) })

	l, err := NewLogger("storage")
	require.NoError(t, err)
	l.Debug("cache warmed: %d tiles", 3)
	l.Trace("below threshold")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "повторное закрытие безопасно")

	files, err := filepath.Glob(filepath.Join(dir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "cache warmed: 3 tiles")
	assert.NotContains(t, string(data), "below threshold")
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := getDefault()
	SetDefaultLogger(NewWriterLogger("default", &buf, TRACE))
	t.Cleanup(func() { SetDefaultLogger(prev) })

	Trace("t")
	Info("listening on %s", ":8088")
	assert.Contains(t, buf.String(), "[TRACE]")
	assert.Contains(t, buf.String(), "listening on :8088")
}

func TestLoggerManager(t *testing.T) {
	Configure(Options{Dir: "", ConsoleLevel: ERROR, FileLevel: ERROR})
	t.Cleanup(func() { Configure(Options{Dir: "", ConsoleLevel: INFO, FileLevel: DEBUG}) })

	lm := &LoggerManager{loggers: make(map[string]*Logger)}
	a := lm.Logger(ComponentTiles)
	assert.Same(t, a, lm.Logger(ComponentTiles))
	assert.Equal(t, ComponentTiles, a.Component())

	lm.Logger(ComponentAPI)
	assert.Len(t, lm.loggers, 2)

	assert.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.loggers)
	assert.NotSame(t, a, lm.Logger(ComponentTiles), "после CloseAll логгер создаётся заново")
}

func TestComponentLoggers(t *testing.T) {
	assert.Equal(t, ComponentTerrain, GetTerrainLogger().Component())
	assert.Equal(t, ComponentStorage, GetStorageLogger().Component())
	assert.Same(t, GetAPILogger(), GetLoggerManager().Logger(ComponentAPI))
}
