package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestStdLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewStdLogger(&buf, "info", "json")
	require.NoError(t, err)
	l.now = fixedClock

	l.Log(LevelWarn, "negative balance", map[string]interface{}{"entity": "mill", "tick": 4})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "negative balance", entry["msg"])
	assert.Equal(t, "mill", entry["entity"])
	assert.Equal(t, 4.0, entry["tick"])
	assert.Equal(t, "2024-01-02T03:04:05Z", entry["time"])
}

func TestStdLogger_TextSortsMetadata(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewStdLogger(&buf, "debug", "text")
	require.NoError(t, err)
	l.now = fixedClock

	l.Log("info", "tick", map[string]interface{}{"b": 2, "a": 1})

	assert.Equal(t, "2024-01-02T03:04:05Z INFO  tick a=1 b=2\n", buf.String())
}

func TestStdLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewStdLogger(&buf, "warn", "text")
	require.NoError(t, err)

	l.Log(LevelInfo, "quiet", nil)
	l.Log(LevelDebug, "quieter", nil)

	assert.Empty(t, buf.String())
}

func TestNewStdLogger_RejectsUnknownSettings(t *testing.T) {
	_, err := NewStdLogger(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)
	_, err = NewStdLogger(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestLoggerFromContext(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))

	l, err := NewStdLogger(&bytes.Buffer{}, "info", "text")
	require.NoError(t, err)
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, LoggerFromContext(ctx))
}
