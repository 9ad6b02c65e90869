package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snekduel/game"
)

func TestPrettyHandlerWritesIndentedJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatPretty, "debug")
	require.NoError(t, err)

	log.With("match", "m1").WithGroup("tick").Debug("intent",
		"snake", "A",
		"dir", game.Left,
		"err", errors.New("boom"),
		slog.Group("pos", "x", 3, "y", 4),
	)

	assert.Contains(t, buf.String(), "\n  \"level\": \"DEBUG\"")
	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "intent", got["msg"])
	assert.Equal(t, "m1", got["match"])

	tick, ok := got["tick"].(map[string]any)
	require.True(t, ok, "group missing: %v", got)
	assert.Equal(t, "left", tick["dir"])
	assert.Equal(t, "boom", tick["err"])
	assert.Equal(t, map[string]any{"x": float64(3), "y": float64(4)}, tick["pos"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatJSON, "warn")
	require.NoError(t, err)
	log.Info("hidden")
	assert.Zero(t, buf.Len())
	log.Warn("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestNewRejectsUnknownInput(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", "info")
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, FormatText, "loud")
	assert.Error(t, err)

	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}
