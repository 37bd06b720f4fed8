package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b-hayes/room-planner-sub000/internal/engine"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, DefaultEditor(), cfg.Editor)
}

func TestLoadEditorFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("EDITOR_SNAP", "10")
	t.Setenv("EDITOR_MAX_SCALE", "3")
	t.Setenv("EDITOR_DEBOUNCE", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 10.0, cfg.Editor.Snap)
	assert.Equal(t, 3.0, cfg.Editor.MaxScale)
	assert.Equal(t, 250*time.Millisecond, cfg.Editor.Debounce)
}

func TestLoadRejectsMalformed(t *testing.T) {
	t.Setenv("EDITOR_MIN_SCALE", "small")
	_, err := Load()
	assert.Error(t, err)
}

func TestEditorOptionsBuildGrid(t *testing.T) {
	e := DefaultEditor()
	e.Snap = 5
	e.MaxScale = 2
	g, err := engine.New(e.Options()...)
	require.NoError(t, err)
	defer g.Close()

	assert.Equal(t, 5.0, g.Snap())
	_, maxScale := g.ScaleLimits()
	assert.Equal(t, 2.0, maxScale)

	e.MinScale = 3
	_, err = engine.New(e.Options()...)
	assert.ErrorIs(t, err, engine.ErrInvalidScaleLimits)
}
