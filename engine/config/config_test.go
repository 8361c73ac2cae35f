package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 0.03, cfg.Dialogue.RevealInterval)
	assert.Equal(t, 2, cfg.Scheduler.ReservedCores)
	assert.Equal(t, float32(0.5), cfg.Stage.DefaultScale)
	assert.Equal(t, "System", cfg.Dialogue.Speaker)
	assert.Equal(t, "AEFR", cfg.Dialogue.Affiliation)
	assert.Equal(t, "AEFR v0.7 Ultimate Ready.\nAudio & Animation systems online.", cfg.Dialogue.Greeting)
	assert.Zero(t, cfg.Stage.FadeIn, "characters appear at full opacity unless a fade is configured")
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aefr.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
title = "Classroom"
width = 1920

[assets]
root = "/srv/novel"
hot_reload = true

[fonts]
paths = ["a.ttc", "b.ttf"]
`), 0o644))

	t.Setenv("AEFR_WINDOW_WIDTH", "800")
	t.Setenv("AEFR_SCHEDULER_RESERVED_CORES", "1")
	t.Setenv("AEFR_FONTS_PATHS", "x.ttc,y.ttc")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Classroom", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "/srv/novel", cfg.Assets.Root)
	assert.True(t, cfg.Assets.HotReload)
	assert.Equal(t, 1, cfg.Scheduler.ReservedCores)
	assert.Equal(t, []string{"x.ttc", "y.ttc"}, cfg.Fonts.Paths)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	err := Decode([]byte("[window]\nfullscreen = true\n"), &cfg)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Window.TPS = 0
	cfg.Stage.DefaultScale = -1
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "window.tps")
	assert.Contains(t, err.Error(), "stage.default_scale")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
