package boxannot

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Viewports, 3)
	assert.False(t, cfg.Viewports[0].RestrictDrag)
	assert.True(t, cfg.Viewports[1].RestrictDrag)
	assert.Equal(t, float32(80), cfg.MouseCorrectionFactor)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "two_views.toml"))
	require.NoError(t, err)

	assert.Equal(t, "two views", cfg.Title)
	assert.Equal(t, 1024, cfg.Width)
	assert.True(t, cfg.Debug)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, cfg.TargetVec())
	require.Len(t, cfg.Viewports, 2)
	assert.Equal(t, "top", cfg.Viewports[1].Name)
	assert.True(t, cfg.Viewports[1].RestrictDrag)

	// Unset keys keep their defaults.
	assert.Equal(t, float32(0.3), cfg.MoveCorrectionFactor)

	vps := cfg.OrbitViewports()
	assert.Equal(t, float32(0.5), vps[1].Rect.Left)
	assert.Equal(t, mgl32.Vec3{1, -3, 3}, vps[0].Eye)
}

func TestLoadConfigKeepsDefaultViewports(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "partial.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Viewports, cfg.Viewports)
	assert.Equal(t, float32(0.5), cfg.OrbitSettings().ElevateStep)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join("testdata", "bad_rect.toml"))
	assert.ErrorIs(t, err, ErrInvalidViewport)

	_, err = LoadConfig(filepath.Join("testdata", "unknown_key.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join("testdata", "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no viewports", func(c *Config) { c.Viewports = nil }, ErrNoViewports},
		{"zero height", func(c *Config) { c.Viewports[0].Height = 0 }, ErrInvalidViewport},
		{"negative left", func(c *Config) { c.Viewports[0].Left = -0.1 }, ErrInvalidViewport},
		{"eye on target", func(c *Config) { c.Viewports[2].Eye = c.Target }, ErrInvalidViewport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	cfg := DefaultConfig()
	cfg.MouseCorrectionFactor = 0
	assert.Error(t, cfg.Validate())
}

func TestConfigLevel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelInfo, cfg.Level())

	cfg.LogLevel = "warn"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, LevelWarn, cfg.Level())

	cfg.Debug = true
	assert.Equal(t, LevelDebug, cfg.Level())

	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
}
