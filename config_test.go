package noodles

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/canmom/noodles/strands/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "noodles.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	topo, err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultTopology(), topo)
	assert.Equal(t, 2*time.Second, cfg.StatsPeriod())
	assert.Equal(t, core.Sinusoid{Segments: 64}, cfg.Curve(topo))
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
debug = true

[window]
width = 800

[strands]
variant = "recompute"
curve = "noodle"
grid = [64, 16]
workgroup_size = [8, 8]
palette = ["coral", "teal"]

[camera]
target = [0.0, 1.0, 2.0]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, VariantRecompute, cfg.Strands.Variant)
	assert.Equal(t, []string{"coral", "teal"}, cfg.Strands.Palette)
	assert.Equal(t, mgl32.Vec3{0, 1, 2}, cfg.CameraTarget())

	topo, err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, [3]uint32{8, 2, 1}, topo.Workgroups())

	n, ok := cfg.Curve(topo).(core.Noodle)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 1, 2}, n.Centre)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "[strands]\nspeed = 3\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "[strands\n"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		topo   bool
	}{
		{"grid mismatch", func(c *Config) { c.Strands.Grid = [2]uint32{20, 32} }, true},
		{"two sides", func(c *Config) { c.Strands.Sides = 2 }, true},
		{"window", func(c *Config) { c.Window.Height = 0 }, false},
		{"variant", func(c *Config) { c.Strands.Variant = "sometimes" }, false},
		{"curve", func(c *Config) { c.Strands.Curve = "spiral" }, false},
		{"radius", func(c *Config) { c.Strands.Radius = -1 }, false},
		{"palette", func(c *Config) { c.Strands.Palette = []string{"bluish"} }, false},
		{"stats", func(c *Config) { c.StatsInterval = -1 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := cfg.Validate()
			require.Error(t, err)
			if tc.topo {
				assert.ErrorIs(t, err, core.ErrInvalidTopology)
			} else {
				assert.NotErrorIs(t, err, core.ErrInvalidTopology)
			}
		})
	}
}
