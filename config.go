package noodles

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/canmom/noodles/strands/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

const (
	VariantPrecompute = "precompute"
	VariantRecompute  = "recompute"

	CurveSinusoid = "sinusoid"
	CurveNoodle   = "noodle"
)

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type StrandsConfig struct {
	// Variant is "precompute" or "recompute".
	Variant string `toml:"variant"`
	// Curve selects the precomputed family, "sinusoid" or "noodle". The
	// recompute variant always animates the noodle family.
	Curve             string    `toml:"curve"`
	Grid              [2]uint32 `toml:"grid"`
	WorkgroupSize     [2]uint32 `toml:"workgroup_size"`
	SegmentsPerStrand uint32    `toml:"segments_per_strand"`
	Sides             uint32    `toml:"sides"`
	Radius            float32   `toml:"radius"`
	// Palette lists SVG colour keywords cycled over the strands.
	Palette []string `toml:"palette"`
}

type CameraConfig struct {
	Target    [3]float32 `toml:"target"`
	TimeScale float32    `toml:"time_scale"`
}

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Strands StrandsConfig `toml:"strands"`
	Camera  CameraConfig  `toml:"camera"`
	Debug   bool          `toml:"debug"`
	// StatsInterval is the period, in seconds, of the frame statistics
	// logged in debug mode. Zero disables them.
	StatsInterval float64 `toml:"stats_interval"`
}

func DefaultConfig() Config {
	t := core.DefaultTopology()
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "noodles",
		},
		Strands: StrandsConfig{
			Variant:           VariantPrecompute,
			Curve:             CurveSinusoid,
			Grid:              t.StrandGrid,
			WorkgroupSize:     t.WorkgroupSize,
			SegmentsPerStrand: t.SegmentsPerStrand,
			Sides:             t.Sides,
			Radius:            0.05,
			Palette:           []string{"white"},
		},
		Camera: CameraConfig{
			Target:    core.DefaultCameraTarget,
			TimeScale: 0.1,
		},
		StatsInterval: 2,
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	d.DisallowUnknownFields()
	if err := d.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Topology is the strand layout described by the config.
func (c Config) Topology() core.Topology {
	return core.Topology{
		StrandGrid:        c.Strands.Grid,
		WorkgroupSize:     c.Strands.WorkgroupSize,
		SegmentsPerStrand: c.Strands.SegmentsPerStrand,
		Sides:             c.Strands.Sides,
	}
}

// Validate checks every field and returns the validated topology.
func (c Config) Validate() (core.Topology, error) {
	t := c.Topology()
	if err := t.Validate(); err != nil {
		return t, err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return t, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch strings.ToLower(c.Strands.Variant) {
	case VariantPrecompute, VariantRecompute:
	default:
		return t, fmt.Errorf("unknown variant %q", c.Strands.Variant)
	}
	switch strings.ToLower(c.Strands.Curve) {
	case CurveSinusoid, CurveNoodle:
	default:
		return t, fmt.Errorf("unknown curve %q", c.Strands.Curve)
	}
	if c.Strands.Radius <= 0 {
		return t, fmt.Errorf("radius must be positive, got %v", c.Strands.Radius)
	}
	if _, err := core.ParsePalette(c.Strands.Palette); err != nil {
		return t, err
	}
	if c.StatsInterval < 0 {
		return t, fmt.Errorf("stats interval must not be negative, got %v", c.StatsInterval)
	}
	return t, nil
}

// CameraTarget is the orbit centre, also the centre of the noodle field.
func (c Config) CameraTarget() mgl32.Vec3 {
	return mgl32.Vec3(c.Camera.Target)
}

// Curve returns the precomputed curve family for t.
func (c Config) Curve(t core.Topology) core.Curve {
	if strings.ToLower(c.Strands.Curve) == CurveNoodle {
		return c.Noodle(t)
	}
	return core.Sinusoid{Segments: t.SegmentsPerStrand}
}

// Noodle returns the animated family evaluated by the compute shader.
func (c Config) Noodle(t core.Topology) core.Noodle {
	return core.DefaultNoodle(t, c.CameraTarget())
}

// StatsPeriod is StatsInterval as a duration.
func (c Config) StatsPeriod() time.Duration {
	return time.Duration(c.StatsInterval * float64(time.Second))
}
