package boxannot

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/gekko3d/boxannot/geom"
	"github.com/gekko3d/boxannot/orbit"
)

var (
	ErrNoViewports     = errors.New("no viewports configured")
	ErrInvalidViewport = errors.New("invalid viewport")
)

const rectEpsilon = 1e-5

type ViewportConfig struct {
	Name         string     `toml:"name"`
	Left         float32    `toml:"left"`
	Top          float32    `toml:"top"`
	Width        float32    `toml:"width"`
	Height       float32    `toml:"height"`
	Eye          [3]float32 `toml:"eye"`
	RestrictDrag bool       `toml:"restrict_drag"`
}

type Config struct {
	Title    string `toml:"title"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`
	FontPath string `toml:"font_path"`

	MouseCorrectionFactor float32 `toml:"mouse_correction_factor"`
	MoveCorrectionFactor  float32 `toml:"move_correction_factor"`
	ElevateStep           float32 `toml:"elevate_step"`
	MinZoomRadius         float32 `toml:"min_zoom_radius"`
	MaxZoomRadius         float32 `toml:"max_zoom_radius"`

	Target    [3]float32       `toml:"target"`
	Viewports []ViewportConfig `toml:"viewport"`
}

// DefaultConfig is a perspective view on the left with top and side views
// stacked on the right. The top and side views only yaw.
func DefaultConfig() Config {
	s := orbit.DefaultSettings()
	return Config{
		Title:                 "boxannot",
		Width:                 1280,
		Height:                720,
		MouseCorrectionFactor: s.MouseCorrectionFactor,
		MoveCorrectionFactor:  s.MoveCorrectionFactor,
		ElevateStep:           s.ElevateStep,
		MinZoomRadius:         s.MinZoomRadius,
		MaxZoomRadius:         s.MaxZoomRadius,
		Viewports: []ViewportConfig{
			{Name: "perspective", Left: 0, Top: 0, Width: 0.7, Height: 1, Eye: [3]float32{0, -6, 4}},
			// The small y offset keeps the top camera off the vertical pole.
			{Name: "top", Left: 0.7, Top: 0, Width: 0.3, Height: 0.5, Eye: [3]float32{0, -0.01, 20}, RestrictDrag: true},
			{Name: "side", Left: 0.7, Top: 0.5, Width: 0.3, Height: 0.5, Eye: [3]float32{0, -20, 0}, RestrictDrag: true},
		},
	}
}

// LoadConfig reads a TOML file over DefaultConfig. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	// Viewports from the file replace the defaults instead of merging into them.
	cfg.Viewports = nil
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if len(cfg.Viewports) == 0 {
		cfg.Viewports = DefaultConfig().Viewports
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Viewports) == 0 {
		return ErrNoViewports
	}
	for i, vp := range c.Viewports {
		if vp.Width <= 0 || vp.Height <= 0 {
			return fmt.Errorf("%w: viewport %d (%s) has an empty rectangle", ErrInvalidViewport, i, vp.Name)
		}
		if vp.Left < 0 || vp.Top < 0 || vp.Left+vp.Width > 1+rectEpsilon || vp.Top+vp.Height > 1+rectEpsilon {
			return fmt.Errorf("%w: viewport %d (%s) is outside [0,1]", ErrInvalidViewport, i, vp.Name)
		}
		if vp.Eye == c.Target {
			return fmt.Errorf("%w: viewport %d (%s) eye is on the target", ErrInvalidViewport, i, vp.Name)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MouseCorrectionFactor <= 0 {
		return fmt.Errorf("mouse_correction_factor must be positive, got %v", c.MouseCorrectionFactor)
	}
	return nil
}

// Level is the log level the config asks for. Debug overrides LogLevel.
func (c Config) Level() Level {
	if c.Debug {
		return LevelDebug
	}
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return LevelInfo
	}
	return level
}

// OrbitSettings converts the camera tuning into controller settings.
func (c Config) OrbitSettings() orbit.Settings {
	return orbit.Settings{
		MouseCorrectionFactor: c.MouseCorrectionFactor,
		MoveCorrectionFactor:  c.MoveCorrectionFactor,
		ElevateStep:           c.ElevateStep,
		MinZoomRadius:         c.MinZoomRadius,
		MaxZoomRadius:         c.MaxZoomRadius,
	}
}

func (c Config) OrbitViewports() []orbit.Viewport {
	out := make([]orbit.Viewport, len(c.Viewports))
	for i, vp := range c.Viewports {
		out[i] = orbit.Viewport{
			Name:         vp.Name,
			Rect:         geom.Rect{Left: vp.Left, Top: vp.Top, Width: vp.Width, Height: vp.Height},
			Eye:          mgl32.Vec3(vp.Eye),
			RestrictDrag: vp.RestrictDrag,
		}
	}
	return out
}

func (c Config) TargetVec() mgl32.Vec3 {
	return mgl32.Vec3(c.Target)
}
