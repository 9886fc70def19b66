// Package config loads the YAML configuration of the sandbox and builds the
// initial scene from it.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScene    = "default"
	DefaultTickTime = physics.DefaultTickTime
	DefaultTicks    = 365
	DefaultFPS      = 30
	DefaultAddr     = ":8080"
	DefaultTickRate = 30
)

var (
	ErrInvalid      = errors.New("config: invalid configuration")
	ErrUnknownScene = errors.New("config: unknown scene")
)

type Config struct {
	Scene    string           `yaml:"scene"`
	TickTime float64          `yaml:"tick_time"`
	Ticks    int              `yaml:"ticks"`
	Viewport physics.Viewport `yaml:"viewport"`
	Field    bool             `yaml:"field"`
	SavesDir string           `yaml:"saves_dir,omitempty"`
	FPS      int              `yaml:"fps"`
	Server   ServerConfig     `yaml:"server"`
	Bodies   []BodyConfig     `yaml:"bodies,omitempty"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
	// TickRate is how many world ticks per second the server clock runs.
	TickRate int `yaml:"tick_rate"`
}

// BodyConfig places a body relative to the centre of the viewport. Mass is
// in Earth masses, velocity in units per day.
type BodyConfig struct {
	Name string  `yaml:"name"`
	Mass float64 `yaml:"mass"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:    DefaultScene,
		TickTime: DefaultTickTime,
		Ticks:    DefaultTicks,
		Viewport: physics.Viewport{Width: physics.DefaultWidth, Height: physics.DefaultHeight},
		Field:    true,
		FPS:      DefaultFPS,
		Server: ServerConfig{
			Addr:         DefaultAddr,
			AllowOrigins: []string{"*"},
			TickRate:     DefaultTickRate,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.TickTime <= 0:
		return fmt.Errorf("%w: tick_time must be positive, got %g", ErrInvalid, c.TickTime)
	case c.Ticks <= 0:
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalid, c.Ticks)
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return fmt.Errorf("%w: viewport must be positive, got %dx%d", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	for i, b := range c.Bodies {
		if b.Mass <= 0 {
			return fmt.Errorf("%w: body %d mass must be positive", ErrInvalid, i)
		}
	}
	return nil
}

// World builds the initial scene. Explicit bodies win over the named scene.
func (c *Config) World() (*physics.World, error) {
	bodies := c.Bodies
	if len(bodies) == 0 {
		preset := GetPreset(c.Scene)
		if preset == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScene, c.Scene)
		}
		bodies = preset.Bodies
	}

	cx, cy := float64(c.Viewport.Width/2), float64(c.Viewport.Height/2)
	w := physics.NewWorld(c.TickTime)
	for _, bc := range bodies {
		b := physics.NewBody(mgl64.Vec2{cx + bc.X, cy + bc.Y}, bc.Mass, bc.Name)
		b.Vel = mgl64.Vec2{bc.VX, bc.VY}
		w.Add(b)
	}
	w.RendersField = c.Field
	w.Margin = physics.MarginFor(c.Viewport.Width, c.Viewport.Height)
	return w, nil
}
