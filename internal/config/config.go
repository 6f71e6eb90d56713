// Package config loads convgraph settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/lib"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Canvas     CanvasConfig     `toml:"canvas"`
	Engine     EngineConfig     `toml:"engine"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// SimulationConfig holds the force model constants.
type SimulationConfig struct {
	Gravity     float64 `toml:"gravity" validate:"gte=0"`
	Repulsion   float64 `toml:"repulsion" validate:"gte=0"`
	Attraction  float64 `toml:"attraction" validate:"gte=0"`
	Damping     float64 `toml:"damping" validate:"gte=0,lt=1"`
	MinDistance float64 `toml:"min_distance" validate:"gt=0"`
}

// CanvasConfig is the surface size used until a client reports its own.
type CanvasConfig struct {
	Width  float64 `toml:"width" validate:"gt=0"`
	Height float64 `toml:"height" validate:"gt=0"`
}

type EngineConfig struct {
	FrameInterval    lib.Duration `toml:"frame_interval"`
	SubscriberBuffer int          `toml:"subscriber_buffer" validate:"gte=1"`
}

type ServerConfig struct {
	Address     string `toml:"address" validate:"required,hostname_port"`
	StaticDir   string `toml:"static_dir"`
	GRPCAddress string `toml:"grpc_address" validate:"omitempty,hostname_port"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	p := graph.DefaultParams()
	return &Config{
		Simulation: SimulationConfig{
			Gravity:     p.Gravity,
			Repulsion:   p.Repulsion,
			Attraction:  p.Attraction,
			Damping:     p.Damping,
			MinDistance: p.MinDistance,
		},
		Canvas: CanvasConfig{Width: 400, Height: 320},
		Engine: EngineConfig{
			FrameInterval:    lib.DurationFrom(16 * time.Millisecond),
			SubscriberBuffer: 4,
		},
		Server: ServerConfig{
			Address:     "127.0.0.1:8080",
			StaticDir:   "public",
			GRPCAddress: "127.0.0.1:50051",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file at path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data on top of base, which is modified, and validates the result.
func Parse(data []byte, base *Config) (*Config, error) {
	if err := toml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Engine.FrameInterval.Duration <= 0 {
		return fmt.Errorf("%w: engine.frame_interval must be positive", ErrInvalid)
	}
	return nil
}

func (s SimulationConfig) Params() graph.Params {
	return graph.Params{
		Gravity:     s.Gravity,
		Repulsion:   s.Repulsion,
		Attraction:  s.Attraction,
		Damping:     s.Damping,
		MinDistance: s.MinDistance,
	}
}

func (c CanvasConfig) Dimensions() graph.Dimensions {
	return graph.Dimensions{Width: c.Width, Height: c.Height}
}

// EngineOptions returns the options for a new engine using this config.
func (c *Config) EngineOptions(logger *slog.Logger) engine.Options {
	return engine.Options{
		Params:           c.Simulation.Params(),
		Dimensions:       c.Canvas.Dimensions(),
		FrameInterval:    c.Engine.FrameInterval.Duration,
		SubscriberBuffer: c.Engine.SubscriberBuffer,
		Logger:           logger,
	}
}
