package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/lib"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, graph.DefaultParams(), cfg.Simulation.Params())
	assert.Equal(t, graph.Dimensions{Width: 400, Height: 320}, cfg.Canvas.Dimensions())
	assert.Equal(t, 16*time.Millisecond, cfg.Engine.FrameInterval.Duration)
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Engine.FrameInterval = lib.DurationFrom(time.Second)

	opts := cfg.EngineOptions(nil)
	assert.Equal(t, graph.DefaultParams(), opts.Params)
	assert.Equal(t, graph.Dimensions{Width: 400, Height: 320}, opts.Dimensions)
	assert.Equal(t, time.Second, opts.FrameInterval)
	assert.Equal(t, 4, opts.SubscriberBuffer)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convgraph.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[simulation]
repulsion = 800
damping = 0.7

[canvas]
width = 640
height = 480

[engine]
frame_interval = "33ms"

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800.0, cfg.Simulation.Repulsion)
	assert.Equal(t, 0.7, cfg.Simulation.Damping)
	// Unset keys keep their defaults.
	assert.Equal(t, 0.001, cfg.Simulation.Gravity)
	assert.Equal(t, 640.0, cfg.Canvas.Width)
	assert.Equal(t, 33*time.Millisecond, cfg.Engine.FrameInterval.Duration)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Parse([]byte(`[simulation`), Default())
	assert.Error(t, err)

	_, err = Parse([]byte("[engine]\nframe_interval = \"never\""), Default())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"damping of one never settles", func(c *Config) { c.Simulation.Damping = 1 }},
		{"negative repulsion", func(c *Config) { c.Simulation.Repulsion = -1 }},
		{"zero min distance", func(c *Config) { c.Simulation.MinDistance = 0 }},
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }},
		{"zero frame interval", func(c *Config) { c.Engine.FrameInterval = lib.DurationFrom(0) }},
		{"no subscriber buffer", func(c *Config) { c.Engine.SubscriberBuffer = 0 }},
		{"bad address", func(c *Config) { c.Server.Address = "not an address" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestWatch_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convgraph.toml")
	require.NoError(t, os.WriteFile(path, []byte("[simulation]\nrepulsion = 500\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, lib.Discard(), func(c *Config) { changes <- c })
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[simulation]\nrepulsion = 900\n"), 0o644))

	select {
	case cfg := <-changes:
		assert.Equal(t, 900.0, cfg.Simulation.Repulsion)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
}
