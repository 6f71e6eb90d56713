package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/psidex/convgraph/internal/config"
	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/graphs"
	"github.com/psidex/convgraph/internal/graphs/formats"
	"github.com/psidex/convgraph/internal/tui"
)

type layoutFlags struct {
	steps  int
	width  float64
	height float64
	hover  string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.steps, "steps", "s", 300, "number of frames to simulate before drawing")
	cmd.Flags().Float64VarP(&f.width, "width", "W", 0, "canvas width, defaults to the config")
	cmd.Flags().Float64VarP(&f.height, "height", "H", 0, "canvas height, defaults to the config")
	cmd.Flags().StringVar(&f.hover, "hover", "", "node id to draw as hovered")
}

// simulate runs the layout for the input at path and returns the scene to draw.
func (f *layoutFlags) simulate(cfg *config.Config, path string) (graphs.Scene, error) {
	m, err := readMeeting(path)
	if err != nil {
		return graphs.Scene{}, err
	}

	if f.width > 0 {
		cfg.Canvas.Width = f.width
	}
	if f.height > 0 {
		cfg.Canvas.Height = f.height
	}
	if err := cfg.Validate(); err != nil {
		return graphs.Scene{}, err
	}

	e := engine.New(m.Entities, m.Title, cfg.EngineOptions(nil))
	defer e.Stop()

	for i := 0; i < f.steps; i++ {
		e.Tick()
	}
	if f.hover != "" {
		if err := e.PointerEnter(f.hover); err != nil {
			return graphs.Scene{}, err
		}
	}

	frame := e.Frame()
	if frame.Hovered != f.hover {
		return graphs.Scene{}, fmt.Errorf("no node with id %q", f.hover)
	}
	return graphs.Scene{
		Snapshot:   frame.Snapshot,
		Dimensions: e.Dimensions(),
		Hovered:    frame.Hovered,
	}, nil
}

func summary(path string, scene graphs.Scene) {
	fmt.Printf("%s wrote %s %s\n",
		good.Sprint("✓"),
		path,
		subtle.Sprintf("(%d nodes, %d links, energy %.5f)",
			len(scene.Snapshot.Nodes), len(scene.Snapshot.Links), graph.KineticEnergy(scene.Snapshot)),
	)
}

func renderCmd() *cobra.Command {
	var (
		flags  layoutFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <input.json|->",
		Short: "Simulate the layout and write it to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			r, err := formats.ByName(format)
			if err != nil {
				return err
			}

			scene, err := flags.simulate(cfg, args[0])
			if err != nil {
				return err
			}

			path, err := graphs.RenderToFile(r, scene, output)
			if err != nil {
				return err
			}
			logger.Debug("rendered", "format", format, "path", path)

			summary(path, scene)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: "+strings.Join(formats.Names(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "convgraph", "output file name, without extension")

	return cmd
}

func screenshotCmd() *cobra.Command {
	var (
		flags   layoutFlags
		format  string
		output  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "screenshot <input.json|->",
		Short: "Render the layout as a page and capture it as a PNG with headless Chrome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			r, err := formats.ByName(format)
			if err != nil {
				return err
			}
			if !formats.IsHTML(r) {
				return fmt.Errorf("format %q can't be shown in a browser", format)
			}

			scene, err := flags.simulate(cfg, args[0])
			if err != nil {
				return err
			}

			dir, err := os.MkdirTemp("", "convgraph")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)

			page, err := graphs.RenderToFile(r, scene, filepath.Join(dir, "page"))
			if err != nil {
				return err
			}

			info, err := graphs.Screenshot(cmd.Context(), page, output+".png", scene.Dimensions, timeout)
			if err != nil {
				return err
			}
			logger.Debug("screenshot taken", "title", info.Title, "downloaded_bytes", info.DownloadedBytes, "duration", info.Duration)

			summary(info.Path, scene)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "page format: svg, echarts or vis")
	cmd.Flags().StringVarP(&output, "output", "o", "convgraph", "output file name, without extension")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for the browser")

	return cmd
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui <input.json|->",
		Short: "Draw the live layout in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			m, err := readMeeting(args[0])
			if err != nil {
				return err
			}

			// Logs would draw over the screen.
			p := tea.NewProgram(
				tui.New(m.Entities, m.Title, cfg.EngineOptions(nil)),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
			)
			_, err = p.Run()
			return err
		},
	}
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the output formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range formats.Names() {
				r, _ := formats.ByName(name)
				fmt.Printf("  %-12s %s\n", name, subtle.Sprint("."+r.Extension()))
			}
		},
	}
}
