// Command convgraph lays out a meeting's conversation graph and renders it to a file, a
// screenshot or the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/psidex/convgraph/internal/config"
	"github.com/psidex/convgraph/internal/lib"
)

var (
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	subtle = color.New(color.FgHiBlack)
	brand  = color.New(color.FgHiMagenta, color.Bold)
)

var (
	configPath string
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		bad.Fprintf(os.Stderr, "convgraph: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convgraph",
		Short: "Lay out and draw a meeting's conversation graph",
		Long: brand.Sprint("convgraph") + " runs a force directed layout over the people, companies and\n" +
			"topics of a meeting and draws the result.\n\n" +
			subtle.Sprint(`Input is JSON: {"title": "...", "entities": [{"id": 1, "name": "...", "type": "person"}]}`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config file")

	cmd.AddCommand(
		renderCmd(),
		screenshotCmd(),
		tuiCmd(),
		formatsCmd(),
	)

	return cmd
}

// setup loads the config and builds the logger every subcommand uses.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := lib.LoggerFor(os.Stderr, cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	return cfg, logger, nil
}
