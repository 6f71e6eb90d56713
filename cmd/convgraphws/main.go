// Command convgraphws serves live conversation graphs to browsers over websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/psidex/convgraph/internal/config"
	"github.com/psidex/convgraph/internal/lib"
	"github.com/psidex/convgraph/internal/webserver"
)

func main() {
	configPath := flag.String("c", "", "the TOML config file, reloaded when it changes")
	staticDir := flag.String("d", "", "the directory to serve static files from, overrides the config")
	address := flag.String("b", "", "the ip:port to bind the webserver to, overrides the config")
	logLevel := flag.String("log-level", "", "the log level, overrides the config")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}
	if *address != "" {
		cfg.Server.Address = *address
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger, err := lib.LoggerFor(os.Stderr, cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := webserver.New(cfg.EngineOptions(logger), cfg.Server.StaticDir, logger)

	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, logger, func(c *config.Config) {
				logger.Info("config reloaded, updating sessions", "sessions", srv.Sessions())
				srv.SetParams(c.Simulation.Params())
			})
			if err != nil {
				logger.Error("config watch failed", "err", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", "err", err)
		}
	}()

	logger.Info("listening", "address", cfg.Server.Address, "static", cfg.Server.StaticDir)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
