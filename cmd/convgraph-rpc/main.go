// Command convgraph-rpc serves the layout engine over gRPC.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"

	"google.golang.org/grpc"

	"github.com/psidex/convgraph/internal/config"
	"github.com/psidex/convgraph/internal/lib"
	"github.com/psidex/convgraph/internal/rpc"
)

func main() {
	configPath := flag.String("c", "", "the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// The environment wins over the config file.
	address := cfg.Server.GRPCAddress
	if addr := os.Getenv("CONVGRAPH_RPC_BIND_ADDRESS"); addr != "" {
		address = addr
	}

	logger, err := lib.LoggerFor(os.Stderr, cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}

	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(rpc.LoggingInterceptor(logger)))
	rpc.Register(s, rpc.NewServer(cfg.EngineOptions(logger), logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	logger.Info("starting layout service", "address", address)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
