package rpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/lib"
)

// DefaultSteps is used by Layout when a request doesn't set Steps.
const DefaultSteps = 300

type Server struct {
	logger   *slog.Logger
	opts     engine.Options
	validate *validator.Validate
}

var _ LayoutServer = (*Server)(nil)

// NewServer creates a server whose engines start from opts.
func NewServer(opts engine.Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = lib.Discard()
	}
	opts.Logger = logger
	return &Server{
		logger:   logger,
		opts:     opts,
		validate: validator.New(),
	}
}

// Layout builds the requested graph, simulates it for the requested number of steps and
// returns the final frame.
func (s *Server) Layout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := s.request(in)
	if err != nil {
		return nil, err
	}

	steps := req.Steps
	if steps == 0 {
		steps = DefaultSteps
	}

	e := engine.New(req.Entities, req.Title, s.options(req))
	defer e.Stop()

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		e.Tick()
	}

	out, err := toStruct(response(e.Frame()))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// Watch streams frames of the requested graph as the engine produces them. Frames the
// client is too slow to receive are skipped.
func (s *Server) Watch(in *structpb.Struct, stream grpc.ServerStream) error {
	req, err := s.request(in)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	e := engine.New(req.Entities, req.Title, s.options(req))
	frames, unsubscribe := e.Subscribe()
	defer unsubscribe()

	go func() {
		if err := e.Run(ctx); err != nil {
			s.logger.Warn("engine run failed", "err", err)
		}
	}()
	defer e.Stop()

	sent := 0
	for frame := range frames {
		out, err := toStruct(response(frame))
		if err != nil {
			return status.Errorf(codes.Internal, "encode response: %v", err)
		}
		if err := stream.SendMsg(out); err != nil {
			return err
		}

		sent++
		if req.Frames > 0 && sent >= req.Frames {
			return nil
		}
	}

	if err := stream.Context().Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	return nil
}

func (s *Server) request(in *structpb.Struct) (LayoutRequest, error) {
	req := LayoutRequest{}
	if err := fromStruct(in, &req); err != nil {
		return req, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return req, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return req, nil
}

func (s *Server) options(req LayoutRequest) engine.Options {
	opts := s.opts
	if req.Width > 0 && req.Height > 0 {
		opts.Dimensions = graph.Dimensions{Width: req.Width, Height: req.Height}
	}
	if req.Interval.Duration > 0 {
		opts.FrameInterval = req.Interval.Duration
	}
	return opts
}

func response(f engine.Frame) LayoutResponse {
	return LayoutResponse{Seq: f.Seq, Energy: f.Energy, Snapshot: f.Snapshot}
}

// LoggingInterceptor logs every unary call with its status code.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("rpc", "method", info.FullMethod, "code", status.Code(err), "duration", time.Since(start))
		return resp, err
	}
}
