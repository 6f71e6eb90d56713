// Package webserver serves live conversation graph sessions over websockets.
package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
	"github.com/psidex/convgraph/internal/graphology"
	"github.com/psidex/convgraph/internal/lib"
)

// Server runs one engine per websocket session.
type Server struct {
	logger    *slog.Logger
	staticDir string
	upgrader  websocket.Upgrader
	validate  *validator.Validate

	mu       sync.Mutex
	opts     engine.Options
	sessions map[string]*engine.Engine
}

// New creates a server whose sessions start from opts. Static files are served from
// staticDir if it isn't empty.
func New(opts engine.Options, staticDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = lib.Discard()
	}
	opts.Logger = logger

	return &Server{
		logger:    logger,
		staticDir: staticDir,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		validate: validator.New(),
		opts:     opts,
		sessions: make(map[string]*engine.Engine),
	}
}

// Router returns the HTTP handler for the server.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/ws", s.ServeSession)

	if s.staticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	return router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// SetParams changes the force model for every live session and for sessions started
// later.
func (s *Server) SetParams(p graph.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts.Params = p
	for id, e := range s.sessions {
		if err := e.SetParams(p); err != nil {
			s.logger.Debug("session gone before params update", "session", id, "err", err)
		}
	}
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ServeSession upgrades the request to a websocket and runs a session on it. The client
// must send a SessionConfig first, then any number of Events. The server streams the
// graph back until either side closes the connection.
func (s *Server) ServeSession(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "err", err)
		return
	}

	ws := lib.NewThreadSafeWebSocket(c)
	defer ws.Close()

	id := uuid.NewString()
	logger := s.logger.With("session", id)

	_, msg, err := ws.ReadMessage()
	if err != nil {
		logger.Debug("ws config read failed", "err", err)
		return
	}

	cfg := &SessionConfig{}
	if err := s.decode(msg, cfg); err != nil {
		logger.Info("rejecting session", "err", err)
		_ = ws.WriteJSON(reply{Type: "error", Data: errorData{Message: err.Error()}})
		return
	}

	e := s.start(id, cfg, logger)
	defer s.finish(id, e)

	if err := ws.WriteJSON(reply{Type: "session", Data: sessionData{ID: id}}); err != nil {
		logger.Debug("ws write failed", "err", err)
		return
	}

	frames, unsubscribe := e.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := e.Run(ctx); err != nil {
			logger.Warn("engine run failed", "err", err)
		}
	}()

	go func() {
		// The client closing the connection, or any read error, ends the session.
		defer cancel()
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				logger.Debug("ws read ended", "err", err)
				return
			}
			if err := s.handle(e, msg); err != nil {
				logger.Info("ignoring client event", "err", err)
				_ = ws.WriteJSON(reply{Type: "error", Data: errorData{Message: err.Error()}})
			}
		}
	}()

	stream := graphology.NewStream(ws)
	for frame := range frames {
		if err := stream.Send(frame); err != nil {
			logger.Debug("ws write failed", "err", err)
			return
		}
	}
}

func (s *Server) start(id string, cfg *SessionConfig, logger *slog.Logger) *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := s.opts
	opts.Logger = logger
	if cfg.Width > 0 && cfg.Height > 0 {
		opts.Dimensions = graph.Dimensions{Width: cfg.Width, Height: cfg.Height}
	}

	e := engine.New(cfg.Entities, cfg.Title, opts)
	s.sessions[id] = e
	sessionsActive.Inc()

	logger.Info("session started", "title", cfg.Title, "entities", len(cfg.Entities))
	return e
}

func (s *Server) finish(id string, e *engine.Engine) {
	e.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	sessionsActive.Dec()

	s.logger.Info("session ended", "session", id)
}

func (s *Server) decode(msg []byte, v interface{}) error {
	if err := json.Unmarshal(msg, v); err != nil {
		eventsRejected.Inc()
		return fmt.Errorf("decode message: %w", err)
	}
	if err := s.validate.Struct(v); err != nil {
		eventsRejected.Inc()
		return fmt.Errorf("validate message: %w", err)
	}
	return nil
}

// handle applies one client event to e.
func (s *Server) handle(e *engine.Engine, msg []byte) error {
	ev := Event{}
	if err := s.decode(msg, &ev); err != nil {
		return err
	}
	eventsTotal.WithLabelValues(ev.Type).Inc()

	switch ev.Type {
	case "pointerdown":
		return e.PointerDown(ev.Node)
	case "pointermove":
		return e.PointerMove(ev.X, ev.Y)
	case "pointerup":
		return e.PointerUp()
	case "pointerenter":
		return e.PointerEnter(ev.Node)
	case "pointerleave":
		return e.PointerLeave()
	case "hoverclear":
		return e.HoverClear()
	case "resize":
		return e.Resize(graph.Dimensions{Width: ev.Width, Height: ev.Height})
	case "rebuild":
		return e.Rebuild(ev.Entities, ev.Title)
	}

	return fmt.Errorf("unknown event type %q", ev.Type)
}
