package remote

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/memodom/pkg/driver"
	"github.com/vango-dev/memodom/pkg/vdom"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Root builds the root renderable of a new session.
	Root func() vdom.Renderer

	// ReadTimeout, WriteTimeout bound websocket reads and writes.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ReadBufferSize, WriteBufferSize size the websocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header of upgrade requests. Nil
	// accepts same-origin requests only.
	CheckOrigin func(r *http.Request) bool

	// Registry receives driver metrics and backs /metrics. Nil uses a
	// private registry.
	Registry *prometheus.Registry

	// Namespace prefixes driver metric names (default: "memodom").
	Namespace string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server accepts websocket peers and runs a Session for each.
type Server struct {
	config   ServerConfig
	upgrader websocket.Upgrader
	registry *prometheus.Registry
	metrics  *driver.Metrics
	logger   *slog.Logger

	nextID atomic.Uint64
	active atomic.Int64
}

// NewServer creates a server.
func NewServer(config ServerConfig) *Server {
	if config.Root == nil {
		panic("remote: ServerConfig.Root is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := config.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metricOpts := []driver.MetricsOption{driver.WithRegistry(reg)}
	if config.Namespace != "" {
		metricOpts = append(metricOpts, driver.WithNamespace(config.Namespace))
	}
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		registry: reg,
		metrics:  driver.NewMetrics(metricOpts...),
		logger:   logger.With("component", "server"),
	}
}

// Handler returns the server's routes:
//   - GET /ws → websocket upgrade, one session per connection
//   - GET /metrics → Prometheus metrics
//   - GET /healthz → liveness
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.ServeWS)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %d\n", s.active.Load())
	})
	return r
}

// ServeWS upgrades the request and runs a session until the peer leaves.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	s.active.Add(1)
	defer s.active.Add(-1)

	id := fmt.Sprintf("s%d", s.nextID.Add(1))
	ctx := r.Context()
	sess, err := NewSession(ctx, id, ws, s.config.Root(), SessionConfig{
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		Logger:       s.logger,
	}, driver.WithMetrics(s.metrics))
	if err != nil {
		s.logger.Error("session mount failed", "session_id", id, "error", err)
		ws.Close()
		return
	}

	s.logger.Info("session started", "session_id", id, "remote", r.RemoteAddr)
	sess.ReadLoop(ctx)
}

// ActiveSessions returns the number of connected peers.
func (s *Server) ActiveSessions() int {
	return int(s.active.Load())
}
