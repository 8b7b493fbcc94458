package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/soundnode/internal/api/models"
	"github.com/smazurov/soundnode/internal/events"
	"github.com/smazurov/soundnode/internal/logging"
	"github.com/smazurov/soundnode/internal/version"
	"github.com/smazurov/soundnode/pkg/soundio"
)

// Server exposes the watched device set over HTTP.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	eventBus   *events.Bus
	registry   *soundio.Registry
	logger     *slog.Logger
	unsubs     []func()

	lifecycle sync.Mutex
	listener  net.Listener
	stopped   bool

	mu        sync.RWMutex
	snapshot  *soundio.Snapshot
	backend   soundio.BackendKind
	connected bool
}

// Options configures the API server.
type Options struct {
	EventBus          *events.Bus
	Registry          *soundio.Registry
	PrometheusHandler http.Handler // Optional Prometheus metrics handler
}

// NewServer creates a new API server with Huma v2 using Go 1.22+ native routing
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("SoundNode API", version.String())
	config.Info.Description = "Audio device discovery and hot-plug notifications"
	// Empty servers list will make OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}

	api := humago.New(mux, config)

	server := &Server{
		api:      api,
		mux:      mux,
		eventBus: opts.EventBus,
		registry: opts.Registry,
		logger:   logging.GetLogger("api"),
	}
	server.httpServer = &http.Server{Handler: mux}

	api.UseMiddleware(HTTPLoggingMiddleware)

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	if server.eventBus != nil {
		server.unsubs = append(server.unsubs,
			server.eventBus.Subscribe(server.onDevicesChanged),
			server.eventBus.Subscribe(server.onBackendDisconnected),
		)
	}

	server.registerRoutes()
	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

func (s *Server) onDevicesChanged(e events.DevicesChangedEvent) {
	if e.Snapshot == nil {
		return
	}
	s.mu.Lock()
	s.snapshot = e.Snapshot
	s.backend = e.Backend
	s.connected = true
	s.mu.Unlock()
}

func (s *Server) onBackendDisconnected(e events.BackendDisconnectedEvent) {
	s.mu.Lock()
	s.backend = e.Backend
	s.connected = false
	s.mu.Unlock()
}

// current returns the latest snapshot and whether its backend is still
// connected.
func (s *Server) current() (*soundio.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.connected
}

// Listen binds addr. It fails with http.ErrServerClosed once Stop has run.
func (s *Server) Listen(addr string) (net.Addr, error) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.stopped {
		return nil, http.ErrServerClosed
	}
	if s.listener != nil {
		return nil, errors.New("api server already listening")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.listener = ln

	s.logger.Info("Starting SoundNode API server", "addr", ln.Addr().String())
	s.logger.Info("OpenAPI documentation available", "url", "http://"+ln.Addr().String()+"/docs")
	return ln.Addr(), nil
}

// Serve handles requests on the bound listener until Stop is called.
func (s *Server) Serve() error {
	s.lifecycle.Lock()
	ln := s.listener
	s.lifecycle.Unlock()

	if ln == nil {
		return errors.New("api server is not listening")
	}
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start serves HTTP on addr until Stop is called.
func (s *Server) Start(addr string) error {
	if _, err := s.Listen(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
	return s.Serve()
}

// Stop shuts the server down and detaches it from the event bus. A server
// stopped before Start never serves.
func (s *Server) Stop(ctx context.Context) error {
	s.lifecycle.Lock()
	if s.stopped {
		s.lifecycle.Unlock()
		return nil
	}
	s.stopped = true
	ln := s.listener
	unsubs := s.unsubs
	s.unsubs = nil
	s.lifecycle.Unlock()

	s.logger.Info("Stopping API server")
	for _, unsub := range unsubs {
		unsub()
	}

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		// Open SSE streams keep Shutdown waiting
		err = s.httpServer.Close()
	}
	if ln != nil {
		// Serve may not have taken ownership of the listener yet
		_ = ln.Close()
	}
	return err
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{Body: models.HealthData{Status: "ok", Message: "API is healthy"}}
		if snap, connected := s.current(); snap != nil && !connected {
			resp.Body.Status = "degraded"
			resp.Body.Message = "Backend " + snap.Backend().String() + " disconnected"
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		versionInfo := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   versionInfo.Version,
				GitCommit: versionInfo.GitCommit,
				BuildDate: versionInfo.BuildDate,
				BuildID:   versionInfo.BuildID,
				GoVersion: versionInfo.GoVersion,
				Compiler:  versionInfo.Compiler,
				Platform:  versionInfo.Platform,
			},
		}, nil
	})

	s.registerDeviceRoutes()
	s.registerSSERoutes()
}
