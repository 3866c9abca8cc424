package devtools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the inspector handler.
type Config struct {
	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Gatherer enables GET /metrics when set.
	Gatherer prometheus.Gatherer

	// CheckOrigin validates WebSocket origins.
	// Default: same-origin requests only (gorilla's default).
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds each WebSocket frame write. Default: 10 seconds.
	WriteTimeout time.Duration
}

// Option configures the inspector handler.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithGatherer exposes the gatherer on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) {
		c.Gatherer = g
	}
}

// WithCheckOrigin sets the WebSocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(c *Config) {
		c.CheckOrigin = fn
	}
}

// WithWriteTimeout sets the WebSocket write timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

// ContainerInfo is one entry of GET /containers.
type ContainerInfo struct {
	Name    string `json:"name"`
	Version uint64 `json:"version"`
	Pending int    `json:"pending"`
}

// StateFrame is the JSON body of GET /containers/{name} and of every
// WebSocket frame.
type StateFrame struct {
	Name    string `json:"name"`
	Version uint64 `json:"version"`
	State   any    `json:"state"`
}

type errorBody struct {
	Error string `json:"error"`
}

type handler struct {
	registry *Registry
	config   Config
	upgrader websocket.Upgrader
}

// NewHandler returns the inspector router.
func NewHandler(registry *Registry, opts ...Option) http.Handler {
	config := Config{WriteTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	h := &handler{
		registry: registry,
		config:   config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/containers", h.list)
	r.Get("/containers/{name}", h.get)
	r.Get("/containers/{name}/watch", h.watch)
	if config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	items := h.registry.List()
	infos := make([]ContainerInfo, 0, len(items))
	for _, c := range items {
		_, version := c.Snapshot()
		infos = append(infos, ContainerInfo{Name: c.Name(), Version: version, Pending: c.Pending()})
	}
	h.writeJSON(w, http.StatusOK, infos)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	state, version := c.Snapshot()
	h.writeJSON(w, http.StatusOK, StateFrame{Name: c.Name(), Version: version, State: state})
}

func (h *handler) watch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.config.Logger.With(
		slog.String("container", c.Name()),
		slog.String("conn", connID),
	)
	logger.Debug("inspector watch opened")
	defer logger.Debug("inspector watch closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain client frames so close messages are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	_ = c.Watch(ctx, func(state any, version uint64) {
		if ctx.Err() != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
		frame := StateFrame{Name: c.Name(), Version: version, State: state}
		if err := conn.WriteJSON(frame); err != nil {
			logger.Debug("inspector write failed", slog.Any("error", err))
			cancel()
		}
	})
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) (Inspectable, bool) {
	name := chi.URLParam(r, "name")
	c, ok := h.registry.Get(name)
	if !ok {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "container not found: " + name})
		return nil, false
	}
	return c, true
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		h.config.Logger.Error("inspector encode failed", slog.Any("error", err))
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorBody{Error: "state is not JSON encodable"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
