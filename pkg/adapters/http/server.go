package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/aretw0/shortcutter"
	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// Runner is the part of runner.Controller the HTTP surface drives.
type Runner interface {
	Start(ctx context.Context) error
	Stop()
	Reload(ctx context.Context) error
	Status() domain.RunnerStatus
	Combos() []domain.Combo
	Trigger(c domain.Combo) bool
}

// Server serves the control and status API of a runner.
type Server struct {
	Runner  Runner
	Streams *StreamManager

	logger  *slog.Logger
	metrics http.Handler
	limiter *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts handler on GET /metrics.
func WithMetrics(handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
	}
}

// WithTriggerLimit caps POST /trigger to rps requests per second with the
// given burst. Excess requests get 429.
func WithTriggerLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithStreams shares a StreamManager, typically one whose Hooks and Indicator
// were handed to the runner.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewServer creates a Server for runner.
func NewServer(runner Runner, opts ...Option) *Server {
	s := &Server{
		Runner:  runner,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/status", s.GetStatus)
	r.Post("/start", s.PostStart)
	r.Post("/stop", s.PostStop)
	r.Post("/reload", s.PostReload)
	r.Post("/trigger/{combo}", s.PostTrigger)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status domain.RunnerStatus `json:"status"`
	Combos []domain.Combo      `json:"combos"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "shortcutter",
		"version": strings.TrimSpace(shortcutter.Version),
	})
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	combos := s.Runner.Combos()
	if combos == nil {
		combos = []domain.Combo{}
	}
	s.writeJSON(w, http.StatusOK, StatusResponse{Status: s.Runner.Status(), Combos: combos})
}

// PostStart handles the POST /start request.
func (s *Server) PostStart(w http.ResponseWriter, r *http.Request) {
	if err := s.Runner.Start(r.Context()); err != nil {
		s.logger.Error("Start failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.GetStatus(w, r)
}

// PostStop handles the POST /stop request.
func (s *Server) PostStop(w http.ResponseWriter, r *http.Request) {
	s.Runner.Stop()
	s.GetStatus(w, r)
}

// PostReload handles the POST /reload request.
func (s *Server) PostReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Runner.Reload(r.Context()); err != nil {
		s.logger.Error("Reload failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.GetStatus(w, r)
}

// PostTrigger handles the POST /trigger/{combo} request.
// 202 when a run started, 404 when nothing is bound, 409 when the macro is
// already running, 429 when throttled.
func (s *Server) PostTrigger(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.writeError(w, http.StatusTooManyRequests, "trigger rate exceeded")
		return
	}

	c := combo.Normalize(chi.URLParam(r, "combo"))
	if s.Runner.Status() != domain.StatusRunning {
		s.writeError(w, http.StatusServiceUnavailable, "runner is stopped")
		return
	}

	bound := false
	for _, b := range s.Runner.Combos() {
		if b == c {
			bound = true
			break
		}
	}
	if !bound {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no macro bound to %q", c))
		return
	}

	if !s.Runner.Trigger(c) {
		s.writeError(w, http.StatusConflict, fmt.Sprintf("macro for %q is already running", c))
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"combo": string(c)})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// StreamManager fans engine events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates a StreamManager with no subscribers.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a subscriber and returns its channel and cancel func.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber, dropping it for slow ones.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

func (sm *StreamManager) broadcastJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("SSE: event encode failed", "error", err)
		return
	}
	sm.Broadcast(string(data))
}

// Hooks returns lifecycle hooks that publish run results and dropped triggers.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			sm.broadcastJSON(e)
		},
		OnRunEnd: func(ctx context.Context, e *domain.EndEvent) {
			sm.broadcastJSON(e)
		},
		OnTriggerDropped: func(ctx context.Context, e *domain.RunEvent) {
			sm.broadcastJSON(e)
		},
	}
}

// StatusEvent is published on every runner status change.
type StatusEvent struct {
	domain.EventBase
	Status domain.RunnerStatus `json:"status"`
}

// Indicator returns a status indicator publishing StatusEvents.
func (sm *StreamManager) Indicator() ports.StatusIndicator {
	return ports.StatusFunc(func(ctx context.Context, status domain.RunnerStatus) {
		sm.broadcastJSON(StatusEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStatus},
			Status:    status,
		})
	})
}
