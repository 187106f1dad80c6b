package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/aerosim/internal/logging"
	"github.com/aretw0/aerosim/internal/presentation/canvas"
	"github.com/aretw0/aerosim/internal/presentation/graph"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
	"github.com/aretw0/aerosim/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes a ports.Simulator over JSON and SSE.
type Server struct {
	Sim     ports.Simulator
	Streams *StreamManager

	version string
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithMetricsHandler mounts h (typically promhttp) on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// ApplyRequest is the body of POST /sessions/{id}/apply.
type ApplyRequest struct {
	Symbol string `json:"symbol"`
}

// SessionView is what a renderer needs to draw one frame of a session.
type SessionView struct {
	*domain.Snapshot
	Guidance string          `json:"guidance"`
	Alphabet []domain.Symbol `json:"alphabet"`
	Scene    canvas.Scene    `json:"scene"`
}

// AlphabetView is the alphabet declaration of the active variant.
type AlphabetView struct {
	Variant     string              `json:"variant"`
	Symbols     []domain.Symbol     `json:"symbols"`
	Transitions []domain.Transition `json:"transitions"`
}

// NewHandler creates a new HTTP handler for the simulator.
func NewHandler(sim ports.Simulator, opts ...Option) http.Handler {
	server := &Server{
		Sim:     sim,
		version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/alphabet", server.GetAlphabet)
	r.Get("/graph", server.GetGraph)
	r.Get("/events", server.SubscribeEvents)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Get("/{id}", server.GetSession)
		r.Delete("/{id}", server.DeleteSession)
		r.Post("/{id}/apply", server.Apply)
		r.Post("/{id}/reset", server.Reset)
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "aerosim-http",
		"version": strings.TrimSpace(s.version),
		"variant": s.Sim.Table().Variant(),
	})
}

// GetAlphabet handles the GET /alphabet request.
func (s *Server) GetAlphabet(w http.ResponseWriter, r *http.Request) {
	table := s.Sim.Table()
	s.writeJSON(w, http.StatusOK, AlphabetView{
		Variant:     table.Variant(),
		Symbols:     table.Alphabet(),
		Transitions: table.Transitions(),
	})
}

// GetGraph handles the GET /graph request. With ?session_id= the diagram
// highlights the session's path.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	table := s.Sim.Table()
	var overlay *graph.GraphOverlay

	if id := r.URL.Query().Get("session_id"); id != "" {
		snap, err := s.Sim.View(r.Context(), id)
		if err != nil {
			s.fail(w, "GetGraph", err)
			return
		}
		if table, err = s.Sim.LoadTable(snap.Variant); err != nil {
			s.fail(w, "GetGraph", err)
			return
		}
		overlay = graph.OverlayFromSnapshot(snap)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(table, overlay))
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sim.Sessions(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetSession handles the GET /sessions/{id} request, starting the session if needed.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sim.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.respondView(w, snap)
}

// MaxApplyBodySize caps the apply request body. It leaves room for a symbol of
// session.MaxSymbolSize bytes even when every byte is JSON-escaped.
const MaxApplyBodySize = 4 << 10

// Apply handles the POST /sessions/{id}/apply request.
// A rejected symbol is a normal 200 response with success=false.
func (s *Server) Apply(w http.ResponseWriter, r *http.Request) {
	var body ApplyRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxApplyBodySize)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			s.logger.Warn("Apply: Request body too large", "limit", tooLarge.Limit)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Apply: Invalid request body", "err", err)
		return
	}

	snap, err := s.Sim.Apply(r.Context(), chi.URLParam(r, "id"), body.Symbol)
	if err != nil {
		s.fail(w, "Apply", err)
		return
	}
	s.Streams.Publish(snap)
	s.respondView(w, snap)
}

// Reset handles the POST /sessions/{id}/reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sim.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "Reset", err)
		return
	}
	s.Streams.Publish(snap)
	s.respondView(w, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sim.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /events request (SSE).
// ?watch=current,outcome,history restricts which diffs are forwarded.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var watchList []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			watchList = append(watchList, strings.TrimSpace(field))
		}
	}

	snap, err := s.Sim.View(r.Context(), sessionID)
	if err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	ch, cancel := s.Streams.Subscribe(sessionID, snap)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 {
				var diff domain.SnapshotDiff
				if err := json.Unmarshal([]byte(msg), &diff); err == nil && !keep(&diff, watchList) {
					continue
				}
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) respondView(w http.ResponseWriter, snap *domain.Snapshot) {
	table, err := s.Sim.LoadTable(snap.Variant)
	if err != nil {
		s.fail(w, "View", err)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionView{
		Snapshot: snap,
		Guidance: table.Guidance(snap.Current),
		Alphabet: table.Alphabet(),
		Scene:    canvas.Build(table, snap),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrInputTooLarge), errors.Is(err, session.ErrInvalidUTF8):
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn(op+": Input rejected", "err", err)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}
