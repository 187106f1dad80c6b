package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/aerosim/internal/logging"
	"github.com/aretw0/aerosim/internal/presentation/graph"
	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/aretw0/aerosim/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource holding the Mermaid diagram of the active table.
const GraphURI = "aerosim://graph"

// SessionResponse aligns with the HTTP session view and provides a unified structure across adapters.
type SessionResponse struct {
	Snapshot *domain.Snapshot `json:"snapshot" jsonschema_description:"Current state, last outcome and history of the session"`
	Guidance string           `json:"guidance" jsonschema_description:"Symbols accepted from the current state and where they lead"`
	Alphabet []domain.Symbol  `json:"alphabet" jsonschema_description:"Every symbol of the session's alphabet"`
}

// AlphabetResponse declares the alphabet of the active variant.
type AlphabetResponse struct {
	Variant     string              `json:"variant" jsonschema_description:"Alphabet variant name"`
	Symbols     []domain.Symbol     `json:"symbols" jsonschema_description:"Accepted symbols"`
	Transitions []domain.Transition `json:"transitions" jsonschema_description:"Transition table"`
}

// Server wraps a ports.Simulator and exposes it as an MCP Server.
type Server struct {
	sim       ports.Simulator
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sim ports.Simulator, version string, opts ...Option) *Server {
	s := &Server{
		sim:       sim,
		mcpServer: server.NewMCPServer("aerosim-mcp", strings.TrimSpace(version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: apply_symbol
	applyTool := mcp.NewTool("apply_symbol",
		mcp.WithDescription("Feed one symbol to the aircraft automaton of a session. A rejected symbol is reported in last_outcome, not as an error."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID; the session starts ON_GROUND if it does not exist")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Symbol of the session's alphabet, e.g. start_takeoff")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(applyTool, mcp.NewStructuredToolHandler(s.handleApply))

	// TOOL: reset_session
	resetTool := mcp.NewTool("reset_session",
		mcp.WithDescription("Put the session's aircraft back ON_GROUND with a fresh history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: get_session
	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Read the current state, last outcome and history of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGet))

	// TOOL: get_alphabet
	alphabetTool := mcp.NewTool("get_alphabet",
		mcp.WithDescription("Declare the accepted symbols and the transition table."),
		mcp.WithOutputSchema[AlphabetResponse](),
	)
	s.mcpServer.AddTool(alphabetTool, mcp.NewStructuredToolHandler(s.handleAlphabet))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the automaton as a Mermaid diagram, optionally highlighting a session's path."),
		mcp.WithString("session_id", mcp.Description("Session to overlay (optional)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, _ := request.GetArguments()["session_id"].(string)
		diagram, err := s.diagram(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
		}
		return mcp.NewToolResultText(diagram), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	symbol, _ := args["symbol"].(string)
	if sessionID == "" {
		return SessionResponse{}, fmt.Errorf("session_id is required")
	}

	snap, err := s.sim.Apply(ctx, sessionID, symbol)
	if err != nil {
		s.logger.Warn("MCP Apply: failed", "session_id", sessionID, "err", err)
		return SessionResponse{}, fmt.Errorf("apply failed: %w", err)
	}
	return s.respond(snap)
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return SessionResponse{}, fmt.Errorf("session_id is required")
	}

	snap, err := s.sim.Reset(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return s.respond(snap)
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return SessionResponse{}, fmt.Errorf("session_id is required")
	}

	snap, err := s.sim.View(ctx, sessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("view failed: %w", err)
	}
	return s.respond(snap)
}

func (s *Server) handleAlphabet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (AlphabetResponse, error) {
	table := s.sim.Table()
	return AlphabetResponse{
		Variant:     table.Variant(),
		Symbols:     table.Alphabet(),
		Transitions: table.Transitions(),
	}, nil
}

func (s *Server) respond(snap *domain.Snapshot) (SessionResponse, error) {
	table, err := s.sim.LoadTable(snap.Variant)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{
		Snapshot: snap,
		Guidance: table.Guidance(snap.Current),
		Alphabet: table.Alphabet(),
	}, nil
}

func (s *Server) diagram(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return graph.GenerateMermaid(s.sim.Table(), nil), nil
	}
	snap, err := s.sim.View(ctx, sessionID)
	if err != nil {
		return "", err
	}
	table, err := s.sim.LoadTable(snap.Variant)
	if err != nil {
		return "", err
	}
	return graph.GenerateMermaid(table, graph.OverlayFromSnapshot(snap)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: aerosim://graph
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Aircraft Automaton",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		diagram, err := s.diagram(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to render graph: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/vnd.mermaid",
				Text:     diagram,
			},
		}, nil
	})
}
