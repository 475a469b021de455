// Package api exposes the HTTP interface: chat, CRUD over applications,
// tasks, profile and essays, direct tool invocation, and memory inspection.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gradtrack/gradtrack/internal/agent"
	"github.com/gradtrack/gradtrack/internal/memory"
	"github.com/gradtrack/gradtrack/internal/session"
	"github.com/gradtrack/gradtrack/internal/store"
	"github.com/gradtrack/gradtrack/internal/tools"
)

// Options configures the Server.
type Options struct {
	Agent            *agent.Agent
	Store            *store.Store
	Memory           *memory.Service
	Registry         *tools.Registry
	Sessions         *session.Manager
	ImportConfidence float64
	Logger           *slog.Logger
}

// Server routes HTTP requests to the agent, the store, and the tools.
type Server struct {
	agent            *agent.Agent
	store            *store.Store
	memory           *memory.Service
	registry         *tools.Registry
	sessions         *session.Manager
	importConfidence float64
	log              *slog.Logger
	mux              *http.ServeMux
	started          time.Time
}

// NewServer creates the server and registers all routes.
func NewServer(opts Options) *Server {
	if opts.Sessions == nil {
		opts.Sessions = session.NewManager()
	}
	if opts.ImportConfidence == 0 {
		opts.ImportConfidence = 0.6
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		agent:            opts.Agent,
		store:            opts.Store,
		memory:           opts.Memory,
		registry:         opts.Registry,
		sessions:         opts.Sessions,
		importConfidence: opts.ImportConfidence,
		log:              opts.Logger,
		mux:              http.NewServeMux(),
		started:          time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("POST /api/chat/reset", s.handleChatReset)

	s.mux.HandleFunc("POST /api/applications", s.handleCreateApplication)
	s.mux.HandleFunc("GET /api/applications", s.handleListApplications)
	s.mux.HandleFunc("GET /api/applications/stats/summary", s.handleApplicationStats)
	s.mux.HandleFunc("GET /api/applications/{id}", s.handleGetApplication)
	s.mux.HandleFunc("PUT /api/applications/{id}", s.handleUpdateApplication)
	s.mux.HandleFunc("DELETE /api/applications/{id}", s.handleDeleteApplication)

	s.mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	s.mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	s.mux.HandleFunc("GET /api/tasks/upcoming", s.handleUpcomingTasks)
	s.mux.HandleFunc("GET /api/tasks/overdue", s.handleOverdueTasks)
	s.mux.HandleFunc("GET /api/tasks/stats/summary", s.handleTaskStats)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	s.mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	s.mux.HandleFunc("PUT /api/tasks/{id}/complete", s.handleCompleteTask)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)

	s.mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	s.mux.HandleFunc("PUT /api/profile", s.handleUpdateProfile)

	s.mux.HandleFunc("POST /api/essays", s.handleSaveEssay)
	s.mux.HandleFunc("GET /api/essays/{app_id}", s.handleGetEssay)

	s.mux.HandleFunc("POST /api/interviews", s.handleSaveInterviewNote)
	s.mux.HandleFunc("GET /api/interviews/{app_id}", s.handleListInterviewNotes)

	s.mux.HandleFunc("POST /api/tools/{tool}", s.handleInvokeTool)
	s.mux.HandleFunc("POST /api/email/import", s.handleEmailImport)

	s.mux.HandleFunc("GET /api/memory/stats", s.handleMemoryStats)
	s.mux.HandleFunc("GET /api/memory/search", s.handleMemorySearch)

	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON encodes v with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response failed", "error", err)
	}
}

// writeError maps errors to HTTP statuses: validation 400, not found 404,
// everything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var te *tools.ToolError
	switch {
	case errors.As(err, &te):
		switch te.Kind {
		case tools.KindInvalidArguments:
			status = http.StatusBadRequest
		case tools.KindNotFound:
			status = http.StatusNotFound
		}
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) badRequest(w http.ResponseWriter, format string, args ...any) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf(format, args...)})
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses the named path segment as an int64.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}
