package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response       string            `json:"response"`
	ToolsUsed      []string          `json:"tools_used"`
	ReasoningSteps []agentTraceEntry `json:"reasoning_steps"`
	SessionID      string            `json:"session_id"`
}

type agentTraceEntry struct {
	Step      string `json:"step"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.badRequest(w, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	sess := s.sessions.GetOrCreate(req.SessionID)
	result, err := s.agent.Process(r.Context(), req.Message, sess)
	if err != nil {
		s.writeError(w, err)
		return
	}

	steps := make([]agentTraceEntry, 0, len(result.Trace))
	for _, ts := range result.Trace {
		steps = append(steps, agentTraceEntry{
			Step:      ts.Step,
			Message:   ts.Message,
			Timestamp: ts.Timestamp.Format("2006-01-02T15:04:05.000"),
		})
	}

	s.writeJSON(w, http.StatusOK, chatResponse{
		Response:       result.Response,
		ToolsUsed:      result.ToolsUsed,
		ReasoningSteps: steps,
		SessionID:      req.SessionID,
	})
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	if sess := s.sessions.Get(req.SessionID); sess != nil {
		sess.Clear()
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":     "reset",
		"session_id": req.SessionID,
	})
}
