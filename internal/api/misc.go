package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gradtrack/gradtrack/internal/store"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeBody(r, &fields); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if len(fields) == 0 {
		s.badRequest(w, "no fields to update")
		return
	}

	if _, err := s.store.UpsertProfile(r.Context(), fields); err != nil {
		s.writeError(w, err)
		return
	}
	profile, err := s.store.GetProfile(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

type essayRequest struct {
	ApplicationID int64  `json:"application_id"`
	EssayType     string `json:"essay_type"`
	Content       string `json:"content"`
	Feedback      string `json:"feedback"`
}

func (s *Server) handleSaveEssay(w http.ResponseWriter, r *http.Request) {
	var req essayRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if req.ApplicationID == 0 || strings.TrimSpace(req.Content) == "" {
		s.badRequest(w, "application_id and content are required")
		return
	}

	essay, err := s.store.SaveEssay(r.Context(), req.ApplicationID, req.EssayType, req.Content, req.Feedback)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.memory != nil {
		source := fmt.Sprintf("essay:%d:%s", essay.ApplicationID, essay.EssayType)
		if _, err := s.memory.Remember(r.Context(), essay.Content, source, "essay"); err != nil {
			s.log.Warn("essay memory write failed", "error", err)
		}
	}
	s.writeJSON(w, http.StatusCreated, essay)
}

func (s *Server) handleGetEssay(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r, "app_id")
	if err != nil {
		s.badRequest(w, "invalid application id")
		return
	}
	essayType := r.URL.Query().Get("essay_type")
	if essayType == "" {
		essayType = "sop"
	}

	essay, err := s.store.LatestEssay(r.Context(), appID, essayType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, essay)
}

type interviewNoteRequest struct {
	ApplicationID   int64  `json:"application_id"`
	InterviewDate   string `json:"interview_date"`
	InterviewerName string `json:"interviewer_name"`
	Notes           string `json:"notes"`
	QuestionsAsked  string `json:"questions_asked"`
	FollowUpItems   string `json:"follow_up_items"`
}

func (s *Server) handleSaveInterviewNote(w http.ResponseWriter, r *http.Request) {
	var req interviewNoteRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if req.ApplicationID == 0 {
		s.badRequest(w, "application_id is required")
		return
	}
	if _, err := s.store.GetApplication(r.Context(), req.ApplicationID); err != nil {
		s.writeError(w, err)
		return
	}

	id, err := s.store.SaveInterviewNote(r.Context(), &store.InterviewNote{
		ApplicationID:   req.ApplicationID,
		InterviewDate:   req.InterviewDate,
		InterviewerName: req.InterviewerName,
		Notes:           req.Notes,
		QuestionsAsked:  req.QuestionsAsked,
		FollowUpItems:   req.FollowUpItems,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListInterviewNotes(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r, "app_id")
	if err != nil {
		s.badRequest(w, "invalid application id")
		return
	}
	notes, err := s.store.InterviewNotesByApplication(r.Context(), appID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if notes == nil {
		notes = []store.InterviewNote{}
	}
	s.writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleInvokeTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("tool")
	var params map[string]any
	if err := decodeBody(r, &params); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}

	result, err := s.registry.Execute(r.Context(), name, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(result)); err != nil {
		s.log.Warn("write tool result failed", "error", err)
	}
}

func (s *Server) handleMemoryStats(w http.ResponseWriter, r *http.Request) {
	if s.memory == nil {
		s.badRequest(w, "memory is not configured")
		return
	}
	stats, err := s.memory.Stats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

type memoryChunk struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Tags    string  `json:"tags,omitempty"`
	Score   float32 `json:"score"`
}

func (s *Server) handleMemorySearch(w http.ResponseWriter, r *http.Request) {
	if s.memory == nil {
		s.badRequest(w, "memory is not configured")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		s.badRequest(w, "query is required")
		return
	}
	limit := 5
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.badRequest(w, "invalid n")
			return
		}
		limit = n
	}

	chunks, err := s.memory.Recall(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]memoryChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, memoryChunk{
			ID:      c.ID,
			Content: c.Content,
			Source:  c.Source,
			Tags:    c.Tags,
			Score:   c.Score,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": out,
	})
}
