package api

import (
	"net/http"
	"strings"

	"github.com/gradtrack/gradtrack/internal/store"
)

type applicationRequest struct {
	SchoolName  string `json:"school_name"`
	ProgramName string `json:"program_name"`
	DegreeType  string `json:"degree_type"`
	Deadline    string `json:"deadline"`
	Status      string `json:"status"`
	Decision    string `json:"decision"`
	Notes       string `json:"notes"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if strings.TrimSpace(req.SchoolName) == "" || strings.TrimSpace(req.ProgramName) == "" {
		s.badRequest(w, "school_name and program_name are required")
		return
	}

	app := &store.Application{
		SchoolName:  req.SchoolName,
		ProgramName: req.ProgramName,
		DegreeType:  req.DegreeType,
		Deadline:    req.Deadline,
		Status:      req.Status,
		Decision:    req.Decision,
		Notes:       req.Notes,
	}
	id, err := s.store.CreateApplication(r.Context(), app)
	if err != nil {
		s.writeError(w, err)
		return
	}

	created, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	var (
		apps []store.Application
		err  error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		apps, err = s.store.ApplicationsByStatus(r.Context(), status)
	} else {
		apps, err = s.store.ListApplications(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if apps == nil {
		apps = []store.Application{}
	}
	s.writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.badRequest(w, "invalid application id")
		return
	}
	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.badRequest(w, "invalid application id")
		return
	}
	var fields map[string]any
	if err := decodeBody(r, &fields); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if len(fields) == 0 {
		s.badRequest(w, "no fields to update")
		return
	}

	if err := s.store.UpdateApplication(r.Context(), id, fields); err != nil {
		s.writeError(w, err)
		return
	}
	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.badRequest(w, "invalid application id")
		return
	}
	if err := s.store.DeleteApplication(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.ApplicationStats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}
