package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gradtrack/gradtrack/internal/store"
)

type taskRequest struct {
	ApplicationID *int64 `json:"application_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DueDate       string `json:"due_date"`
	Priority      string `json:"priority"`
	Category      string `json:"category"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.badRequest(w, "title is required")
		return
	}

	task := &store.Task{
		ApplicationID: req.ApplicationID,
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		Priority:      req.Priority,
		Category:      req.Category,
	}
	id, err := s.store.CreateTask(r.Context(), task)
	if err != nil {
		s.writeError(w, err)
		return
	}

	created, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []store.Task
		err   error
	)
	q := r.URL.Query()
	switch {
	case q.Get("application_id") != "":
		var appID int64
		appID, err = strconv.ParseInt(q.Get("application_id"), 10, 64)
		if err != nil {
			s.badRequest(w, "invalid application_id")
			return
		}
		tasks, err = s.store.TasksByApplication(r.Context(), appID)
	case q.Get("status") != "":
		tasks, err = s.store.TasksByStatus(r.Context(), q.Get("status"))
	default:
		tasks, err = s.store.ListTasks(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleUpcomingTasks(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.badRequest(w, "invalid days")
			return
		}
		days = n
	}
	tasks, err := s.store.UpcomingTasks(r.Context(), days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleOverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.OverdueTasks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.badRequest(w, "invalid task id")
		return
	}
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.badRequest(w, "invalid task id")
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

	if err := s.store.UpdateTask(r.Context(), id, fields); err != nil {
		s.writeError(w, err)
		return
	}
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.badRequest(w, "invalid task id")
		return
	}
	if err := s.store.CompleteTask(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.badRequest(w, "invalid task id")
		return
	}
	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.TaskStats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}
