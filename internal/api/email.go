package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gradtrack/gradtrack/internal/store"
)

type emailCandidate struct {
	SchoolName  string  `json:"school_name"`
	ProgramName string  `json:"program_name"`
	DegreeType  string  `json:"degree_type"`
	Deadline    string  `json:"deadline"`
	Confidence  float64 `json:"confidence"`
}

type importDisposition struct {
	SchoolName  string  `json:"school_name"`
	ProgramName string  `json:"program_name"`
	Confidence  float64 `json:"confidence"`
	Status      string  `json:"status"`
	Reason      string  `json:"reason,omitempty"`
	ID          int64   `json:"id,omitempty"`
}

// handleEmailImport creates applications from pre-structured email-scan
// candidates. Candidates below the confidence threshold are skipped, not
// rejected: the scanner is expected to over-report.
func (s *Server) handleEmailImport(w http.ResponseWriter, r *http.Request) {
	var candidates []emailCandidate
	if err := decodeBody(r, &candidates); err != nil {
		s.badRequest(w, "invalid request body: %v", err)
		return
	}
	if len(candidates) == 0 {
		s.badRequest(w, "no candidates to import")
		return
	}

	imported := 0
	results := make([]importDisposition, 0, len(candidates))
	for _, c := range candidates {
		d := importDisposition{
			SchoolName:  c.SchoolName,
			ProgramName: c.ProgramName,
			Confidence:  c.Confidence,
		}
		switch {
		case strings.TrimSpace(c.SchoolName) == "" || strings.TrimSpace(c.ProgramName) == "":
			d.Status = "rejected"
			d.Reason = "school_name and program_name are required"
		case c.Confidence < s.importConfidence:
			d.Status = "skipped"
			d.Reason = fmt.Sprintf("confidence %.2f below threshold %.2f", c.Confidence, s.importConfidence)
		default:
			id, err := s.store.CreateApplication(r.Context(), &store.Application{
				SchoolName:  c.SchoolName,
				ProgramName: c.ProgramName,
				DegreeType:  c.DegreeType,
				Deadline:    c.Deadline,
			})
			if err != nil {
				d.Status = "failed"
				d.Reason = err.Error()
				s.log.Error("email import failed", "school", c.SchoolName, "error", err)
			} else {
				d.Status = "imported"
				d.ID = id
				imported++
			}
		}
		results = append(results, d)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"imported": imported,
		"total":    len(candidates),
		"results":  results,
	})
}
