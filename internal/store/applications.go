package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Application is one tracked graduate-school application.
// Status tracks board position, decision tracks the admission outcome;
// the two move independently.
type Application struct {
	ID          int64  `json:"id"`
	SchoolName  string `json:"school_name"`
	ProgramName string `json:"program_name"`
	DegreeType  string `json:"degree_type"`
	Deadline    string `json:"deadline,omitempty"`
	Status      string `json:"status"`
	Decision    string `json:"decision"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// applicationFields are the columns a partial update may touch.
var applicationFields = map[string]bool{
	"school_name":  true,
	"program_name": true,
	"degree_type":  true,
	"deadline":     true,
	"status":       true,
	"decision":     true,
	"notes":        true,
}

// CreateApplication inserts a new application and returns its ID.
// Empty degree/status/decision fall back to the schema defaults.
func (s *Store) CreateApplication(ctx context.Context, a *Application) (int64, error) {
	if a.DegreeType == "" {
		a.DegreeType = "MS"
	}
	if a.Status == "" {
		a.Status = "researching"
	}
	if a.Decision == "" {
		a.Decision = "pending"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (school_name, program_name, degree_type, deadline, status, decision, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.SchoolName, a.ProgramName, a.DegreeType, nullable(a.Deadline), a.Status, a.Decision, nullable(a.Notes))
	if err != nil {
		return 0, fmt.Errorf("create application: %w", err)
	}
	return res.LastInsertId()
}

// GetApplication returns a single application or ErrNotFound.
func (s *Store) GetApplication(ctx context.Context, id int64) (*Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, school_name, program_name, degree_type, deadline, status, decision, notes, created_at, updated_at
		FROM applications WHERE id = ?
	`, id)
	return scanApplication(row)
}

// ListApplications returns all applications ordered by deadline.
func (s *Store) ListApplications(ctx context.Context) ([]Application, error) {
	return s.queryApplications(ctx, `
		SELECT id, school_name, program_name, degree_type, deadline, status, decision, notes, created_at, updated_at
		FROM applications ORDER BY deadline ASC
	`)
}

// ApplicationsByStatus returns applications filtered by status.
func (s *Store) ApplicationsByStatus(ctx context.Context, status string) ([]Application, error) {
	return s.queryApplications(ctx, `
		SELECT id, school_name, program_name, degree_type, deadline, status, decision, notes, created_at, updated_at
		FROM applications WHERE status = ? ORDER BY deadline ASC
	`, status)
}

// SearchApplications matches school or program names against the query.
func (s *Store) SearchApplications(ctx context.Context, query string) ([]Application, error) {
	like := "%" + query + "%"
	return s.queryApplications(ctx, `
		SELECT id, school_name, program_name, degree_type, deadline, status, decision, notes, created_at, updated_at
		FROM applications
		WHERE school_name LIKE ? OR program_name LIKE ?
		ORDER BY deadline ASC
	`, like, like)
}

// UpdateApplication applies a partial update. Unknown fields are ignored;
// an empty update or a missing row returns ErrNotFound.
func (s *Store) UpdateApplication(ctx context.Context, id int64, fields map[string]any) error {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for k, v := range fields {
		if !applicationFields[k] {
			continue
		}
		sets = append(sets, k+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return ErrNotFound
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE applications SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApplication removes an application together with its tasks,
// essays, and interview notes.
func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE application_id = ?`, id); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM essays WHERE application_id = ?`, id); err != nil {
		return fmt.Errorf("delete essays: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM interview_notes WHERE application_id = ?`, id); err != nil {
		return fmt.Errorf("delete interview notes: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ApplicationStats summarises the portfolio.
type ApplicationStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByDecision map[string]int `json:"by_decision"`
}

// ApplicationStats returns counts by status and by non-pending decision.
func (s *Store) ApplicationStats(ctx context.Context) (*ApplicationStats, error) {
	stats := &ApplicationStats{
		ByStatus:   map[string]int{},
		ByDecision: map[string]int{},
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("group by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}

	drows, err := s.db.QueryContext(ctx, `
		SELECT decision, COUNT(*) FROM applications WHERE decision != 'pending' GROUP BY decision
	`)
	if err != nil {
		return nil, fmt.Errorf("group by decision: %w", err)
	}
	defer drows.Close()
	for drows.Next() {
		var decision string
		var count int
		if err := drows.Scan(&decision, &count); err != nil {
			return nil, err
		}
		stats.ByDecision[decision] = count
	}
	return stats, nil
}

func (s *Store) queryApplications(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var a Application
		var deadline, notes sql.NullString
		if err := rows.Scan(&a.ID, &a.SchoolName, &a.ProgramName, &a.DegreeType, &deadline,
			&a.Status, &a.Decision, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Deadline = deadline.String
		a.Notes = notes.String
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func scanApplication(row *sql.Row) (*Application, error) {
	var a Application
	var deadline, notes sql.NullString
	err := row.Scan(&a.ID, &a.SchoolName, &a.ProgramName, &a.DegreeType, &deadline,
		&a.Status, &a.Decision, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}
	a.Deadline = deadline.String
	a.Notes = notes.String
	return &a, nil
}

// nullable maps "" to NULL so optional text columns stay NULL in the db.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
