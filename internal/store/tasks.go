package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Task is a to-do item, optionally attached to an application.
type Task struct {
	ID            int64  `json:"id"`
	ApplicationID *int64 `json:"application_id,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	Category      string `json:"category"`
	CreatedAt     string `json:"created_at"`
	CompletedAt   string `json:"completed_at,omitempty"`

	// Populated by UpcomingTasks via the join with applications.
	SchoolName  string `json:"school_name,omitempty"`
	ProgramName string `json:"program_name,omitempty"`
}

var taskFields = map[string]bool{
	"title":          true,
	"description":    true,
	"due_date":       true,
	"priority":       true,
	"status":         true,
	"category":       true,
	"application_id": true,
}

const taskColumns = `id, application_id, title, description, due_date, priority, status, category, created_at, completed_at`

// CreateTask inserts a new task and returns its ID.
func (s *Store) CreateTask(ctx context.Context, t *Task) (int64, error) {
	if t.Priority == "" {
		t.Priority = "medium"
	}
	if t.Category == "" {
		t.Category = "other"
	}
	var appID any
	if t.ApplicationID != nil {
		appID = *t.ApplicationID
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (application_id, title, description, due_date, priority, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`, appID, t.Title, nullable(t.Description), nullable(t.DueDate), t.Priority, t.Category)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	return res.LastInsertId()
}

// GetTask returns a single task or ErrNotFound.
func (s *Store) GetTask(ctx context.Context, id int64) (*Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, ErrNotFound
	}
	t, err := scanTask(rows)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns all tasks ordered by due date.
func (s *Store) ListTasks(ctx context.Context) ([]Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY due_date ASC`)
}

// TasksByStatus returns tasks filtered by status.
func (s *Store) TasksByStatus(ctx context.Context, status string) ([]Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY due_date ASC`, status)
}

// TasksByApplication returns tasks attached to an application.
func (s *Store) TasksByApplication(ctx context.Context, appID int64) ([]Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE application_id = ? ORDER BY due_date ASC`, appID)
}

// UpcomingTasks returns incomplete tasks due within the next `days` days,
// with school/program names joined in.
func (s *Store) UpcomingTasks(ctx context.Context, days int) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.application_id, t.title, t.description, t.due_date, t.priority, t.status, t.category,
		       t.created_at, t.completed_at, a.school_name, a.program_name
		FROM tasks t
		LEFT JOIN applications a ON t.application_id = a.id
		WHERE t.due_date IS NOT NULL
		  AND date(t.due_date) >= date('now')
		  AND date(t.due_date) <= date('now', '+' || ? || ' days')
		  AND t.status != 'completed'
		ORDER BY t.due_date ASC
	`, days)
	if err != nil {
		return nil, fmt.Errorf("upcoming tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var appID sql.NullInt64
		var desc, due, completed, school, program sql.NullString
		if err := rows.Scan(&t.ID, &appID, &t.Title, &desc, &due, &t.Priority, &t.Status, &t.Category,
			&t.CreatedAt, &completed, &school, &program); err != nil {
			return nil, err
		}
		if appID.Valid {
			v := appID.Int64
			t.ApplicationID = &v
		}
		t.Description = desc.String
		t.DueDate = due.String
		t.CompletedAt = completed.String
		t.SchoolName = school.String
		t.ProgramName = program.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// OverdueTasks returns incomplete tasks whose due date has passed,
// most overdue first.
func (s *Store) OverdueTasks(ctx context.Context) ([]Task, error) {
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE due_date IS NOT NULL
		  AND date(due_date) < date('now')
		  AND status != 'completed'
		ORDER BY due_date ASC
	`)
}

// UpdateTask applies a partial update. Setting status to completed
// stamps completed_at.
func (s *Store) UpdateTask(ctx context.Context, id int64, fields map[string]any) error {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	completed := false
	for k, v := range fields {
		if !taskFields[k] {
			continue
		}
		sets = append(sets, k+" = ?")
		args = append(args, v)
		if k == "status" && v == "completed" {
			completed = true
		}
	}
	if len(sets) == 0 {
		return ErrNotFound
	}
	if completed {
		sets = append(sets, "completed_at = CURRENT_TIMESTAMP")
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteTask marks a task completed.
func (s *Store) CompleteTask(ctx context.Context, id int64) error {
	return s.UpdateTask(ctx, id, map[string]any{"status": "completed"})
}

// DeleteTask removes a task or returns ErrNotFound.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TaskStats summarises tasks. Urgent counts incomplete tasks due within 3 days.
type TaskStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	Urgent   int            `json:"urgent"`
}

// TaskStats returns task counts by status plus the urgent count.
func (s *Store) TaskStats(ctx context.Context) (*TaskStats, error) {
	stats := &TaskStats{ByStatus: map[string]int{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
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

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE due_date IS NOT NULL
		  AND date(due_date) <= date('now', '+3 days')
		  AND status != 'completed'
	`).Scan(&stats.Urgent)
	if err != nil {
		return nil, fmt.Errorf("count urgent: %w", err)
	}
	return stats, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(rows *sql.Rows) (*Task, error) {
	var t Task
	var appID sql.NullInt64
	var desc, due, completed sql.NullString
	if err := rows.Scan(&t.ID, &appID, &t.Title, &desc, &due, &t.Priority, &t.Status, &t.Category,
		&t.CreatedAt, &completed); err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if appID.Valid {
		v := appID.Int64
		t.ApplicationID = &v
	}
	t.Description = desc.String
	t.DueDate = due.String
	t.CompletedAt = completed.String
	return &t, nil
}
