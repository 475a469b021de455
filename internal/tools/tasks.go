package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gradtrack/gradtrack/internal/store"
)

// CalendarTodoTool manages deadlines and to-do items for applications.
type CalendarTodoTool struct {
	store *store.Store
}

// NewCalendarTodoTool creates the tool backed by the given store.
func NewCalendarTodoTool(s *store.Store) *CalendarTodoTool {
	return &CalendarTodoTool{store: s}
}

func (t *CalendarTodoTool) Name() string {
	return "calendar_todo"
}

func (t *CalendarTodoTool) Description() string {
	return "Manage deadlines and to-do lists for applications. Use this tool to " +
		"create tasks, list or complete them, and check upcoming or overdue deadlines."
}

func (t *CalendarTodoTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type": "string",
				"enum": []string{"create_task", "list_tasks", "complete_task", "delete_task",
					"upcoming", "by_application", "overdue"},
				"description": "The action to perform",
			},
			"task_id": map[string]any{
				"type":        "integer",
				"description": "Task ID (for complete_task, delete_task)",
			},
			"application_id": map[string]any{
				"type":        "integer",
				"description": "Application ID to associate the task with",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Task title",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Task description",
			},
			"due_date": map[string]any{
				"type":        "string",
				"description": "Due date (YYYY-MM-DD format)",
			},
			"priority": map[string]any{
				"type":        "string",
				"enum":        store.TaskPriorities,
				"description": "Task priority",
			},
			"category": map[string]any{
				"type":        "string",
				"enum":        store.TaskCategories,
				"description": "Task category",
			},
			"days_ahead": map[string]any{
				"type":        "integer",
				"description": "Number of days to look ahead (for upcoming action)",
				"default":     7,
			},
		},
		"required": []string{"action"},
	}
}

func (t *CalendarTodoTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	action := GetString(params, "action", "")
	switch action {
	case "create_task":
		return t.createTask(ctx, params)
	case "list_tasks":
		return t.listTasks(ctx)
	case "complete_task":
		return t.completeTask(ctx, params)
	case "delete_task":
		return t.deleteTask(ctx, params)
	case "upcoming":
		return t.upcoming(ctx, params)
	case "by_application":
		return t.byApplication(ctx, params)
	case "overdue":
		return t.overdue(ctx)
	case "":
		return "", invalidArgs("missing required parameter: action")
	default:
		return "", invalidArgs("unknown action: %s", action)
	}
}

func (t *CalendarTodoTool) createTask(ctx context.Context, params map[string]any) (string, error) {
	title := GetString(params, "title", "")
	if title == "" {
		return "", invalidArgs("missing required field: title")
	}

	task := &store.Task{
		Title:       title,
		Description: GetString(params, "description", ""),
		DueDate:     GetString(params, "due_date", ""),
		Priority:    GetString(params, "priority", "medium"),
		Category:    GetString(params, "category", "other"),
	}
	if appID := GetInt64(params, "application_id", 0); appID != 0 {
		task.ApplicationID = &appID
	}

	id, err := t.store.CreateTask(ctx, task)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	msg := fmt.Sprintf("Created task: %q", title)
	if task.DueDate != "" {
		msg += fmt.Sprintf(" (due: %s)", task.DueDate)
	}
	return success(msg, map[string]any{"task_id": id, "title": title})
}

func (t *CalendarTodoTool) listTasks(ctx context.Context) (string, error) {
	tasks, err := t.store.ListTasks(ctx)
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}

	var pending, inProgress, completed []store.Task
	for _, task := range tasks {
		switch task.Status {
		case "pending":
			pending = append(pending, task)
		case "in_progress":
			inProgress = append(inProgress, task)
		case "completed":
			completed = append(completed, task)
		}
	}

	return success(
		fmt.Sprintf("Found %d tasks (%d pending, %d completed)", len(tasks), len(pending), len(completed)),
		map[string]any{
			"tasks":       tasks,
			"pending":     pending,
			"in_progress": inProgress,
			"completed":   completed,
			"total":       len(tasks),
		},
	)
}

func (t *CalendarTodoTool) completeTask(ctx context.Context, params map[string]any) (string, error) {
	id := GetInt64(params, "task_id", 0)
	if id == 0 {
		return "", invalidArgs("missing required parameter: task_id")
	}

	err := t.store.CompleteTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return "", notFound("task with ID %d not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("complete task: %w", err)
	}
	return success(
		fmt.Sprintf("Task %d marked as complete", id),
		map[string]any{"task_id": id, "status": "completed"},
	)
}

func (t *CalendarTodoTool) deleteTask(ctx context.Context, params map[string]any) (string, error) {
	id := GetInt64(params, "task_id", 0)
	if id == 0 {
		return "", invalidArgs("missing required parameter: task_id")
	}

	err := t.store.DeleteTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return "", notFound("task with ID %d not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("delete task: %w", err)
	}
	return success(fmt.Sprintf("Task %d deleted", id), map[string]any{"deleted_id": id})
}

// taskWithTiming decorates a task with due-date arithmetic for the agent.
type taskWithTiming struct {
	store.Task
	DaysUntilDue int    `json:"days_until_due,omitempty"`
	Urgency      string `json:"urgency,omitempty"`
	DaysOverdue  int    `json:"days_overdue,omitempty"`
}

func (t *CalendarTodoTool) upcoming(ctx context.Context, params map[string]any) (string, error) {
	daysAhead := GetInt(params, "days_ahead", 7)

	tasks, err := t.store.UpcomingTasks(ctx, daysAhead)
	if err != nil {
		return "", fmt.Errorf("upcoming tasks: %w", err)
	}

	today := time.Now()
	decorated := make([]taskWithTiming, 0, len(tasks))
	for _, task := range tasks {
		d := taskWithTiming{Task: task}
		if due, err := time.Parse("2006-01-02", trimDate(task.DueDate)); err == nil {
			d.DaysUntilDue = daysBetween(today, due)
			if d.DaysUntilDue <= 3 {
				d.Urgency = "urgent"
			} else {
				d.Urgency = "upcoming"
			}
		}
		decorated = append(decorated, d)
	}

	msg := fmt.Sprintf("No tasks due in the next %d days", daysAhead)
	if len(decorated) > 0 {
		msg = fmt.Sprintf("Found %d tasks due in the next %d days", len(decorated), daysAhead)
	}
	return success(msg, map[string]any{
		"upcoming_tasks": decorated,
		"count":          len(decorated),
		"days_ahead":     daysAhead,
	})
}

func (t *CalendarTodoTool) byApplication(ctx context.Context, params map[string]any) (string, error) {
	appID := GetInt64(params, "application_id", 0)
	if appID == 0 {
		return "", invalidArgs("missing required parameter: application_id")
	}

	tasks, err := t.store.TasksByApplication(ctx, appID)
	if err != nil {
		return "", fmt.Errorf("tasks by application: %w", err)
	}

	var pending, completed []store.Task
	for _, task := range tasks {
		if task.Status == "completed" {
			completed = append(completed, task)
		} else {
			pending = append(pending, task)
		}
	}

	appName := fmt.Sprintf("Application %d", appID)
	if app, err := t.store.GetApplication(ctx, appID); err == nil {
		appName = app.SchoolName + " " + app.ProgramName
	}

	completionRate := 0.0
	if len(tasks) > 0 {
		completionRate = float64(len(completed)) / float64(len(tasks)) * 100
	}

	return success(
		fmt.Sprintf("Found %d tasks for %s", len(tasks), appName),
		map[string]any{
			"tasks":            tasks,
			"pending":          pending,
			"completed":        completed,
			"application_name": appName,
			"completion_rate":  completionRate,
		},
	)
}

func (t *CalendarTodoTool) overdue(ctx context.Context) (string, error) {
	tasks, err := t.store.OverdueTasks(ctx)
	if err != nil {
		return "", fmt.Errorf("overdue tasks: %w", err)
	}

	// Store returns earliest due date first, which is already most overdue first.
	today := time.Now()
	decorated := make([]taskWithTiming, 0, len(tasks))
	for _, task := range tasks {
		d := taskWithTiming{Task: task}
		if due, err := time.Parse("2006-01-02", trimDate(task.DueDate)); err == nil {
			d.DaysOverdue = daysBetween(due, today)
		}
		decorated = append(decorated, d)
	}

	msg := "No overdue tasks"
	if len(decorated) > 0 {
		msg = fmt.Sprintf("You have %d overdue tasks", len(decorated))
	}
	return success(msg, map[string]any{
		"overdue_tasks": decorated,
		"count":         len(decorated),
	})
}

// trimDate keeps just the YYYY-MM-DD prefix of a possibly longer timestamp.
func trimDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// daysBetween returns whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
