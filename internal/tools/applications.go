package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/gradtrack/gradtrack/internal/store"
)

// ApplicationDatabaseTool manages application records for the agent.
type ApplicationDatabaseTool struct {
	store *store.Store
}

// NewApplicationDatabaseTool creates the tool backed by the given store.
func NewApplicationDatabaseTool(s *store.Store) *ApplicationDatabaseTool {
	return &ApplicationDatabaseTool{store: s}
}

func (t *ApplicationDatabaseTool) Name() string {
	return "application_database"
}

func (t *ApplicationDatabaseTool) Description() string {
	return "Manage graduate school application records. Use this tool to create, " +
		"read, update, delete, or search applications, get statistics, or filter by status."
}

func (t *ApplicationDatabaseTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"create", "read", "update", "delete", "search", "stats", "by_status"},
				"description": "The action to perform",
			},
			"app_id": map[string]any{
				"type":        "integer",
				"description": "Application ID (for read, update, delete)",
			},
			"school_name": map[string]any{
				"type":        "string",
				"description": "Name of the school",
			},
			"program_name": map[string]any{
				"type":        "string",
				"description": "Name of the program",
			},
			"degree_type": map[string]any{
				"type":        "string",
				"enum":        store.DegreeTypes,
				"description": "Type of degree",
			},
			"deadline": map[string]any{
				"type":        "string",
				"description": "Application deadline (YYYY-MM-DD)",
			},
			"status": map[string]any{
				"type":        "string",
				"enum":        store.ApplicationStatuses,
				"description": "Application status",
			},
			"decision": map[string]any{
				"type":        "string",
				"enum":        store.ApplicationDecisions,
				"description": "Admission decision",
			},
			"notes": map[string]any{
				"type":        "string",
				"description": "Free-form notes",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "Search query (for search)",
			},
		},
		"required": []string{"action"},
	}
}

func (t *ApplicationDatabaseTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	action := GetString(params, "action", "")
	switch action {
	case "create":
		return t.create(ctx, params)
	case "read":
		return t.read(ctx, params)
	case "update":
		return t.update(ctx, params)
	case "delete":
		return t.delete(ctx, params)
	case "search":
		return t.search(ctx, params)
	case "stats":
		return t.stats(ctx)
	case "by_status":
		return t.byStatus(ctx, params)
	case "":
		return "", invalidArgs("missing required parameter: action")
	default:
		return "", invalidArgs("unknown action: %s", action)
	}
}

func (t *ApplicationDatabaseTool) create(ctx context.Context, params map[string]any) (string, error) {
	for _, field := range []string{"school_name", "program_name", "degree_type"} {
		if GetString(params, field, "") == "" {
			return "", invalidArgs("missing required field for create: %s", field)
		}
	}

	app := &store.Application{
		SchoolName:  GetString(params, "school_name", ""),
		ProgramName: GetString(params, "program_name", ""),
		DegreeType:  GetString(params, "degree_type", ""),
		Deadline:    GetString(params, "deadline", ""),
		Status:      GetString(params, "status", "researching"),
		Decision:    GetString(params, "decision", ""),
		Notes:       GetString(params, "notes", ""),
	}
	id, err := t.store.CreateApplication(ctx, app)
	if err != nil {
		return "", fmt.Errorf("create application: %w", err)
	}

	return success(
		fmt.Sprintf("Created application for %s %s", app.SchoolName, app.ProgramName),
		map[string]any{"id": id, "status": app.Status},
	)
}

func (t *ApplicationDatabaseTool) read(ctx context.Context, params map[string]any) (string, error) {
	if id := GetInt64(params, "app_id", 0); id != 0 {
		app, err := t.store.GetApplication(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return "", notFound("application with ID %d not found", id)
		}
		if err != nil {
			return "", fmt.Errorf("get application: %w", err)
		}
		return success("", app)
	}

	apps, err := t.store.ListApplications(ctx)
	if err != nil {
		return "", fmt.Errorf("list applications: %w", err)
	}
	return success(
		fmt.Sprintf("Found %d applications", len(apps)),
		map[string]any{"applications": apps, "count": len(apps)},
	)
}

func (t *ApplicationDatabaseTool) update(ctx context.Context, params map[string]any) (string, error) {
	id := GetInt64(params, "app_id", 0)
	if id == 0 {
		return "", invalidArgs("missing required parameter: app_id")
	}

	fields := map[string]any{}
	for _, f := range []string{"school_name", "program_name", "degree_type", "deadline", "status", "decision", "notes"} {
		if v, ok := params[f]; ok && v != nil {
			fields[f] = v
		}
	}
	if len(fields) == 0 {
		return "", invalidArgs("no fields to update")
	}

	err := t.store.UpdateApplication(ctx, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return "", notFound("application with ID %d not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("update application: %w", err)
	}

	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	return success(
		fmt.Sprintf("Updated application %d", id),
		map[string]any{"id": id, "updated_fields": names},
	)
}

func (t *ApplicationDatabaseTool) delete(ctx context.Context, params map[string]any) (string, error) {
	id := GetInt64(params, "app_id", 0)
	if id == 0 {
		return "", invalidArgs("missing required parameter: app_id")
	}

	// Fetch first so the confirmation message can name the school.
	app, err := t.store.GetApplication(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return "", notFound("application with ID %d not found", id)
	}
	if err != nil {
		return "", fmt.Errorf("get application: %w", err)
	}

	if err := t.store.DeleteApplication(ctx, id); err != nil {
		return "", fmt.Errorf("delete application: %w", err)
	}
	return success(
		fmt.Sprintf("Deleted application for %s %s", app.SchoolName, app.ProgramName),
		map[string]any{"deleted_id": id},
	)
}

func (t *ApplicationDatabaseTool) search(ctx context.Context, params map[string]any) (string, error) {
	query := GetString(params, "query", "")
	if query == "" {
		return "", invalidArgs("missing required parameter: query")
	}

	apps, err := t.store.SearchApplications(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search applications: %w", err)
	}
	return success(
		fmt.Sprintf("Found %d applications matching %q", len(apps), query),
		map[string]any{"applications": apps, "count": len(apps)},
	)
}

func (t *ApplicationDatabaseTool) stats(ctx context.Context) (string, error) {
	stats, err := t.store.ApplicationStats(ctx)
	if err != nil {
		return "", fmt.Errorf("application stats: %w", err)
	}
	return success("Application statistics retrieved", stats)
}

func (t *ApplicationDatabaseTool) byStatus(ctx context.Context, params map[string]any) (string, error) {
	status := GetString(params, "status", "")
	if status == "" {
		return "", invalidArgs("missing required parameter: status")
	}

	apps, err := t.store.ApplicationsByStatus(ctx, status)
	if err != nil {
		return "", fmt.Errorf("applications by status: %w", err)
	}
	return success(
		fmt.Sprintf("Found %d applications with status %q", len(apps), status),
		map[string]any{"applications": apps, "count": len(apps)},
	)
}
