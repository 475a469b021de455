package tools

import (
	"context"
	"testing"
)

func TestApplicationDatabaseCreateAndRead(t *testing.T) {
	s := setupTestStore(t)
	tool := NewApplicationDatabaseTool(s)
	ctx := context.Background()

	raw, err := tool.Execute(ctx, map[string]any{
		"action":       "create",
		"school_name":  "MIT",
		"program_name": "EECS",
		"degree_type":  "PhD",
		"deadline":     "2026-12-15",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	res := decodeResult(t, raw)
	if !res.Success {
		t.Fatal("create not successful")
	}
	if res.Message != "Created application for MIT EECS" {
		t.Errorf("message = %q", res.Message)
	}
	id := dataMap(t, res)["id"].(float64)

	raw, err = tool.Execute(ctx, map[string]any{"action": "read", "app_id": id})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	res = decodeResult(t, raw)
	app := dataMap(t, res)
	if app["school_name"] != "MIT" || app["degree_type"] != "PhD" {
		t.Errorf("read data = %+v", app)
	}
}

func TestApplicationDatabaseCreateMissingField(t *testing.T) {
	s := setupTestStore(t)
	tool := NewApplicationDatabaseTool(s)

	_, err := tool.Execute(context.Background(), map[string]any{
		"action":      "create",
		"school_name": "MIT",
	})
	te := assertToolError(t, err, KindInvalidArguments)
	if te.Message != "missing required field for create: program_name" {
		t.Errorf("message = %q", te.Message)
	}
}

func TestApplicationDatabaseDelete(t *testing.T) {
	s := setupTestStore(t)
	tool := NewApplicationDatabaseTool(s)
	ctx := context.Background()

	raw, _ := tool.Execute(ctx, map[string]any{
		"action": "create", "school_name": "Stanford", "program_name": "CS", "degree_type": "MS",
	})
	id := dataMap(t, decodeResult(t, raw))["id"].(float64)

	raw, err := tool.Execute(ctx, map[string]any{"action": "delete", "app_id": id})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	res := decodeResult(t, raw)
	if res.Message != "Deleted application for Stanford CS" {
		t.Errorf("confirmation = %q", res.Message)
	}

	_, err = tool.Execute(ctx, map[string]any{"action": "delete", "app_id": id})
	assertToolError(t, err, KindNotFound)
}

func TestApplicationDatabaseUpdateAndByStatus(t *testing.T) {
	s := setupTestStore(t)
	tool := NewApplicationDatabaseTool(s)
	ctx := context.Background()

	raw, _ := tool.Execute(ctx, map[string]any{
		"action": "create", "school_name": "CMU", "program_name": "CS", "degree_type": "PhD",
	})
	id := dataMap(t, decodeResult(t, raw))["id"].(float64)

	_, err := tool.Execute(ctx, map[string]any{"action": "update", "app_id": id, "status": "applied"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	raw, err = tool.Execute(ctx, map[string]any{"action": "by_status", "status": "applied"})
	if err != nil {
		t.Fatalf("by_status: %v", err)
	}
	data := dataMap(t, decodeResult(t, raw))
	if data["count"].(float64) != 1 {
		t.Errorf("by_status count = %v, want 1", data["count"])
	}

	_, err = tool.Execute(ctx, map[string]any{"action": "update", "app_id": 999, "status": "applied"})
	assertToolError(t, err, KindNotFound)

	_, err = tool.Execute(ctx, map[string]any{"action": "update", "app_id": id})
	assertToolError(t, err, KindInvalidArguments)
}

func TestApplicationDatabaseSearchAndStats(t *testing.T) {
	s := setupTestStore(t)
	tool := NewApplicationDatabaseTool(s)
	ctx := context.Background()

	tool.Execute(ctx, map[string]any{"action": "create", "school_name": "MIT", "program_name": "EECS", "degree_type": "PhD"})
	tool.Execute(ctx, map[string]any{"action": "create", "school_name": "Georgia Tech", "program_name": "CS", "degree_type": "MS"})

	raw, err := tool.Execute(ctx, map[string]any{"action": "search", "query": "georgia"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if dataMap(t, decodeResult(t, raw))["count"].(float64) != 1 {
		t.Error("search should match only Georgia Tech")
	}

	raw, err = tool.Execute(ctx, map[string]any{"action": "stats"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if dataMap(t, decodeResult(t, raw))["total"].(float64) != 2 {
		t.Error("stats total should be 2")
	}

	_, err = tool.Execute(ctx, map[string]any{"action": "search"})
	assertToolError(t, err, KindInvalidArguments)
}

func TestApplicationDatabaseUnknownAction(t *testing.T) {
	s := setupTestStore(t)
	tool := NewApplicationDatabaseTool(s)

	_, err := tool.Execute(context.Background(), map[string]any{"action": "explode"})
	assertToolError(t, err, KindInvalidArguments)

	_, err = tool.Execute(context.Background(), map[string]any{})
	assertToolError(t, err, KindInvalidArguments)
}
