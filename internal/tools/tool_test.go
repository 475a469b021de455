package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gradtrack/gradtrack/internal/store"
	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	s, err := store.New(db)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// decodeResult unmarshals a tool result for assertions.
func decodeResult(t *testing.T, raw string) Result {
	t.Helper()
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatalf("tool result is not valid JSON: %v\n%s", err, raw)
	}
	return res
}

// dataMap returns the result data as a map.
func dataMap(t *testing.T, res Result) map[string]any {
	t.Helper()
	m, ok := res.Data.(map[string]any)
	if !ok {
		t.Fatalf("result data is %T, want map", res.Data)
	}
	return m
}

func assertToolError(t *testing.T, err error, kind string) *ToolError {
	t.Helper()
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *ToolError", err)
	}
	if te.Kind != kind {
		t.Fatalf("error kind = %q, want %q", te.Kind, kind)
	}
	return te
}

type echoTool struct{ name string }

func (e *echoTool) Name() string               { return e.name }
func (e *echoTool) Description() string        { return "echo" }
func (e *echoTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (e *echoTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	return success("echo", nil)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "a"})

	_, err := r.Execute(context.Background(), "nope", nil)
	assertToolError(t, err, KindInvalidArguments)
}

func TestRegistryListOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&echoTool{name: "b"})
	r.Register(&echoTool{name: "a"})
	r.Register(&echoTool{name: "c"})

	names := []string{}
	for _, tool := range r.List() {
		names = append(names, tool.Name())
	}
	want := []string{"b", "a", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("list order = %v, want %v", names, want)
		}
	}

	defs := r.Definitions()
	if len(defs) != 3 {
		t.Fatalf("definitions = %d, want 3", len(defs))
	}
	fn := defs[0]["function"].(map[string]any)
	if fn["name"] != "b" {
		t.Errorf("first definition = %v, want b", fn["name"])
	}
}

func TestParamHelpers(t *testing.T) {
	params := map[string]any{
		"s": "text",
		"f": 3.0,
		"i": 7,
		"b": true,
	}
	if got := GetString(params, "s", "d"); got != "text" {
		t.Errorf("GetString = %q", got)
	}
	if got := GetString(params, "missing", "d"); got != "d" {
		t.Errorf("GetString default = %q", got)
	}
	if got := GetInt(params, "f", 0); got != 3 {
		t.Errorf("GetInt from float64 = %d", got)
	}
	if got := GetInt64(params, "f", 0); got != 3 {
		t.Errorf("GetInt64 from float64 = %d", got)
	}
	if got := GetFloat(params, "i", 0); got != 7 {
		t.Errorf("GetFloat from int = %f", got)
	}
	if got := GetBool(params, "b", false); !got {
		t.Error("GetBool = false")
	}
	if got := GetBool(params, "s", true); !got {
		t.Error("GetBool wrong type should default")
	}
}
