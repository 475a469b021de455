package agent

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/gradtrack/gradtrack/internal/memory"
	"github.com/gradtrack/gradtrack/internal/session"
	"github.com/gradtrack/gradtrack/internal/store"
	"github.com/gradtrack/gradtrack/internal/tools"
	_ "modernc.org/sqlite"
)

func setupAgentStore(t *testing.T) *store.Store {
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

func fullRegistry(s *store.Store) *tools.Registry {
	r := tools.NewRegistry()
	r.Register(tools.NewApplicationDatabaseTool(s))
	r.Register(tools.NewProgramResearchTool())
	r.Register(tools.NewEssayAnalyzerTool())
	r.Register(tools.NewCalendarTodoTool(s))
	r.Register(tools.NewProgramRecommenderTool(s))
	return r
}

func TestProcessOfflineToolTurn(t *testing.T) {
	s := setupAgentStore(t)
	mem := memory.NewService(memory.NewSQLiteVecStore(s.DB(), 4), nil)
	a := New(Options{
		Registry: fullRegistry(s),
		Store:    s,
		Memory:   mem,
		Logger:   quietLogger(),
	})
	sess := session.New("default")

	result, err := a.Process(context.Background(), "Add MIT Computer Science to my list", sess)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.State != StatePersisted {
		t.Errorf("state = %q, want %q", result.State, StatePersisted)
	}
	if len(result.ToolsUsed) != 1 || result.ToolsUsed[0] != "application_database" {
		t.Errorf("tools_used = %v", result.ToolsUsed)
	}
	if !strings.Contains(result.Response, "Created application for MIT Computer Science") {
		t.Errorf("response = %q", result.Response)
	}

	apps, err := s.ListApplications(context.Background())
	if err != nil || len(apps) != 1 {
		t.Fatalf("applications = %v, err = %v", apps, err)
	}
	if apps[0].SchoolName != "MIT" {
		t.Errorf("school = %q", apps[0].SchoolName)
	}

	if sess.Len() != 2 {
		t.Errorf("session messages = %d, want 2", sess.Len())
	}

	stats, err := mem.Stats(context.Background())
	if err != nil {
		t.Fatalf("memory stats: %v", err)
	}
	if stats.Chunks != 1 {
		t.Errorf("memory chunks = %d, want 1", stats.Chunks)
	}
}

func TestProcessTraceOrder(t *testing.T) {
	s := setupAgentStore(t)
	a := New(Options{Registry: fullRegistry(s), Store: s, Logger: quietLogger()})

	result, err := a.Process(context.Background(), "Hello!", session.New("default"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	var steps []string
	for _, ts := range result.Trace {
		if len(steps) == 0 || steps[len(steps)-1] != ts.Step {
			steps = append(steps, ts.Step)
		}
	}
	want := []string{"OBSERVE", "THINK", "RESPOND", "STORE"}
	if len(steps) != len(want) {
		t.Fatalf("trace steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("trace steps = %v, want %v", steps, want)
		}
	}
}

func TestProcessToolFailureStillResponds(t *testing.T) {
	s := setupAgentStore(t)
	registry := tools.NewRegistry()
	registry.Register(&stubTool{name: "broken", err: errors.New("backend exploded")})

	decider := &scriptedProvider{responses: []string{
		`{"use_tool": true, "tool_name": "broken", "tool_params": {}, "reasoning": "test"}`,
	}}
	a := New(Options{
		Registry: registry,
		Store:    s,
		Resolver: NewIntentResolver(decider, registry, ResolverOptions{Logger: quietLogger()}),
		Logger:   quietLogger(),
	})

	result, err := a.Process(context.Background(), "break it", session.New("default"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if result.State != StatePersisted {
		t.Errorf("state = %q", result.State)
	}
	if len(result.ToolsUsed) != 1 || result.ToolsUsed[0] != "broken" {
		t.Errorf("tools_used = %v, want the attempted tool recorded", result.ToolsUsed)
	}
	if !strings.Contains(result.Response, "problem") {
		t.Errorf("response = %q, want an apologetic reply", result.Response)
	}

	failed := false
	for _, ts := range result.Trace {
		if strings.Contains(ts.Message, "Tool failed") {
			failed = true
		}
	}
	if !failed {
		t.Error("trace should record the tool failure")
	}
}

// failingVecStore errors on every operation, including the text path.
type failingVecStore struct{}

func (f *failingVecStore) Upsert(ctx context.Context, id string, vector []float32, payload map[string]interface{}) error {
	return errors.New("store down")
}

func (f *failingVecStore) Search(ctx context.Context, vector []float32, limit int) ([]memory.Result, error) {
	return nil, errors.New("store down")
}

func (f *failingVecStore) Count(ctx context.Context) (int, error) {
	return 0, errors.New("store down")
}

func (f *failingVecStore) UpsertText(ctx context.Context, id string, payload map[string]interface{}) error {
	return errors.New("store down")
}

func (f *failingVecStore) SearchText(ctx context.Context, query string, limit int) ([]memory.Result, error) {
	return nil, errors.New("store down")
}

func TestProcessMemoryFailureLeavesResponseIntact(t *testing.T) {
	s := setupAgentStore(t)
	a := New(Options{
		Registry: fullRegistry(s),
		Store:    s,
		Memory:   memory.NewService(&failingVecStore{}, nil),
		Logger:   quietLogger(),
	})

	result, err := a.Process(context.Background(), "Hello!", session.New("default"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.State != StatePersisted {
		t.Errorf("state = %q", result.State)
	}
	if result.Response == "" {
		t.Error("response should survive memory failures")
	}
}

func TestProcessDirectResponseWithProvider(t *testing.T) {
	s := setupAgentStore(t)
	p := &scriptedProvider{responses: []string{
		`{"use_tool": false, "reasoning": "just chatting"}`,
		"Hi! How can I help with your applications?",
	}}
	a := New(Options{
		Provider: p,
		Registry: fullRegistry(s),
		Store:    s,
		Logger:   quietLogger(),
	})

	result, err := a.Process(context.Background(), "hey there", session.New("default"))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Response != "Hi! How can I help with your applications?" {
		t.Errorf("response = %q", result.Response)
	}
	if len(result.ToolsUsed) != 0 {
		t.Errorf("tools_used = %v, want none", result.ToolsUsed)
	}
	if p.calls != 2 {
		t.Errorf("provider calls = %d, want decision + response", p.calls)
	}
}
