package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gradtrack/gradtrack/internal/provider"
	"github.com/gradtrack/gradtrack/internal/session"
	"github.com/gradtrack/gradtrack/internal/tools"
)

// scriptedProvider returns canned chat responses in order.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *scriptedProvider) Chat(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.calls > len(p.responses) {
		return &provider.ChatResponse{Content: ""}, nil
	}
	return &provider.ChatResponse{Content: p.responses[p.calls-1]}, nil
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }

// stubTool is a minimal tool with a fixed required-parameter list.
type stubTool struct {
	name     string
	required []string
	result   string
	err      error
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub tool " + s.name }
func (s *stubTool) Parameters() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": s.required,
	}
}
func (s *stubTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.result, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubRegistry() *tools.Registry {
	r := tools.NewRegistry()
	r.Register(&stubTool{name: "application_database", required: []string{"action"}, result: `{"success": true}`})
	r.Register(&stubTool{name: "program_research", required: []string{"school", "program"}, result: `{"success": true}`})
	return r
}

func TestResolverUsesLLMDecision(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		"```json\n{\"use_tool\": true, \"tool_name\": \"application_database\", \"tool_params\": {\"action\": \"read\"}, \"reasoning\": \"list apps\"}\n```",
	}}
	r := NewIntentResolver(p, stubRegistry(), ResolverOptions{Logger: quietLogger()})

	d := r.Resolve(context.Background(), "show my applications", nil)
	if d.Source != "llm" {
		t.Fatalf("source = %q, want llm", d.Source)
	}
	if !d.UseTool || d.ToolName != "application_database" {
		t.Errorf("decision = %+v", d)
	}
	if d.ToolParams["action"] != "read" {
		t.Errorf("params = %v", d.ToolParams)
	}
}

func TestResolverRetriesOnceOnInvalidTool(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"use_tool": true, "tool_name": "nonexistent_tool", "tool_params": {}}`,
		`{"use_tool": true, "tool_name": "application_database", "tool_params": {"action": "read"}}`,
	}}
	r := NewIntentResolver(p, stubRegistry(), ResolverOptions{Logger: quietLogger()})

	d := r.Resolve(context.Background(), "show my applications", nil)
	if p.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", p.calls)
	}
	if d.Source != "llm" || d.ToolName != "application_database" {
		t.Errorf("decision = %+v", d)
	}
}

func TestResolverFallsBackAfterRetry(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"use_tool": true, "tool_name": "program_research", "tool_params": {"school": "MIT"}}`,
		`{"use_tool": true, "tool_name": "program_research", "tool_params": {"school": "MIT"}}`,
	}}
	r := NewIntentResolver(p, stubRegistry(), ResolverOptions{Logger: quietLogger()})

	// Missing required "program" twice: fall back to rules.
	d := r.Resolve(context.Background(), "what's the deadline at MIT?", nil)
	if p.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", p.calls)
	}
	if d.Source != "fallback" {
		t.Errorf("source = %q, want fallback", d.Source)
	}
}

func TestResolverFallsBackOnTransportError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("connection refused")}
	r := NewIntentResolver(p, stubRegistry(), ResolverOptions{Logger: quietLogger()})

	d := r.Resolve(context.Background(), "add MIT EECS PhD to my list", nil)
	if d.Source != "fallback" {
		t.Fatalf("source = %q, want fallback", d.Source)
	}
	if d.ToolName != "application_database" {
		t.Errorf("fallback tool = %q", d.ToolName)
	}
}

func TestResolverNilProvider(t *testing.T) {
	r := NewIntentResolver(nil, stubRegistry(), ResolverOptions{Logger: quietLogger()})

	d := r.Resolve(context.Background(), "hello", nil)
	if d.Source != "fallback" || d.UseTool {
		t.Errorf("decision = %+v", d)
	}
}

func TestResolverNoToolDecision(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"use_tool": false, "reasoning": "just chatting"}`,
	}}
	r := NewIntentResolver(p, stubRegistry(), ResolverOptions{Logger: quietLogger()})

	d := r.Resolve(context.Background(), "hi there", nil)
	if d.UseTool || d.Source != "llm" {
		t.Errorf("decision = %+v", d)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Here you go:\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecisionPromptListsTools(t *testing.T) {
	prompt := buildDecisionPrompt(stubRegistry(), "hello", []session.Message{
		{Role: "user", Content: "earlier message"},
	})
	for _, want := range []string{"application_database", "program_research", "Required parameters: school, program", "earlier message"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
