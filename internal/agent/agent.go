// Package agent implements the core reasoning loop: observe context,
// resolve intent, execute at most one tool, respond, persist.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gradtrack/gradtrack/internal/memory"
	"github.com/gradtrack/gradtrack/internal/provider"
	"github.com/gradtrack/gradtrack/internal/session"
	"github.com/gradtrack/gradtrack/internal/store"
	"github.com/gradtrack/gradtrack/internal/tools"
)

// Turn states, in order. A turn that fails mid-way still reports the
// last state it reached.
const (
	StateReceived       = "RECEIVED"
	StateContextFetched = "CONTEXT_FETCHED"
	StateIntentResolved = "INTENT_RESOLVED"
	StateToolExecuted   = "TOOL_EXECUTED"
	StateResponded      = "RESPONDED"
	StatePersisted      = "PERSISTED"
)

// TraceStep is one entry in the reasoning trace.
type TraceStep struct {
	Step      string    `json:"step"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnResult is the outcome of processing one user message.
type TurnResult struct {
	Response  string      `json:"response"`
	ToolsUsed []string    `json:"tools_used"`
	Trace     []TraceStep `json:"reasoning_steps"`
	State     string      `json:"state"`
}

// toolOutcome records one tool execution, successful or not.
type toolOutcome struct {
	Tool   string
	Params map[string]any
	Result string
	Err    error
}

// Options configures an Agent.
type Options struct {
	Provider    provider.LLMProvider // nil runs fully offline
	Registry    *tools.Registry
	Store       *store.Store
	Memory      *memory.Service
	Resolver    *IntentResolver
	Model       string
	MaxTokens   int
	Temperature float64
	RecallLimit int
	HistorySize int
	Logger      *slog.Logger
}

// Agent orchestrates one conversation turn at a time. It holds no
// session state; callers pass the session explicitly.
type Agent struct {
	provider    provider.LLMProvider
	registry    *tools.Registry
	store       *store.Store
	memory      *memory.Service
	resolver    *IntentResolver
	model       string
	maxTokens   int
	temperature float64
	recallLimit int
	historySize int
	log         *slog.Logger
}

// New creates an Agent from options, filling in defaults.
func New(opts Options) *Agent {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1000
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.RecallLimit == 0 {
		opts.RecallLimit = 5
	}
	if opts.HistorySize == 0 {
		opts.HistorySize = 20
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Resolver == nil {
		opts.Resolver = NewIntentResolver(opts.Provider, opts.Registry, ResolverOptions{Logger: opts.Logger})
	}
	return &Agent{
		provider:    opts.Provider,
		registry:    opts.Registry,
		store:       opts.Store,
		memory:      opts.Memory,
		resolver:    opts.Resolver,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		recallLimit: opts.RecallLimit,
		historySize: opts.HistorySize,
		log:         opts.Logger,
	}
}

// Process runs one full turn for the given message and session.
func (a *Agent) Process(ctx context.Context, message string, sess *session.Session) (*TurnResult, error) {
	result := &TurnResult{ToolsUsed: []string{}, State: StateReceived}
	trace := func(step, format string, args ...any) {
		result.Trace = append(result.Trace, TraceStep{
			Step:      step,
			Message:   fmt.Sprintf(format, args...),
			Timestamp: time.Now(),
		})
	}

	// OBSERVE: gather memory and database context.
	trace("OBSERVE", "Retrieving relevant context from memory...")
	memoryContext := a.recallContext(ctx, message)
	appSummary, err := a.store.SummaryForAgent(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch application summary: %w", err)
	}
	result.State = StateContextFetched
	trace("OBSERVE", "Retrieved context: %d chars from memory, %d chars from database",
		len(memoryContext), len(appSummary))

	// THINK: resolve intent.
	trace("THINK", "Analyzing user intent and deciding on action...")
	decision := a.resolver.Resolve(ctx, message, sess.GetHistory(a.historySize))
	result.State = StateIntentResolved
	if decision.UseTool {
		trace("THINK", "Decision: use tool %s (%s)", decision.ToolName, decision.Source)
	} else {
		trace("THINK", "Decision: direct response (%s)", decision.Source)
	}
	if decision.Reasoning != "" {
		trace("THINK", "Reasoning: %s", decision.Reasoning)
	}

	// ACT: execute at most one tool.
	var outcomes []toolOutcome
	if decision.UseTool {
		trace("ACT", "Executing tool: %s", decision.ToolName)
		out := toolOutcome{Tool: decision.ToolName, Params: decision.ToolParams}
		out.Result, out.Err = a.registry.Execute(ctx, decision.ToolName, decision.ToolParams)
		result.ToolsUsed = append(result.ToolsUsed, decision.ToolName)
		result.State = StateToolExecuted
		if out.Err != nil {
			a.log.Warn("tool execution failed", "tool", decision.ToolName, "error", out.Err)
			trace("OBSERVE", "Tool failed: %v", out.Err)
		} else {
			trace("OBSERVE", "Tool result: %s", truncate(out.Result, 500))
		}
		outcomes = append(outcomes, out)
	}

	// RESPOND: generate the reply.
	trace("RESPOND", "Generating response to user...")
	response := a.respond(ctx, message, memoryContext, appSummary, outcomes)
	result.Response = response
	result.State = StateResponded

	sess.AddMessage("user", message)
	sess.AddMessage("assistant", response)

	// STORE: best-effort memory write. Failure never alters the reply.
	trace("STORE", "Saving interaction to long-term memory...")
	a.persistTurn(ctx, sess.Key, message, response, result.ToolsUsed)
	result.State = StatePersisted

	return result, nil
}

func (a *Agent) recallContext(ctx context.Context, message string) string {
	if a.memory == nil {
		return ""
	}
	chunks, err := a.memory.Recall(ctx, message, a.recallLimit)
	if err != nil {
		a.log.Warn("memory recall failed", "error", err)
		return ""
	}
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Content)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func (a *Agent) respond(ctx context.Context, message, memoryContext, appSummary string, outcomes []toolOutcome) string {
	if a.provider == nil {
		return fallbackResponse(message, outcomes)
	}

	system := buildSystemPrompt(a.registry, memoryContext, appSummary, time.Now())
	resp, err := a.provider.Chat(ctx, &provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: buildUserContent(message, outcomes)},
		},
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		a.log.Warn("response generation failed, using fallback", "error", err)
		return fallbackResponse(message, outcomes)
	}
	return strings.TrimSpace(resp.Content)
}

func (a *Agent) persistTurn(ctx context.Context, sessionKey, message, response string, toolsUsed []string) {
	if a.memory == nil {
		return
	}
	content := "User: " + message + "\nAssistant: " + response
	tags := strings.Join(toolsUsed, ",")
	if _, err := a.memory.Remember(ctx, content, "conversation:"+sessionKey, tags); err != nil {
		a.log.Warn("failed to persist turn to memory", "session", sessionKey, "error", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
