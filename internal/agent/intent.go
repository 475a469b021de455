package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gradtrack/gradtrack/internal/provider"
	"github.com/gradtrack/gradtrack/internal/session"
	"github.com/gradtrack/gradtrack/internal/tools"
)

// Decision is the resolved intent for one user message: either no tool,
// or exactly one tool with validated parameters.
type Decision struct {
	UseTool    bool           `json:"use_tool"`
	ToolName   string         `json:"tool_name,omitempty"`
	ToolParams map[string]any `json:"tool_params,omitempty"`
	Reasoning  string         `json:"reasoning,omitempty"`
	// Source records which path produced the decision: "llm" or "fallback".
	Source string `json:"source"`
}

// ResolverOptions configures an IntentResolver.
type ResolverOptions struct {
	Temperature float64
	MaxTokens   int
	Logger      *slog.Logger
}

// IntentResolver decides whether a message needs a tool. It prefers the
// LLM decision prompt and falls back to rule-based matching when no
// provider is configured, the call fails, or the decision does not
// validate after one correction retry.
type IntentResolver struct {
	provider    provider.LLMProvider
	registry    *tools.Registry
	temperature float64
	maxTokens   int
	log         *slog.Logger
}

// NewIntentResolver creates a resolver over the given registry.
func NewIntentResolver(p provider.LLMProvider, registry *tools.Registry, opts ResolverOptions) *IntentResolver {
	if opts.Temperature == 0 {
		opts.Temperature = 0.1
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 500
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &IntentResolver{
		provider:    p,
		registry:    registry,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		log:         opts.Logger,
	}
}

// Resolve returns a decision for the message. It never fails; every
// error path degrades to the rule-based fallback.
func (r *IntentResolver) Resolve(ctx context.Context, message string, history []session.Message) *Decision {
	if r.provider == nil {
		return r.fallback(message, "no provider configured")
	}

	prompt := buildDecisionPrompt(r.registry, message, history)
	decision, err := r.askLLM(ctx, prompt)
	if err != nil {
		return r.fallback(message, err.Error())
	}

	if verr := r.validate(decision); verr != nil {
		// One correction retry with the validation error spelled out.
		correction := prompt + "\n\nYour previous answer was invalid: " + verr.Error() +
			"\nRespond again with a corrected JSON object."
		decision, err = r.askLLM(ctx, correction)
		if err != nil {
			return r.fallback(message, err.Error())
		}
		if verr = r.validate(decision); verr != nil {
			return r.fallback(message, verr.Error())
		}
	}

	decision.Source = "llm"
	return decision
}

func (r *IntentResolver) askLLM(ctx context.Context, prompt string) (*Decision, error) {
	resp, err := r.provider.Chat(ctx, &provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: "You are a tool selection assistant. Respond only with valid JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("decision request: %w", err)
	}

	var decision Decision
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &decision); err != nil {
		return nil, fmt.Errorf("parse decision JSON: %w", err)
	}
	return &decision, nil
}

// validate checks that a tool decision names a registered tool and
// carries every required parameter from the tool's schema.
func (r *IntentResolver) validate(d *Decision) error {
	if !d.UseTool {
		return nil
	}
	tool, ok := r.registry.Get(d.ToolName)
	if !ok {
		return fmt.Errorf("tool %q is not registered", d.ToolName)
	}
	for _, name := range requiredParams(tool.Parameters()) {
		if _, present := d.ToolParams[name]; !present {
			return fmt.Errorf("tool %q requires parameter %q", d.ToolName, name)
		}
	}
	return nil
}

func (r *IntentResolver) fallback(message, reason string) *Decision {
	r.log.Warn("intent resolution fell back to rules", "reason", reason)
	return ruleBasedDecision(message)
}

// requiredParams extracts the required parameter names from a JSON schema.
func requiredParams(schema map[string]any) []string {
	var names []string
	switch req := schema["required"].(type) {
	case []string:
		names = append(names, req...)
	case []any:
		for _, v := range req {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
	}
	return names
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}
