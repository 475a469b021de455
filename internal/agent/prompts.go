package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gradtrack/gradtrack/internal/session"
	"github.com/gradtrack/gradtrack/internal/tools"
)

const maxUserContextChars = 2000

const systemPromptTemplate = `You are GradTrack AI, an intelligent assistant helping students manage their US graduate school applications.

You have access to the following tools:
%s

When the user asks you to do something, think step by step:
1. First, understand what the user wants
2. Determine if you need to use a tool
3. If yes, decide which tool and what parameters
4. Use the tool result to formulate your response

IMPORTANT RULES:
- If the user wants to ADD, UPDATE, or CHECK applications, use the application_database tool
- If the user asks about DEADLINES, REQUIREMENTS, or SCHOOL INFO, use the program_research tool
- If the user shares an ESSAY or SOP, use the essay_analyzer tool
- If the user asks about TASKS, TO-DOS, or DEADLINES, use the calendar_todo tool
- Always be helpful, specific, and encouraging
- Remember context from the conversation

You are NOT a simple chatbot. You are an agentic AI that takes action and maintains state.

Current context about the user:
%s

Today's date: %s`

// buildSystemPrompt assembles the response-generation system prompt from
// tool descriptions, the user's memory and database context, and the date.
func buildSystemPrompt(registry *tools.Registry, memoryContext, appSummary string, now time.Time) string {
	var descs []string
	for _, tool := range registry.List() {
		descs = append(descs, fmt.Sprintf("- %s: %s", tool.Name(), truncate(tool.Description(), 100)))
	}

	userContext := memoryContext + "\n\nCurrent State:\n" + appSummary
	if len(userContext) > maxUserContextChars {
		userContext = userContext[:maxUserContextChars]
	}

	return fmt.Sprintf(systemPromptTemplate,
		strings.Join(descs, "\n"),
		userContext,
		now.Format("January 02, 2006"))
}

// buildDecisionPrompt assembles the tool-selection prompt: registry
// signatures, recent conversation, and the required JSON shape.
func buildDecisionPrompt(registry *tools.Registry, message string, history []session.Message) string {
	var b strings.Builder
	b.WriteString("Based on the user's message, decide if you need to use a tool.\n\n")

	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, truncate(m.Content, 200))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User message: %q\n\nAvailable tools:\n", message)
	for i, tool := range registry.List() {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, tool.Name(), tool.Description())
		if req := requiredParams(tool.Parameters()); len(req) > 0 {
			fmt.Fprintf(&b, "   Required parameters: %s\n", strings.Join(req, ", "))
		}
	}

	b.WriteString(`
Respond with a JSON object:
{
    "use_tool": true/false,
    "tool_name": "tool name if using tool, null otherwise",
    "tool_params": {parameters for the tool},
    "reasoning": "brief explanation of your decision"
}

If the user is just having a conversation or asking a general question, set use_tool to false.
If they want to perform an action or need specific information, use the appropriate tool.`)
	return b.String()
}

// buildUserContent appends tool results to the user message so the
// response model can ground its reply in them.
func buildUserContent(message string, outcomes []toolOutcome) string {
	if len(outcomes) == 0 {
		return message
	}

	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\nTool Results:\n")
	for _, out := range outcomes {
		fmt.Fprintf(&b, "Tool: %s\n", out.Tool)
		if out.Err != nil {
			fmt.Fprintf(&b, "Error: %v\n", out.Err)
		} else {
			fmt.Fprintf(&b, "Result: %s\n", truncate(out.Result, 1000))
		}
	}
	b.WriteString("\nBased on the tool results above, provide a helpful response to the user.")
	return b.String()
}

// fallbackResponse composes a deterministic reply from tool results when
// no LLM is available.
func fallbackResponse(message string, outcomes []toolOutcome) string {
	if len(outcomes) == 0 {
		return fmt.Sprintf("I understand you said: '%s'. How can I help you with your graduate school applications today?",
			truncate(message, 100))
	}

	var responses []string
	for _, out := range outcomes {
		if out.Err != nil {
			responses = append(responses, fmt.Sprintf("I'm sorry, I ran into a problem: %v.", out.Err))
			continue
		}

		var result struct {
			Success bool           `json:"success"`
			Message string         `json:"message"`
			Data    map[string]any `json:"data"`
		}
		if err := json.Unmarshal([]byte(out.Result), &result); err != nil {
			continue
		}
		if result.Message != "" {
			responses = append(responses, result.Message)
		}
		if apps, ok := result.Data["applications"].([]any); ok {
			responses = append(responses, fmt.Sprintf("You have %d applications.", len(apps)))
		}
		if deadline, ok := result.Data["deadline"].(string); ok {
			responses = append(responses, "Deadline: "+deadline)
		}
		if score, ok := result.Data["overall_score"].(float64); ok {
			responses = append(responses, fmt.Sprintf("Essay score: %d/100", int(score)))
		}
	}

	if len(responses) == 0 {
		return "I've processed your request. Is there anything else you'd like to know?"
	}
	return strings.Join(responses, " ")
}
