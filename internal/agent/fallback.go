package agent

import (
	"regexp"
	"strings"
)

// addPattern captures "Add <School> <Program> to my list": a run of
// capitalized words after "add", with the final capitalized word(s)
// treated as the program name.
var addPattern = regexp.MustCompile(`\b(?i:add)\s+((?:[A-Z][A-Za-z&.-]*\s+)+)(?i:to my list)`)

// ruleBasedDecision is the keyword fallback used when no LLM decision
// is available. The first matching rule wins.
func ruleBasedDecision(message string) *Decision {
	lower := strings.ToLower(message)

	appKeywords := []string{"add", "create", "new application", "track", "update", "status",
		"my applications", "delete", "remove", "list applications"}
	if matchesAny(lower, appKeywords) {
		action := "read"
		switch {
		case matchesAny(lower, []string{"add", "create", "new"}):
			action = "create"
		case matchesAny(lower, []string{"update", "change", "move"}):
			action = "update"
		case matchesAny(lower, []string{"delete", "remove"}):
			action = "delete"
		}

		params := map[string]any{"action": action}
		if action == "create" {
			if school, program, degree, ok := extractSchoolProgram(message); ok {
				params["school_name"] = school
				params["program_name"] = program
				params["degree_type"] = degree
			}
		}
		return &Decision{
			UseTool:    true,
			ToolName:   "application_database",
			ToolParams: params,
			Reasoning:  "User wants to manage applications",
			Source:     "fallback",
		}
	}

	researchKeywords := []string{"deadline", "requirement", "gre", "toefl", "tuition",
		"ranking", "faculty", "what does", "tell me about"}
	if matchesAny(lower, researchKeywords) {
		// Task phrasing like "what deadlines are due" belongs to calendar_todo.
		if !matchesAny(lower, []string{"task", "to-do", "todo", "due", "remind", "upcoming"}) {
			schools := []string{"mit", "stanford", "berkeley", "cmu", "carnegie mellon", "georgia tech"}
			school := "unknown"
			for _, s := range schools {
				if strings.Contains(lower, s) {
					school = s
					break
				}
			}
			return &Decision{
				UseTool:  true,
				ToolName: "program_research",
				ToolParams: map[string]any{
					"school":    school,
					"program":   "Computer Science",
					"info_type": "all",
				},
				Reasoning: "User wants program information",
				Source:    "fallback",
			}
		}
	}

	essayKeywords := []string{"essay", "sop", "statement of purpose", "analyze", "review my"}
	if matchesAny(lower, essayKeywords) {
		return &Decision{
			UseTool:  true,
			ToolName: "essay_analyzer",
			ToolParams: map[string]any{
				"essay_text":    message,
				"analysis_type": "full",
			},
			Reasoning: "User wants essay feedback",
			Source:    "fallback",
		}
	}

	taskKeywords := []string{"task", "to-do", "todo", "deadline", "due", "remind", "upcoming"}
	if matchesAny(lower, taskKeywords) {
		action := "list_tasks"
		switch {
		case matchesAny(lower, []string{"upcoming", "due soon", "this week"}):
			action = "upcoming"
		case matchesAny(lower, []string{"create", "add", "new task"}):
			action = "create_task"
		case matchesAny(lower, []string{"complete", "done", "finish"}):
			action = "complete_task"
		}
		return &Decision{
			UseTool:    true,
			ToolName:   "calendar_todo",
			ToolParams: map[string]any{"action": action},
			Reasoning:  "User wants to manage tasks",
			Source:     "fallback",
		}
	}

	return &Decision{
		UseTool:   false,
		Reasoning: "General conversation - no tool needed",
		Source:    "fallback",
	}
}

// extractSchoolProgram pulls school, program, and degree out of an
// "Add MIT Computer Science to my list" style message. A trailing degree
// word (PhD, MS, MBA) sets degree_type; otherwise the last one or two
// capitalized words become the program and the rest the school.
func extractSchoolProgram(message string) (school, program, degree string, ok bool) {
	m := addPattern.FindStringSubmatch(message)
	if m == nil {
		return "", "", "", false
	}
	words := strings.Fields(m[1])

	degree = "MS"
	if len(words) > 0 {
		switch strings.ToLower(words[len(words)-1]) {
		case "phd":
			degree = "PhD"
			words = words[:len(words)-1]
		case "ms":
			degree = "MS"
			words = words[:len(words)-1]
		case "mba":
			degree = "MBA"
			words = words[:len(words)-1]
		}
	}
	if len(words) < 2 {
		return "", "", "", false
	}

	// "Computer Science", "Data Science" etc. are two-word programs.
	split := len(words) - 1
	if len(words) >= 3 && isProgramQualifier(words[len(words)-2]) {
		split = len(words) - 2
	}
	school = strings.Join(words[:split], " ")
	program = strings.Join(words[split:], " ")
	return school, program, degree, school != "" && program != ""
}

func isProgramQualifier(word string) bool {
	switch strings.ToLower(word) {
	case "computer", "data", "electrical", "mechanical", "information":
		return true
	}
	return false
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
