package agent

import "testing"

func TestRuleBasedAddApplicationWithDegree(t *testing.T) {
	d := ruleBasedDecision("Add MIT EECS PhD to my list")

	if !d.UseTool || d.ToolName != "application_database" {
		t.Fatalf("decision = %+v", d)
	}
	if d.Source != "fallback" {
		t.Errorf("source = %q, want fallback", d.Source)
	}
	if d.ToolParams["action"] != "create" {
		t.Errorf("action = %v", d.ToolParams["action"])
	}
	if d.ToolParams["school_name"] != "MIT" {
		t.Errorf("school_name = %v", d.ToolParams["school_name"])
	}
	if d.ToolParams["program_name"] != "EECS" {
		t.Errorf("program_name = %v", d.ToolParams["program_name"])
	}
	if d.ToolParams["degree_type"] != "PhD" {
		t.Errorf("degree_type = %v", d.ToolParams["degree_type"])
	}
}

func TestRuleBasedAddTwoWordProgram(t *testing.T) {
	d := ruleBasedDecision("Please add Stanford Computer Science to my list")

	if d.ToolName != "application_database" || d.ToolParams["action"] != "create" {
		t.Fatalf("decision = %+v", d)
	}
	if d.ToolParams["school_name"] != "Stanford" {
		t.Errorf("school_name = %v", d.ToolParams["school_name"])
	}
	if d.ToolParams["program_name"] != "Computer Science" {
		t.Errorf("program_name = %v", d.ToolParams["program_name"])
	}
	if d.ToolParams["degree_type"] != "MS" {
		t.Errorf("degree_type = %v", d.ToolParams["degree_type"])
	}
}

func TestRuleBasedAddWithoutSpan(t *testing.T) {
	d := ruleBasedDecision("add something for me")

	if d.ToolName != "application_database" || d.ToolParams["action"] != "create" {
		t.Fatalf("decision = %+v", d)
	}
	if _, present := d.ToolParams["school_name"]; present {
		t.Error("no capitalized span, school_name should be absent")
	}
}

func TestRuleBasedResearch(t *testing.T) {
	d := ruleBasedDecision("What is the application deadline for Stanford?")

	if d.ToolName != "program_research" {
		t.Fatalf("tool = %q", d.ToolName)
	}
	if d.ToolParams["school"] != "stanford" {
		t.Errorf("school = %v", d.ToolParams["school"])
	}
	if d.ToolParams["program"] != "Computer Science" {
		t.Errorf("program = %v", d.ToolParams["program"])
	}
}

func TestRuleBasedEssay(t *testing.T) {
	msg := "Can you review my statement of purpose?"
	d := ruleBasedDecision(msg)

	if d.ToolName != "essay_analyzer" {
		t.Fatalf("tool = %q", d.ToolName)
	}
	if d.ToolParams["essay_text"] != msg {
		t.Errorf("essay_text = %v", d.ToolParams["essay_text"])
	}
}

func TestRuleBasedTasks(t *testing.T) {
	d := ruleBasedDecision("What do I have due this week? Show me upcoming tasks.")

	if d.ToolName != "calendar_todo" {
		t.Fatalf("tool = %q", d.ToolName)
	}
	if d.ToolParams["action"] != "upcoming" {
		t.Errorf("action = %v", d.ToolParams["action"])
	}
}

func TestRuleBasedNoTool(t *testing.T) {
	d := ruleBasedDecision("Hello! How are you today?")

	if d.UseTool {
		t.Fatalf("plain greeting should not use a tool: %+v", d)
	}
	if d.Source != "fallback" {
		t.Errorf("source = %q", d.Source)
	}
}
