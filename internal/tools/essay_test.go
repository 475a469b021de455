package tools

import (
	"context"
	"strings"
	"testing"
)

const sampleEssay = `My interest in machine learning began during my undergraduate research project on neural networks for medical imaging. Working in Professor Lin's lab, I developed and implemented a segmentation pipeline that improved accuracy by 12 percent over the baseline. That experience taught me how to analyze a problem carefully and how much I enjoy the slow, iterative work of research.

Furthermore, my internship at a healthcare startup showed me how algorithms behave outside the lab. I designed data pipelines, built evaluation tooling, and presented results to clinicians. For example, we discovered that our model failed on scans from older machines, which led me to study domain adaptation in depth.

Additionally, I led a team of three students on a thesis project applying deep learning to protein structure data. We published our results at a regional workshop, and I presented the paper myself. The project convinced me that I want a career in research.

Therefore, my goal is to pursue graduate study in computer science with a focus on machine learning for scientific applications. The faculty in your department work on exactly the problems that motivate me, and I believe the program is a strong fit for my interests and my future plans as a researcher.`

func TestEssayAnalyzerDeterministic(t *testing.T) {
	tool := NewEssayAnalyzerTool()
	ctx := context.Background()

	first, err := tool.Execute(ctx, map[string]any{"essay_text": sampleEssay})
	if err != nil {
		t.Fatalf("first analysis: %v", err)
	}
	second, err := tool.Execute(ctx, map[string]any{"essay_text": sampleEssay})
	if err != nil {
		t.Fatalf("second analysis: %v", err)
	}
	if first != second {
		t.Error("same essay should produce identical analysis")
	}

	data := dataMap(t, decodeResult(t, first))
	score := data["overall_score"].(float64)
	if score <= 0 || score > 100 {
		t.Errorf("overall_score = %v, want within (0, 100]", score)
	}
	structure := data["structure"].(map[string]any)
	if structure["paragraph_count"].(float64) != 4 {
		t.Errorf("paragraph_count = %v, want 4", structure["paragraph_count"])
	}
	if structure["transition_count"].(float64) < 3 {
		t.Errorf("transition_count = %v, want >= 3", structure["transition_count"])
	}
}

func TestEssayAnalyzerTooShort(t *testing.T) {
	tool := NewEssayAnalyzerTool()
	ctx := context.Background()

	_, err := tool.Execute(ctx, map[string]any{"essay_text": "I want to study CS."})
	te := assertToolError(t, err, KindInvalidArguments)
	if !strings.Contains(te.Message, "too short") {
		t.Errorf("message = %q", te.Message)
	}

	_, err = tool.Execute(ctx, map[string]any{"essay_text": "   "})
	assertToolError(t, err, KindInvalidArguments)
}

func TestEssayAnalyzerRedFlags(t *testing.T) {
	tool := NewEssayAnalyzerTool()

	essay := "Since I was a child, computers fascinated me. I am a hard worker and I know " +
		"that graduate school demands dedication. My research experience includes several projects."
	raw, err := tool.Execute(context.Background(), map[string]any{"essay_text": essay})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	redFlags := dataMap(t, decodeResult(t, raw))["red_flags"].(map[string]any)
	if redFlags["count"].(float64) != 2 {
		t.Fatalf("red flag count = %v, want 2", redFlags["count"])
	}
	if redFlags["score"].(float64) != 70 {
		t.Errorf("red flag score = %v, want 70", redFlags["score"])
	}
}

func TestEssayAnalyzerLengthBands(t *testing.T) {
	tool := NewEssayAnalyzerTool()
	ctx := context.Background()

	analyze := func(words int) map[string]any {
		t.Helper()
		essay := strings.TrimSpace(strings.Repeat("word ", words))
		raw, err := tool.Execute(ctx, map[string]any{"essay_text": essay, "analysis_type": "length"})
		if err != nil {
			t.Fatalf("length analysis (%d words): %v", words, err)
		}
		return dataMap(t, decodeResult(t, raw))
	}

	short := analyze(200)
	if short["status"] != "too_short" {
		t.Errorf("200 words: status = %v", short["status"])
	}
	if short["score"].(float64) != 28 {
		t.Errorf("200 words: score = %v, want 28", short["score"])
	}

	good := analyze(600)
	if good["status"] != "good" || good["score"].(float64) != 100 {
		t.Errorf("600 words: status = %v, score = %v", good["status"], good["score"])
	}

	long := analyze(1200)
	if long["status"] != "too_long" {
		t.Errorf("1200 words: status = %v", long["status"])
	}
	if long["score"].(float64) != 90 {
		t.Errorf("1200 words: score = %v, want 90", long["score"])
	}
}

func TestEssayAnalyzerSuggestionsIncludeTargets(t *testing.T) {
	tool := NewEssayAnalyzerTool()

	raw, err := tool.Execute(context.Background(), map[string]any{
		"essay_text":     sampleEssay,
		"target_school":  "MIT",
		"target_program": "Computer Science PhD",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	data := dataMap(t, decodeResult(t, raw))
	if data["target_school"] != "MIT" {
		t.Errorf("target_school = %v", data["target_school"])
	}
	suggestions := data["suggestions"].([]any)
	if len(suggestions) > 5 {
		t.Errorf("suggestions = %d entries, want at most 5", len(suggestions))
	}
}

func TestEssayAnalyzerUnknownAnalysisType(t *testing.T) {
	tool := NewEssayAnalyzerTool()

	_, err := tool.Execute(context.Background(), map[string]any{
		"essay_text":    sampleEssay,
		"analysis_type": "vibes",
	})
	assertToolError(t, err, KindInvalidArguments)
}
