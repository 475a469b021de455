package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// EssayAnalyzerTool scores Statement of Purpose drafts with deterministic
// rule-based checks: structure, keyword coverage, length, clarity, and
// cliché detection. Same text always produces the same scores.
type EssayAnalyzerTool struct{}

// NewEssayAnalyzerTool creates the analyzer.
func NewEssayAnalyzerTool() *EssayAnalyzerTool {
	return &EssayAnalyzerTool{}
}

// Word count bands for the default (unspecified degree) case.
const (
	lengthMin = 500
	lengthMax = 1000
)

// Keywords expected in CS statements of purpose, by category.
var csKeywords = map[string][]string{
	"research": {"research", "investigate", "study", "explore", "analyze"},
	"technical": {"machine learning", "artificial intelligence", "algorithms",
		"systems", "data", "programming", "software", "neural networks",
		"deep learning", "computer vision", "nlp", "natural language"},
	"motivation": {"passion", "driven", "motivated", "inspired", "curious",
		"dedicated", "committed", "interested"},
	"experience": {"project", "internship", "publication", "thesis", "developed",
		"implemented", "designed", "built", "created", "led"},
	"goals": {"goal", "aim", "aspire", "plan", "future", "career", "contribute"},
	"fit": {"professor", "faculty", "lab", "group", "department", "program",
		"university", "fit", "align", "match"},
}

var keywordCategories = []string{"research", "technical", "motivation", "experience", "goals", "fit"}

// Cliché phrases that weaken an essay.
var redFlagPhrases = []string{
	"since i was a child",
	"ever since i was young",
	"from a young age",
	"i have always wanted",
	"my dream has always been",
	"i am a hard worker",
	"i am a quick learner",
	"i am a team player",
	"webster's dictionary defines",
	"in this essay, i will",
}

var strongVerbs = []string{
	"developed", "implemented", "designed", "created", "led", "managed",
	"analyzed", "evaluated", "improved", "optimized", "built", "architected",
	"discovered", "pioneered", "established", "transformed", "increased",
	"reduced", "achieved", "published", "presented", "collaborated",
}

var transitionPhrases = []string{
	"furthermore", "moreover", "additionally", "however", "nevertheless",
	"in addition", "consequently", "therefore", "as a result", "specifically",
	"for example", "for instance", "in particular",
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)
var digitPattern = regexp.MustCompile(`\d+`)

func (t *EssayAnalyzerTool) Name() string {
	return "essay_analyzer"
}

func (t *EssayAnalyzerTool) Description() string {
	return "Analyze a Statement of Purpose essay and provide feedback: structure, " +
		"word count and length, keyword coverage, clarity and readability, and " +
		"specific improvement suggestions."
}

func (t *EssayAnalyzerTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"essay_text": map[string]any{
				"type":        "string",
				"description": "The full text of the Statement of Purpose",
			},
			"target_school": map[string]any{
				"type":        "string",
				"description": "Target school name for tailored feedback",
			},
			"target_program": map[string]any{
				"type":        "string",
				"description": "Target program (e.g., 'Computer Science PhD')",
			},
			"analysis_type": map[string]any{
				"type":        "string",
				"enum":        []string{"full", "structure", "keywords", "length", "clarity"},
				"description": "Type of analysis to perform",
				"default":     "full",
			},
		},
		"required": []string{"essay_text"},
	}
}

func (t *EssayAnalyzerTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	essay := strings.TrimSpace(GetString(params, "essay_text", ""))
	school := GetString(params, "target_school", "")
	program := GetString(params, "target_program", "")
	analysisType := GetString(params, "analysis_type", "full")

	if essay == "" {
		return "", invalidArgs("missing required parameter: essay_text")
	}
	if len(essay) < 100 {
		return "", invalidArgs("essay text is too short to analyze; provide the full essay")
	}

	switch analysisType {
	case "full":
		return success("", t.fullAnalysis(essay, school, program))
	case "structure":
		return success("", analyzeStructure(essay))
	case "keywords":
		return success("", analyzeKeywords(essay))
	case "length":
		return success("", analyzeLength(essay))
	case "clarity":
		return success("", analyzeClarity(essay))
	default:
		return "", invalidArgs("unknown analysis_type: %s", analysisType)
	}
}

type structureAnalysis struct {
	Score              int      `json:"score"`
	ParagraphCount     int      `json:"paragraph_count"`
	SentenceCount      int      `json:"sentence_count"`
	AvgParagraphLength int      `json:"avg_paragraph_length"`
	HasClearIntro      bool     `json:"has_clear_intro"`
	HasClearConclusion bool     `json:"has_clear_conclusion"`
	TransitionCount    int      `json:"transition_count"`
	Feedback           []string `json:"feedback"`
}

type keywordAnalysis struct {
	Score             int                 `json:"score"`
	CategoryScores    map[string]int      `json:"category_scores"`
	FoundKeywords     map[string][]string `json:"found_keywords"`
	MissingCategories []string            `json:"missing_categories"`
	Feedback          []string            `json:"feedback"`
}

type lengthAnalysis struct {
	Score          int      `json:"score"`
	WordCount      int      `json:"word_count"`
	CharacterCount int      `json:"character_count"`
	Status         string   `json:"status"`
	IdealRange     string   `json:"ideal_range"`
	Feedback       []string `json:"feedback"`
}

type clarityAnalysis struct {
	Score                  int      `json:"score"`
	AvgSentenceLength      float64  `json:"avg_sentence_length"`
	LongSentences          int      `json:"long_sentences"`
	PassiveVoiceIndicators int      `json:"passive_voice_indicators"`
	Feedback               []string `json:"feedback"`
}

type redFlagAnalysis struct {
	Score    int      `json:"score"`
	Found    []string `json:"found"`
	Count    int      `json:"count"`
	Feedback []string `json:"feedback"`
}

type fullAnalysis struct {
	OverallScore   int                `json:"overall_score"`
	WordCount      int                `json:"word_count"`
	Structure      *structureAnalysis `json:"structure"`
	Keywords       *keywordAnalysis   `json:"keywords"`
	LengthAnalysis *lengthAnalysis    `json:"length_analysis"`
	Clarity        *clarityAnalysis   `json:"clarity"`
	RedFlags       *redFlagAnalysis   `json:"red_flags"`
	StrongPoints   []string           `json:"strong_points"`
	Suggestions    []string           `json:"suggestions"`
	TargetSchool   string             `json:"target_school,omitempty"`
	TargetProgram  string             `json:"target_program,omitempty"`
}

func (t *EssayAnalyzerTool) fullAnalysis(essay, school, program string) *fullAnalysis {
	structure := analyzeStructure(essay)
	keywords := analyzeKeywords(essay)
	length := analyzeLength(essay)
	clarity := analyzeClarity(essay)
	redFlags := checkRedFlags(essay)

	weighted := float64(structure.Score)*0.25 +
		float64(keywords.Score)*0.20 +
		float64(length.Score)*0.15 +
		float64(clarity.Score)*0.25 +
		float64(redFlags.Score)*0.15

	return &fullAnalysis{
		OverallScore:   int(weighted),
		WordCount:      length.WordCount,
		Structure:      structure,
		Keywords:       keywords,
		LengthAnalysis: length,
		Clarity:        clarity,
		RedFlags:       redFlags,
		StrongPoints:   identifyStrongPoints(essay),
		Suggestions:    generateSuggestions(structure, keywords, length, clarity, redFlags, school, program),
		TargetSchool:   school,
		TargetProgram:  program,
	}
}

func splitParagraphs(essay string) []string {
	var paragraphs []string
	for _, p := range strings.Split(essay, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func splitSentences(essay string) []string {
	var sentences []string
	for _, s := range sentenceSplit.Split(essay, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func analyzeStructure(essay string) *structureAnalysis {
	paragraphs := splitParagraphs(essay)
	sentences := splitSentences(essay)

	hasIntro := len(paragraphs) > 0 && len(strings.Fields(paragraphs[0])) >= 50
	hasConclusion := len(paragraphs) > 2 && len(strings.Fields(paragraphs[len(paragraphs)-1])) >= 40

	totalWords := 0
	for _, p := range paragraphs {
		totalWords += len(strings.Fields(p))
	}
	avgParaLength := 0
	if len(paragraphs) > 0 {
		avgParaLength = totalWords / len(paragraphs)
	}

	lower := strings.ToLower(essay)
	transitionCount := 0
	for _, t := range transitionPhrases {
		if strings.Contains(lower, t) {
			transitionCount++
		}
	}

	score := 0
	var feedback []string

	if hasIntro {
		score += 25
		feedback = append(feedback, "Strong opening paragraph")
	} else {
		feedback = append(feedback, "Consider strengthening your introduction")
	}
	if hasConclusion {
		score += 25
		feedback = append(feedback, "Clear conclusion")
	} else {
		feedback = append(feedback, "Consider adding a stronger conclusion")
	}
	if len(paragraphs) >= 3 && len(paragraphs) <= 7 {
		score += 25
		feedback = append(feedback, fmt.Sprintf("Good paragraph count (%d paragraphs)", len(paragraphs)))
	} else {
		feedback = append(feedback, fmt.Sprintf("Consider restructuring (%d paragraphs - aim for 4-6)", len(paragraphs)))
	}
	if transitionCount >= 3 {
		score += 25
		feedback = append(feedback, fmt.Sprintf("Good use of transitions (%d found)", transitionCount))
	} else {
		feedback = append(feedback, "Consider adding more transitional phrases")
	}

	return &structureAnalysis{
		Score:              score,
		ParagraphCount:     len(paragraphs),
		SentenceCount:      len(sentences),
		AvgParagraphLength: avgParaLength,
		HasClearIntro:      hasIntro,
		HasClearConclusion: hasConclusion,
		TransitionCount:    transitionCount,
		Feedback:           feedback,
	}
}

func analyzeKeywords(essay string) *keywordAnalysis {
	lower := strings.ToLower(essay)

	categoryScores := map[string]int{}
	foundKeywords := map[string][]string{}
	var missing []string

	for _, category := range keywordCategories {
		var found []string
		for _, kw := range csKeywords[category] {
			if strings.Contains(lower, kw) {
				found = append(found, kw)
			}
		}
		categoryScores[category] = len(found)
		foundKeywords[category] = found
		if len(found) == 0 {
			missing = append(missing, category)
		}
	}

	covered := len(keywordCategories) - len(missing)
	score := covered * 100 / len(keywordCategories)

	var feedback []string
	switch {
	case covered >= 5:
		feedback = append(feedback, "Excellent keyword coverage across categories")
	case covered >= 3:
		feedback = append(feedback, "Good keyword coverage")
	default:
		feedback = append(feedback, "Consider adding more relevant keywords")
	}
	if len(missing) > 0 {
		feedback = append(feedback, "Missing keywords in: "+strings.Join(missing, ", "))
	}

	return &keywordAnalysis{
		Score:             score,
		CategoryScores:    categoryScores,
		FoundKeywords:     foundKeywords,
		MissingCategories: missing,
		Feedback:          feedback,
	}
}

func analyzeLength(essay string) *lengthAnalysis {
	wordCount := len(strings.Fields(essay))

	var status, feedback string
	var score int
	switch {
	case wordCount < lengthMin:
		status = "too_short"
		feedback = fmt.Sprintf("Essay is short (%d words). Aim for %d-%d words.", wordCount, lengthMin, lengthMax)
		score = wordCount * 70 / lengthMin
	case wordCount > lengthMax:
		status = "too_long"
		feedback = fmt.Sprintf("Essay is long (%d words). Consider trimming to %d words.", wordCount, lengthMax)
		score = 100 - (wordCount-lengthMax)*50/lengthMax
		if score < 50 {
			score = 50
		}
	default:
		status = "good"
		feedback = fmt.Sprintf("Good length (%d words)", wordCount)
		score = 100
	}
	if score > 100 {
		score = 100
	}

	return &lengthAnalysis{
		Score:          score,
		WordCount:      wordCount,
		CharacterCount: len(essay),
		Status:         status,
		IdealRange:     fmt.Sprintf("%d-%d words", lengthMin, lengthMax),
		Feedback:       []string{feedback},
	}
}

var passiveIndicators = []string{"was", "were", "been", "being", "is being", "are being",
	"has been", "have been", "had been"}

func analyzeClarity(essay string) *clarityAnalysis {
	sentences := splitSentences(essay)

	totalWords := 0
	longSentences := 0
	for _, s := range sentences {
		n := len(strings.Fields(s))
		totalWords += n
		if n > 30 {
			longSentences++
		}
	}
	avgLen := 0.0
	if len(sentences) > 0 {
		avgLen = float64(totalWords) / float64(len(sentences))
	}

	lower := strings.ToLower(essay)
	passiveCount := 0
	for _, p := range passiveIndicators {
		passiveCount += strings.Count(lower, p)
	}

	score := 100
	var feedback []string

	if avgLen < 25 {
		feedback = append(feedback, fmt.Sprintf("Good sentence length (avg %.1f words)", avgLen))
	} else {
		score -= 15
		feedback = append(feedback, fmt.Sprintf("Some sentences are long (avg %.1f words)", avgLen))
	}

	if longSentences > 3 {
		score -= 10
		feedback = append(feedback, fmt.Sprintf("%d sentences exceed 30 words", longSentences))
	}

	passiveRatio := 0.0
	if len(sentences) > 0 {
		passiveRatio = float64(passiveCount) / float64(len(sentences))
	}
	if passiveRatio > 0.3 {
		score -= 10
		feedback = append(feedback, "Consider using more active voice")
	} else {
		feedback = append(feedback, "Good use of active voice")
	}

	if score < 0 {
		score = 0
	}
	return &clarityAnalysis{
		Score:                  score,
		AvgSentenceLength:      avgLen,
		LongSentences:          longSentences,
		PassiveVoiceIndicators: passiveCount,
		Feedback:               feedback,
	}
}

func checkRedFlags(essay string) *redFlagAnalysis {
	lower := strings.ToLower(essay)

	var found []string
	for _, phrase := range redFlagPhrases {
		if strings.Contains(lower, phrase) {
			found = append(found, phrase)
		}
	}

	score := 100 - len(found)*15
	if score < 0 {
		score = 0
	}

	var feedback []string
	if len(found) > 0 {
		feedback = append(feedback, "Found cliché phrases to reconsider:")
		for _, f := range found {
			feedback = append(feedback, "  - "+f)
		}
	} else {
		feedback = append(feedback, "No common clichés detected")
	}

	return &redFlagAnalysis{Score: score, Found: found, Count: len(found), Feedback: feedback}
}

func identifyStrongPoints(essay string) []string {
	lower := strings.ToLower(essay)
	var points []string

	verbCount := 0
	for _, v := range strongVerbs {
		if strings.Contains(lower, v) {
			verbCount++
		}
	}
	if verbCount >= 5 {
		points = append(points, fmt.Sprintf("Good use of action verbs (%d found)", verbCount))
	}

	if len(digitPattern.FindAllString(essay, -1)) >= 3 {
		points = append(points, "Includes specific quantitative details")
	}
	if strings.Contains(lower, "professor") || strings.Contains(lower, "dr.") || strings.Contains(lower, "faculty") {
		points = append(points, "Mentions specific faculty or professors")
	}
	if strings.Contains(lower, "research") && (strings.Contains(lower, "project") || strings.Contains(lower, "paper")) {
		points = append(points, "Discusses research experience")
	}
	if strings.Contains(lower, "goal") || strings.Contains(lower, "aim") || strings.Contains(lower, "future") {
		points = append(points, "Articulates future goals")
	}
	return points
}

func generateSuggestions(structure *structureAnalysis, keywords *keywordAnalysis,
	length *lengthAnalysis, clarity *clarityAnalysis, redFlags *redFlagAnalysis,
	school, program string) []string {

	var suggestions []string

	if structure.Score < 75 {
		suggestions = append(suggestions, "Strengthen your essay structure with a clear introduction, body paragraphs, and conclusion")
	}
	for i, cat := range keywords.MissingCategories {
		if i >= 2 {
			break
		}
		suggestions = append(suggestions, "Add content related to "+cat)
	}
	switch length.Status {
	case "too_short":
		suggestions = append(suggestions, "Expand on your experiences and motivations with specific examples")
	case "too_long":
		suggestions = append(suggestions, "Remove redundant phrases and focus on your strongest points")
	}
	if clarity.Score < 80 {
		suggestions = append(suggestions, "Shorten long sentences for better readability")
	}
	if redFlags.Count > 0 {
		suggestions = append(suggestions, "Replace cliché phrases with specific, personal statements")
	}
	if school != "" {
		suggestions = append(suggestions, fmt.Sprintf("Mention why %s specifically fits your goals", school))
	}
	if program != "" {
		suggestions = append(suggestions, fmt.Sprintf("Reference specific aspects of the %s program", program))
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}
