package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gradtrack/gradtrack/internal/store"
)

// ProgramRecommenderTool suggests additional programs to apply to, based on
// the user's existing applications and profile. Recommendations come from
// static safety/match/reach tables; the rule path filters out schools
// already applied to and sorts by rank.
type ProgramRecommenderTool struct {
	store *store.Store
}

// NewProgramRecommenderTool creates the recommender backed by the given store.
func NewProgramRecommenderTool(s *store.Store) *ProgramRecommenderTool {
	return &ProgramRecommenderTool{store: s}
}

type recommendation struct {
	School         string   `json:"school"`
	Program        string   `json:"program"`
	Degrees        []string `json:"degree"`
	Rank           int      `json:"rank"`
	AcceptanceRate float64  `json:"acceptance_rate"`
	Tier           string   `json:"tier"`
	Reasoning      string   `json:"reasoning,omitempty"`
	Highlights     []string `json:"highlights,omitempty"`
}

var recommendationTiers = map[string][]recommendation{
	"Safety": {
		{School: "Arizona State University", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 45, AcceptanceRate: 0.45},
		{School: "University of Massachusetts Amherst", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 25, AcceptanceRate: 0.40},
		{School: "Northeastern University", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 35, AcceptanceRate: 0.42},
		{School: "Rutgers University", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 40, AcceptanceRate: 0.43},
		{School: "Stony Brook University", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 38, AcceptanceRate: 0.44},
	},
	"Match": {
		{School: "University of Southern California", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 20, AcceptanceRate: 0.25},
		{School: "University of Maryland", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 16, AcceptanceRate: 0.28},
		{School: "University of Wisconsin-Madison", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 18, AcceptanceRate: 0.27},
		{School: "UT Austin", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 10, AcceptanceRate: 0.20},
		{School: "University of Washington", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 6, AcceptanceRate: 0.15},
		{School: "Georgia Tech", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 8, AcceptanceRate: 0.18},
		{School: "UIUC", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 5, AcceptanceRate: 0.14},
	},
	"Reach": {
		{School: "MIT", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 1, AcceptanceRate: 0.08},
		{School: "Stanford", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 1, AcceptanceRate: 0.07},
		{School: "Carnegie Mellon", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 1, AcceptanceRate: 0.09},
		{School: "UC Berkeley", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 1, AcceptanceRate: 0.08},
		{School: "Princeton", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 7, AcceptanceRate: 0.10},
		{School: "Cornell", Program: "Computer Science", Degrees: []string{"MS", "PhD"}, Rank: 6, AcceptanceRate: 0.12},
		{School: "Caltech", Program: "Computer Science", Degrees: []string{"PhD"}, Rank: 11, AcceptanceRate: 0.11},
	},
}

// Heuristic school sets for tier analysis of existing applications.
var reachSchoolNames = []string{"mit", "stanford", "carnegie mellon", "berkeley", "cmu", "caltech", "princeton"}
var matchSchoolNames = []string{"georgia tech", "usc", "ut austin", "washington", "uiuc", "wisconsin", "maryland"}

func (t *ProgramRecommenderTool) Name() string {
	return "program_recommender"
}

func (t *ProgramRecommenderTool) Description() string {
	return "Get graduate program recommendations based on your profile and existing " +
		"applications: personalized suggestions, portfolio analysis " +
		"(safety/match/reach balance), and programs similar to a given school."
}

func (t *ProgramRecommenderTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"get_recommendations", "analyze_profile", "find_similar"},
				"description": "Action to perform",
			},
			"num_recommendations": map[string]any{
				"type":        "integer",
				"description": "Number of programs to recommend",
				"default":     5,
				"minimum":     1,
				"maximum":     20,
			},
			"focus": map[string]any{
				"type":        "string",
				"enum":        []string{"safety", "match", "reach", "all"},
				"description": "Type of schools to recommend",
				"default":     "all",
			},
			"similar_to_school": map[string]any{
				"type":        "string",
				"description": "Find programs similar to this school (for find_similar)",
			},
			"degree_type": map[string]any{
				"type":        "string",
				"enum":        []string{"MS", "PhD", "MBA", "Any"},
				"description": "Filter by degree type",
				"default":     "Any",
			},
		},
		"required": []string{"action"},
	}
}

func (t *ProgramRecommenderTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	action := GetString(params, "action", "")
	switch action {
	case "get_recommendations":
		return t.getRecommendations(ctx, params)
	case "analyze_profile":
		return t.analyzeProfile(ctx)
	case "find_similar":
		return t.findSimilar(ctx, params)
	case "":
		return "", invalidArgs("missing required parameter: action")
	default:
		return "", invalidArgs("unknown action: %s", action)
	}
}

func (t *ProgramRecommenderTool) getRecommendations(ctx context.Context, params map[string]any) (string, error) {
	numRecs := GetInt(params, "num_recommendations", 5)
	focus := GetString(params, "focus", "all")
	degreeType := GetString(params, "degree_type", "Any")

	apps, err := t.store.ListApplications(ctx)
	if err != nil {
		return "", fmt.Errorf("list applications: %w", err)
	}

	profile, err := t.store.GetProfile(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("get profile: %w", err)
	}

	applied := map[string]bool{}
	for _, app := range apps {
		applied[strings.ToLower(app.SchoolName)] = true
	}

	var candidates []recommendation
	if focus == "all" {
		for _, tier := range []string{"Safety", "Match", "Reach"} {
			for _, rec := range recommendationTiers[tier] {
				rec.Tier = tier
				candidates = append(candidates, rec)
			}
		}
	} else {
		tier := map[string]string{"safety": "Safety", "match": "Match", "reach": "Reach"}[focus]
		for _, rec := range recommendationTiers[tier] {
			rec.Tier = tier
			candidates = append(candidates, rec)
		}
	}

	filtered := candidates[:0]
	for _, rec := range candidates {
		if applied[strings.ToLower(rec.School)] {
			continue
		}
		if degreeType != "Any" && !containsString(rec.Degrees, degreeType) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Rank < filtered[j].Rank })
	if len(filtered) > numRecs {
		filtered = filtered[:numRecs]
	}

	for i := range filtered {
		filtered[i].Reasoning = fmt.Sprintf("Good %s option with strong %s program",
			strings.ToLower(filtered[i].Tier), filtered[i].Program)
		filtered[i].Highlights = []string{
			fmt.Sprintf("Ranked #%d in Computer Science", filtered[i].Rank),
			fmt.Sprintf("Acceptance rate: ~%d%%", int(filtered[i].AcceptanceRate*100)),
		}
	}

	profileComplete := profile != nil && (profile.GPA > 0 || profile.ResearchInterests != "")
	return success(
		fmt.Sprintf("Generated %d program recommendations", len(filtered)),
		map[string]any{
			"recommendations": filtered,
			"based_on": map[string]any{
				"existing_applications": len(apps),
				"profile_complete":      profileComplete,
			},
		},
	)
}

func (t *ProgramRecommenderTool) analyzeProfile(ctx context.Context) (string, error) {
	apps, err := t.store.ListApplications(ctx)
	if err != nil {
		return "", fmt.Errorf("list applications: %w", err)
	}
	profile, err := t.store.GetProfile(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("get profile: %w", err)
	}

	byStatus := map[string]int{}
	for _, app := range apps {
		byStatus[app.Status]++
	}

	tiers := analyzeSchoolTiers(apps)

	var insights []string
	total := len(apps)
	switch {
	case total == 0:
		insights = append(insights, "You haven't added any applications yet. Start by adding some programs you're interested in!")
	case total < 5:
		insights = append(insights, fmt.Sprintf("You have %d applications. Consider applying to 8-12 programs for a balanced portfolio.", total))
	case total > 15:
		insights = append(insights, fmt.Sprintf("You have %d applications. That's quite a lot! Make sure you can dedicate enough time to each application.", total))
	}

	if tiers["reach"] > tiers["safety"]+tiers["match"] {
		insights = append(insights, "Your list is reach-heavy. Consider adding more safety and match schools.")
	} else if total > 0 && tiers["safety"] == 0 {
		insights = append(insights, "You don't have any safety schools. It's wise to include some safer options.")
	}

	hasGPA := profile != nil && profile.GPA > 0
	hasGRE := profile != nil && profile.GREVerbal > 0 && profile.GREQuant > 0
	hasInterests := profile != nil && profile.ResearchInterests != ""
	if !hasGPA {
		insights = append(insights, "Add your GPA to get more accurate recommendations.")
	}
	if !hasInterests {
		insights = append(insights, "Add your research interests to find programs that match your goals.")
	}

	return success("", map[string]any{
		"total_applications": total,
		"by_status":          byStatus,
		"school_tiers":       tiers,
		"insights":           insights,
		"profile_completeness": map[string]bool{
			"gpa":                hasGPA,
			"gre":                hasGRE,
			"research_interests": hasInterests,
		},
	})
}

func (t *ProgramRecommenderTool) findSimilar(ctx context.Context, params map[string]any) (string, error) {
	similarTo := GetString(params, "similar_to_school", "")
	if similarTo == "" {
		return "", invalidArgs("missing required parameter: similar_to_school")
	}
	numRecs := GetInt(params, "num_recommendations", 5)

	var all []recommendation
	for _, tier := range []string{"Safety", "Match", "Reach"} {
		for _, rec := range recommendationTiers[tier] {
			rec.Tier = tier
			all = append(all, rec)
		}
	}

	var target *recommendation
	lower := strings.ToLower(similarTo)
	for i := range all {
		if strings.Contains(strings.ToLower(all[i].School), lower) {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return "", notFound("school %q not found in database", similarTo)
	}

	var similar []recommendation
	for _, rec := range all {
		if rec.School == target.School {
			continue
		}
		if rec.Tier == target.Tier || abs(rec.Rank-target.Rank) <= 10 {
			similar = append(similar, rec)
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return abs(similar[i].Rank-target.Rank) < abs(similar[j].Rank-target.Rank)
	})
	if len(similar) > numRecs {
		similar = similar[:numRecs]
	}

	return success(
		fmt.Sprintf("Found %d programs similar to %s", len(similar), target.School),
		map[string]any{
			"similar_to":      target,
			"recommendations": similar,
		},
	)
}

func analyzeSchoolTiers(apps []store.Application) map[string]int {
	tiers := map[string]int{"safety": 0, "match": 0, "reach": 0, "unknown": 0}
	for _, app := range apps {
		lower := strings.ToLower(app.SchoolName)
		switch {
		case containsAny(lower, reachSchoolNames):
			tiers["reach"]++
		case containsAny(lower, matchSchoolNames):
			tiers["match"]++
		case lower != "":
			tiers["safety"]++
		default:
			tiers["unknown"]++
		}
	}
	return tiers
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
