package tools

import (
	"context"
	"sort"
	"strings"
)

// ProgramResearchTool answers questions about graduate programs from a
// curated table of schools. Unknown schools come back as a found=false
// result with the known school list, not an error, so the agent can
// still give general guidance.
type ProgramResearchTool struct{}

// NewProgramResearchTool creates the research tool.
func NewProgramResearchTool() *ProgramResearchTool {
	return &ProgramResearchTool{}
}

type programRequirements struct {
	GRERequired     bool     `json:"gre_required"`
	GRERecommended  bool     `json:"gre_recommended"`
	TOEFLMinimum    int      `json:"toefl_minimum"`
	IELTSMinimum    float64  `json:"ielts_minimum"`
	GPAMinimum      *float64 `json:"gpa_minimum"`
	GPARecommended  float64  `json:"gpa_recommended"`
	LettersRequired int      `json:"letters_required"`
}

type programFunding struct {
	TuitionPerYear    int      `json:"tuition_per_year"`
	TuitionOutOfState int      `json:"tuition_out_of_state,omitempty"`
	FundingAvailable  bool     `json:"funding_available"`
	FundingTypes      []string `json:"funding_types"`
	FundingCoverage   string   `json:"funding_coverage"`
	StipendAmount     int      `json:"stipend_amount"`
}

type programRanking struct {
	USNews     int `json:"us_news"`
	CSRankings int `json:"csrankings"`
}

type programInfo struct {
	DegreeTypes  []string
	Deadline     string
	DeadlineDate string
	Requirements programRequirements
	Funding      programFunding
	Ranking      programRanking
	FacultyAreas []string
	Website      string
}

func gpa(v float64) *float64 { return &v }

// Curated program table. Keyed by canonical school name, then program.
var programDatabase = map[string]map[string]programInfo{
	"MIT": {
		"Computer Science": {
			DegreeTypes:  []string{"MS", "PhD"},
			Deadline:     "December 15",
			DeadlineDate: "2025-12-15",
			Requirements: programRequirements{
				GRERecommended: true, TOEFLMinimum: 100, IELTSMinimum: 7.0,
				GPARecommended: 3.5, LettersRequired: 3,
			},
			Funding: programFunding{
				TuitionPerYear: 58240, FundingAvailable: true,
				FundingTypes:    []string{"RA", "TA", "Fellowship"},
				FundingCoverage: "Full tuition + stipend for PhD",
				StipendAmount:   45000,
			},
			Ranking: programRanking{USNews: 1, CSRankings: 1},
			FacultyAreas: []string{"Artificial Intelligence", "Machine Learning", "Systems",
				"Theory", "Graphics", "HCI", "Robotics"},
			Website: "https://www.eecs.mit.edu/academics/graduate-programs/",
		},
	},
	"Stanford": {
		"Computer Science": {
			DegreeTypes:  []string{"MS", "PhD"},
			Deadline:     "December 1",
			DeadlineDate: "2025-12-01",
			Requirements: programRequirements{
				TOEFLMinimum: 100, IELTSMinimum: 7.0,
				GPARecommended: 3.6, LettersRequired: 3,
			},
			Funding: programFunding{
				TuitionPerYear: 61731, FundingAvailable: true,
				FundingTypes:    []string{"RA", "TA", "Fellowship", "Knight-Hennessy"},
				FundingCoverage: "Full tuition + stipend for PhD",
				StipendAmount:   50000,
			},
			Ranking: programRanking{USNews: 1, CSRankings: 2},
			FacultyAreas: []string{"Artificial Intelligence", "Machine Learning", "NLP",
				"Computer Vision", "Systems", "Theory", "HCI"},
			Website: "https://cs.stanford.edu/admissions/graduate",
		},
	},
	"Carnegie Mellon": {
		"Computer Science": {
			DegreeTypes:  []string{"MS", "PhD"},
			Deadline:     "December 10",
			DeadlineDate: "2025-12-10",
			Requirements: programRequirements{
				GRERecommended: true, TOEFLMinimum: 100, IELTSMinimum: 7.5,
				GPARecommended: 3.5, LettersRequired: 3,
			},
			Funding: programFunding{
				TuitionPerYear: 52316, FundingAvailable: true,
				FundingTypes:    []string{"RA", "TA", "Fellowship"},
				FundingCoverage: "Full tuition + stipend for PhD",
				StipendAmount:   43000,
			},
			Ranking: programRanking{USNews: 1, CSRankings: 3},
			FacultyAreas: []string{"Machine Learning", "Robotics", "Computer Vision", "NLP",
				"Systems", "Security", "Human-Computer Interaction"},
			Website: "https://www.cs.cmu.edu/academics/graduate-admissions",
		},
	},
	"UC Berkeley": {
		"Computer Science": {
			DegreeTypes:  []string{"MS", "PhD"},
			Deadline:     "December 15",
			DeadlineDate: "2025-12-15",
			Requirements: programRequirements{
				TOEFLMinimum: 90, IELTSMinimum: 7.0, GPAMinimum: gpa(3.0),
				GPARecommended: 3.7, LettersRequired: 3,
			},
			Funding: programFunding{
				TuitionPerYear: 14312, TuitionOutOfState: 29272, FundingAvailable: true,
				FundingTypes:    []string{"RA", "TA", "GSR", "Fellowship"},
				FundingCoverage: "Full tuition + stipend for PhD",
				StipendAmount:   40000,
			},
			Ranking: programRanking{USNews: 1, CSRankings: 4},
			FacultyAreas: []string{"Artificial Intelligence", "Machine Learning", "Systems",
				"Security", "Theory", "Databases", "Graphics"},
			Website: "https://eecs.berkeley.edu/academics/graduate",
		},
	},
	"Georgia Tech": {
		"Computer Science": {
			DegreeTypes:  []string{"MS", "PhD"},
			Deadline:     "December 15",
			DeadlineDate: "2025-12-15",
			Requirements: programRequirements{
				GRERecommended: true, TOEFLMinimum: 100, IELTSMinimum: 7.5,
				GPAMinimum: gpa(3.0), GPARecommended: 3.5, LettersRequired: 3,
			},
			Funding: programFunding{
				TuitionPerYear: 13452, TuitionOutOfState: 30698, FundingAvailable: true,
				FundingTypes:    []string{"RA", "TA", "GRA"},
				FundingCoverage: "Full tuition + stipend for PhD",
				StipendAmount:   35000,
			},
			Ranking: programRanking{USNews: 8, CSRankings: 5},
			FacultyAreas: []string{"Machine Learning", "Robotics", "Computer Vision",
				"Systems", "HCI", "Computational Science"},
			Website: "https://www.cc.gatech.edu/academics/graduate/admissions",
		},
	},
}

// School name aliases for better matching.
var schoolAliases = map[string]string{
	"mit":                                   "MIT",
	"massachusetts institute of technology": "MIT",
	"stanford":                              "Stanford",
	"stanford university":                   "Stanford",
	"cmu":                                   "Carnegie Mellon",
	"carnegie mellon":                       "Carnegie Mellon",
	"carnegie mellon university":            "Carnegie Mellon",
	"berkeley":                              "UC Berkeley",
	"uc berkeley":                           "UC Berkeley",
	"cal":                                   "UC Berkeley",
	"georgia tech":                          "Georgia Tech",
	"gatech":                                "Georgia Tech",
	"georgia institute of technology":       "Georgia Tech",
}

// Program name aliases.
var programAliases = map[string]string{
	"cs":               "Computer Science",
	"computer science": "Computer Science",
	"eecs":             "Computer Science",
	"ms cs":            "Computer Science",
	"phd cs":           "Computer Science",
	"mscs":             "Computer Science",
}

func (t *ProgramResearchTool) Name() string {
	return "program_research"
}

func (t *ProgramResearchTool) Description() string {
	return "Research information about graduate programs at universities: application " +
		"deadlines, admission requirements (GRE, TOEFL, GPA minimums), tuition and " +
		"funding, rankings, and faculty research areas."
}

func (t *ProgramResearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"school": map[string]any{
				"type":        "string",
				"description": "Name of the university (e.g., 'MIT', 'Stanford University')",
			},
			"program": map[string]any{
				"type":        "string",
				"description": "Name of the program (e.g., 'Computer Science', 'MS CS')",
			},
			"info_type": map[string]any{
				"type":        "string",
				"enum":        []string{"deadline", "requirements", "funding", "ranking", "faculty", "all"},
				"description": "Type of information to retrieve",
				"default":     "all",
			},
		},
		"required": []string{"school", "program"},
	}
}

func (t *ProgramResearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	school := strings.TrimSpace(GetString(params, "school", ""))
	program := strings.TrimSpace(GetString(params, "program", ""))
	infoType := GetString(params, "info_type", "all")

	if school == "" {
		return "", invalidArgs("missing required parameter: school")
	}
	if program == "" {
		return "", invalidArgs("missing required parameter: program")
	}

	schoolName := normalizeSchool(school)
	programName := normalizeProgram(program)

	info, ok := lookupProgram(schoolName, programName)
	if !ok {
		known := make([]string, 0, len(programDatabase))
		for s := range programDatabase {
			known = append(known, s)
		}
		// Deterministic order for the agent's reply.
		sort.Strings(known)
		return success("", map[string]any{
			"found":         false,
			"message":       "I don't have detailed information about " + program + " at " + school + " in my database.",
			"suggestion":    "I can provide general guidance, or you can check the program's official website for accurate information.",
			"known_schools": known,
		})
	}

	base := map[string]any{
		"found":   true,
		"school":  schoolName,
		"program": programName,
	}

	switch infoType {
	case "all":
		base["degree_types"] = info.DegreeTypes
		base["deadline"] = info.Deadline
		base["deadline_date"] = info.DeadlineDate
		base["requirements"] = info.Requirements
		base["funding"] = info.Funding
		base["ranking"] = info.Ranking
		base["faculty_areas"] = info.FacultyAreas
		base["website"] = info.Website
	case "deadline":
		base["deadline"] = info.Deadline
		base["deadline_date"] = info.DeadlineDate
		base["degree_types"] = info.DegreeTypes
	case "requirements":
		base["requirements"] = info.Requirements
	case "funding":
		base["funding"] = info.Funding
	case "ranking":
		base["us_news_rank"] = info.Ranking.USNews
		base["csrankings_rank"] = info.Ranking.CSRankings
	case "faculty":
		base["research_areas"] = info.FacultyAreas
		base["website"] = info.Website
	default:
		return "", invalidArgs("unknown info_type: %s", infoType)
	}

	return success("", base)
}

func normalizeSchool(school string) string {
	if canonical, ok := schoolAliases[strings.ToLower(school)]; ok {
		return canonical
	}
	return school
}

func normalizeProgram(program string) string {
	if canonical, ok := programAliases[strings.ToLower(program)]; ok {
		return canonical
	}
	return program
}

func lookupProgram(school, program string) (programInfo, bool) {
	programs, ok := programDatabase[school]
	if !ok {
		return programInfo{}, false
	}
	info, ok := programs[program]
	return info, ok
}
