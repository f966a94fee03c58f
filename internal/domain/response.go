package domain

// SkillPlaceholderScore is reported for every extracted skill.
const SkillPlaceholderScore = 85

// Scores is the score block of the analysis payload.
type Scores struct {
	Overall int `json:"overall"`
	Ats     int `json:"ats"`
	Content int `json:"content"`
}

// SkillScore is one entry of the skills block.
type SkillScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// JobMatch is one entry of the jobs block.
type JobMatch struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Match    int    `json:"match"`
	URL      string `json:"url"`
}

// AtsReport exposes the ATS details behind scores.ats.
type AtsReport struct {
	Improvements   []string `json:"improvements"`
	KeywordDensity float64  `json:"keyword_density"`
	SectionsFound  int      `json:"sections_found"`
	TotalSections  int      `json:"total_sections"`
}

// AnalysisResponse is the JSON payload returned for an analyzed resume.
type AnalysisResponse struct {
	Scores           Scores              `json:"scores"`
	Skills           []SkillScore        `json:"skills"`
	Suggestions      []Suggestion        `json:"suggestions"`
	Jobs             []JobMatch          `json:"jobs"`
	SuggestionSource string              `json:"suggestion_source"`
	Profile          ExtractedResume     `json:"profile"`
	MissingSkills    []MissingSkill      `json:"missing_skills"`
	SkillCategories  map[string][]string `json:"skill_categories"`
	AtsReport        AtsReport           `json:"ats_report"`
}
