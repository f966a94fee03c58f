package usecase

import "github.com/fairyhunter13/resumeiq/internal/domain"

// BuildResponse merges an analysis into the wire payload. content and
// every job match are the integer mean of the two scores.
func BuildResponse(a domain.Analysis) domain.AnalysisResponse {
	content := (a.Score.Overall + a.Ats.AtsScore) / 2

	skills := make([]domain.SkillScore, 0, len(a.Resume.Skills))
	for _, name := range a.Resume.Skills {
		skills = append(skills, domain.SkillScore{Name: name, Score: domain.SkillPlaceholderScore})
	}

	jobs := make([]domain.JobMatch, 0, len(a.DomesticJobs)+len(a.ForeignJobs))
	for _, group := range [][]domain.JobListing{a.DomesticJobs, a.ForeignJobs} {
		for _, j := range group {
			jobs = append(jobs, domain.JobMatch{
				Title:    j.Title,
				Company:  j.Company,
				Location: j.Location,
				Match:    content,
				URL:      j.ApplyLink,
			})
		}
	}

	suggestions := a.Suggestions.Items
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	missing := a.Score.MissingSkills
	if missing == nil {
		missing = []domain.MissingSkill{}
	}
	categories := a.Score.SkillCategories
	if categories == nil {
		categories = map[string][]string{}
	}
	improvements := a.Ats.Improvements
	if improvements == nil {
		improvements = []string{}
	}

	return domain.AnalysisResponse{
		Scores:           domain.Scores{Overall: a.Score.Overall, Ats: a.Ats.AtsScore, Content: content},
		Skills:           skills,
		Suggestions:      suggestions,
		Jobs:             jobs,
		SuggestionSource: a.Suggestions.Source,
		Profile:          a.Resume,
		MissingSkills:    missing,
		SkillCategories:  categories,
		AtsReport: domain.AtsReport{
			Improvements:   improvements,
			KeywordDensity: a.Ats.KeywordDensity,
			SectionsFound:  a.Ats.SectionsFound,
			TotalSections:  a.Ats.TotalSections,
		},
	}
}
