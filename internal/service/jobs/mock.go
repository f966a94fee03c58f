package jobs

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// MockJobs synthesizes the offline listings for skill in country from the
// catalog tables. The same input always yields the same listings.
func MockJobs(catalog *config.Catalog, skill, country string) []domain.JobListing {
	market, ok := catalog.JobMarkets[country]
	if !ok {
		return nil
	}
	titled := textx.Capitalize(skill)
	out := make([]domain.JobListing, 0, len(catalog.JobTemplates))
	for i, tpl := range catalog.JobTemplates {
		out = append(out, domain.JobListing{
			Title:    fill(tpl.Title, skill, titled),
			Company:  market.Companies[i],
			Location: fmt.Sprintf("%s, %s", market.Locations[i], market.Country),
			Salary: fmt.Sprintf("%s%s - %s%s per year",
				market.Currency, market.Salaries[tpl.SalaryFrom],
				market.Currency, market.Salaries[tpl.SalaryTo]),
			Experience:     tpl.Experience,
			EmploymentType: "Full-time",
			ApplyLink:      fmt.Sprintf("https://example.com/jobs/%d", i+1),
			PostedAt:       tpl.PostedAt,
			Description:    fill(tpl.Description, skill, titled),
		})
	}
	return out
}

func fill(tpl, skill, titled string) string {
	return strings.NewReplacer("{Skill}", titled, "{skill}", skill).Replace(tpl)
}
