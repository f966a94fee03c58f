package suggestions

import (
	"context"
	"regexp"
	"strings"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/service/scoring"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// Heuristic findings.
const (
	TipTooShort      = "Your resume is quite short. Consider adding more details about your experiences and achievements."
	TipTooLong       = "Your resume is quite long. Consider focusing on the most relevant experiences and skills."
	TipActionVerbs   = "Start your bullet points with strong action verbs like 'Achieved', 'Implemented', 'Developed', etc."
	TipQuantify      = "Include quantifiable achievements (e.g., 'Increased sales by 20%', 'Reduced costs by $10K')."
	TipLinkedIn      = "Consider adding your LinkedIn profile URL."
	TipSectionLabels = "Make sure to clearly label your sections (Skills, Education, Experience, Projects) for ATS systems."
	TipEmail         = "Ensure your email address is included and clearly visible."
	TipPhone         = "Include a phone number for employers to contact you."
	TipGeneric       = "Try using active language, quantifying impact, and aligning with job descriptions. Ensure your resume is ATS-friendly by using standard section headers and including relevant keywords from the job description."
)

const (
	minWords          = 300
	maxWords          = 1000
	weakBulletMaxRate = 0.3
)

var (
	actionVerbs = []string{"achieved", "implemented", "developed", "created", "managed", "led", "designed", "built"}

	quantifiableRe = regexp.MustCompile(`(?i)\d+%|\d+ percent|increased|decreased|reduced|improved|grew|expanded`)
	linkedInRe     = regexp.MustCompile(`(?i)linkedin`)
	sectionRe      = regexp.MustCompile(`(?i)skills|education|experience|projects`)
	emailRe        = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRe        = regexp.MustCompile(`\+?\d[\d\-\s]{8,}\d`)
)

// HeuristicGenerator checks the text locally with no external calls.
type HeuristicGenerator struct{}

// Suggest implements Generator.
func (HeuristicGenerator) Suggest(_ context.Context, text string) domain.SuggestionSet {
	var items []domain.Suggestion
	add := func(category, tip string) {
		items = append(items, domain.Suggestion{Category: category, Text: tip})
	}

	switch words := textx.WordCount(text); {
	case words < minWords:
		add("Format and Structure", TipTooShort)
	case words > maxWords:
		add("Format and Structure", TipTooLong)
	}
	if weakBulletRate(text) > weakBulletMaxRate {
		add("Action Words and Language", TipActionVerbs)
	}
	if !quantifiableRe.MatchString(text) {
		add("Content and Impact", TipQuantify)
	}
	if !linkedInRe.MatchString(text) {
		add("Professional Branding", TipLinkedIn)
	}
	if !sectionRe.MatchString(text) {
		add("ATS Optimization", TipSectionLabels)
	}
	if !emailRe.MatchString(text) {
		add("Contact Information", TipEmail)
	}
	if !phoneRe.MatchString(text) {
		add("Contact Information", TipPhone)
	}
	if len(items) == 0 {
		add(GeneralCategory, TipGeneric)
	}
	return domain.SuggestionSet{Items: items, Source: domain.SourceHeuristic}
}

// weakBulletRate is the share of bullet lines not opening with an action
// verb, or 0 when there are no bullets.
func weakBulletRate(text string) float64 {
	total, weak := 0, 0
	for _, line := range strings.Split(text, "\n") {
		if !scoring.IsBullet(line) {
			continue
		}
		total++
		body := strings.ToLower(scoring.BulletText(line))
		strong := false
		for _, v := range actionVerbs {
			if strings.HasPrefix(body, v) {
				strong = true
				break
			}
		}
		if !strong {
			weak++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(weak) / float64(total)
}
