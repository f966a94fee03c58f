// Package resumeparser extracts contact details, skills, education and
// experience mentions from resume text.
package resumeparser

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// maxMentions caps the education and experience lists.
const maxMentions = 3

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\-\s]{8,}\d`)

	educationPatterns = compileAll(
		`(?:EDUCATION|ACADEMIC BACKGROUND|QUALIFICATIONS)`,
		`(?:B\.?Tech|B\.?E|M\.?Tech|M\.?E|PhD|M\.?S|B\.?S|M\.?Sc|B\.?Sc|M\.?B\.?A|B\.?B\.?A)`,
		`(?:Bachelor|Master|Doctor|Diploma)`,
		`(?:University|College|Institute|School)`,
	)
	experiencePatterns = compileAll(
		`\d+[\+]? years? (?:of )?(?:experience|work)`,
		`(?:EXPERIENCE|WORK HISTORY|EMPLOYMENT|WORK EXPERIENCE)`,
		`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4} (?:to|-)`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// Parser turns resume text into an ExtractedResume. It holds only immutable
// state and is safe for concurrent use.
type Parser struct {
	names  domain.NameExtractor
	skills []skillMatcher
}

type skillMatcher struct {
	name string
	re   *regexp.Regexp
}

// New builds a Parser matching the given skill keywords in order. A nil
// name extractor falls back to the first line of the text.
func New(keywords []string, names domain.NameExtractor) *Parser {
	if names == nil {
		names = FirstLineExtractor{}
	}
	p := &Parser{names: names, skills: make([]skillMatcher, 0, len(keywords))}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		p.skills = append(p.skills, skillMatcher{name: k, re: textx.WholeWord(k)})
	}
	return p
}

// Parse extracts all fields from text.
func (p *Parser) Parse(text string) domain.ExtractedResume {
	return domain.ExtractedResume{
		Name:       p.names.ExtractName(text),
		Email:      emailRe.FindString(text),
		Phone:      phoneRe.FindString(text),
		Skills:     p.Skills(text),
		Education:  firstMatches(text, educationPatterns, maxMentions),
		Experience: firstMatches(text, experiencePatterns, maxMentions),
	}
}

// Skills returns the catalog keywords present in text, in catalog order.
func (p *Parser) Skills(text string) []string {
	lower := strings.ToLower(text)
	out := []string{}
	for _, s := range p.skills {
		if s.re.MatchString(lower) {
			out = append(out, s.name)
		}
	}
	return out
}

// firstMatches collects every match of each pattern in pattern order and
// keeps the first limit of them. Duplicates across patterns are kept.
func firstMatches(text string, patterns []*regexp.Regexp, limit int) []string {
	out := []string{}
	for _, re := range patterns {
		for _, m := range re.FindAllString(text, -1) {
			out = append(out, m)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
