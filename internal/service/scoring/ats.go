package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// Improvement notes attached to ATS penalties.
const (
	ImproveSections     = "Add clear section headers (Education, Experience, Skills, etc.)"
	ImproveContactsFmt  = "Add missing contact information: %s"
	ImproveQuantifiable = "Add quantifiable achievements (%, $, numbers)"
	ImproveFormatting   = "Improve formatting consistency (remove excess spacing)"
	ImproveBullets      = "Use more bullet points to highlight experiences"
	ImproveDensity      = "Increase relevant keyword density"
)

const (
	sectionWeight     = 25.0
	contactPenalty    = 5
	metricPenalty     = 10
	spacingPenalty    = 5
	bulletPenalty     = 5
	densityPenalty    = 10
	maxBlankRuns      = 2
	minBullets        = 5
	minDensityPercent = 3.0
)

var (
	atsSections = []string{"education", "experience", "skills", "projects", "work"}
	sectionRes  = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(atsSections))
		for i, s := range atsSections {
			out[i] = regexp.MustCompile(`\b` + s + `\b`)
		}
		return out
	}()

	contactChecks = []struct {
		name string
		re   *regexp.Regexp
	}{
		{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
		{"phone", regexp.MustCompile(`\+?\d[\d\-\s]{8,}\d`)},
		{"linkedin", regexp.MustCompile(`(?i)linkedin`)},
	}

	metricRe    = regexp.MustCompile(`(?i)\d+%|\d+ percent|\d+x|\$\d+|\d+ dollars`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// bulletPrefixes are the line starts counted as bullet points.
var bulletPrefixes = []string{"•", "●", "▪", "◦", "‣", "-", "*"}

// ScoreATS estimates how well an applicant tracking system can read the resume.
func (s *Scorer) ScoreATS(text string, skills []string) domain.AtsScoreResult {
	lower := strings.ToLower(text)
	score := 100.0
	improvements := []string{}

	found := 0
	for _, re := range sectionRes {
		if re.MatchString(lower) {
			found++
		}
	}
	sectionScore := float64(found) / float64(len(atsSections)) * sectionWeight
	score -= sectionWeight - sectionScore
	if sectionScore < sectionWeight {
		improvements = append(improvements, ImproveSections)
	}

	var missing []string
	for _, c := range contactChecks {
		if !c.re.MatchString(text) {
			missing = append(missing, c.name)
			score -= contactPenalty
		}
	}
	if len(missing) > 0 {
		improvements = append(improvements, fmt.Sprintf(ImproveContactsFmt, strings.Join(missing, ", ")))
	}

	if !metricRe.MatchString(text) {
		score -= metricPenalty
		improvements = append(improvements, ImproveQuantifiable)
	}

	if len(blankRunsRe.FindAllStringIndex(text, -1)) > maxBlankRuns {
		score -= spacingPenalty
		improvements = append(improvements, ImproveFormatting)
	}

	if CountBullets(text) < minBullets {
		score -= bulletPenalty
		improvements = append(improvements, ImproveBullets)
	}

	density := s.keywordDensity(lower, skills)
	if density < minDensityPercent {
		score -= densityPenalty
		improvements = append(improvements, ImproveDensity)
	}

	score = math.Max(0, math.Min(100, score))
	return domain.AtsScoreResult{
		AtsScore:       int(math.Round(score)),
		Improvements:   improvements,
		KeywordDensity: math.Round(density*100) / 100,
		SectionsFound:  found,
		TotalSections:  len(atsSections),
	}
}

// keywordDensity is the share of words that are distinct matched skills, in
// percent. A text without words has density 0.
func (s *Scorer) keywordDensity(lower string, skills []string) float64 {
	words := textx.WordCount(lower)
	if words == 0 {
		return 0
	}
	mentions := 0
	for _, sk := range skills {
		if s.matcher(sk).MatchString(lower) {
			mentions++
		}
	}
	return float64(mentions) / float64(words) * 100
}

// CountBullets counts lines that start with a bullet glyph, hyphen or asterisk.
func CountBullets(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if IsBullet(line) {
			n++
		}
	}
	return n
}

// IsBullet reports whether line starts with a bullet marker.
func IsBullet(line string) bool {
	l := strings.TrimLeft(line, " \t")
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return false
}

// BulletText strips the bullet marker and surrounding spaces from a line.
func BulletText(line string) string {
	l := strings.TrimLeft(line, " \t")
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(l, p) {
			return strings.TrimSpace(strings.TrimPrefix(l, p))
		}
	}
	return strings.TrimSpace(l)
}
