// Package scoring computes the skill coverage score and the ATS
// compatibility score of a resume.
package scoring

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

const (
	topSkillCount   = 10
	maxMissingShown = 5
)

// Scorer holds the immutable market catalog. Safe for concurrent use.
type Scorer struct {
	market   []domain.SkillInfo
	top      []domain.SkillInfo
	ceiling  int
	matchers map[string]*regexp.Regexp
}

// New builds a Scorer over the market skills and precompiles matchers for
// the known skill keywords.
func New(market []domain.SkillInfo, keywords []string) *Scorer {
	s := &Scorer{
		market:   append([]domain.SkillInfo(nil), market...),
		matchers: make(map[string]*regexp.Regexp, len(keywords)),
	}
	top := append([]domain.SkillInfo(nil), market...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Weight > top[j].Weight })
	if len(top) > topSkillCount {
		top = top[:topSkillCount]
	}
	s.top = top
	for _, t := range top {
		s.ceiling += t.Weight
	}
	for _, k := range keywords {
		k = strings.ToLower(k)
		s.matchers[k] = textx.WholeWord(k)
	}
	return s
}

// Ceiling is the sum of the ten highest market weights.
func (s *Scorer) Ceiling() int { return s.ceiling }

// ScoreSkills rates matched skills against market demand.
func (s *Scorer) ScoreSkills(skills []string) domain.ScoreResult {
	have := make(map[string]struct{}, len(skills))
	for _, sk := range skills {
		have[strings.ToLower(sk)] = struct{}{}
	}

	total := 0
	categories := map[string][]string{}
	for _, m := range s.market {
		if _, ok := have[m.Name]; !ok {
			continue
		}
		total += m.Weight
		categories[m.Category] = append(categories[m.Category], m.Name)
	}

	overall := 0
	if s.ceiling > 0 {
		overall = min(total*100/s.ceiling, 100)
	}

	missing := []domain.MissingSkill{}
	for _, t := range s.top {
		if len(missing) == maxMissingShown {
			break
		}
		if _, ok := have[t.Name]; ok {
			continue
		}
		missing = append(missing, domain.MissingSkill{Skill: t.Name, Category: t.Category, Importance: t.Weight})
	}

	return domain.ScoreResult{Overall: overall, MissingSkills: missing, SkillCategories: categories}
}

func (s *Scorer) matcher(skill string) *regexp.Regexp {
	skill = strings.ToLower(skill)
	if re, ok := s.matchers[skill]; ok {
		return re
	}
	return textx.WholeWord(skill)
}
