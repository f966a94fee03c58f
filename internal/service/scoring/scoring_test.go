package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
)

func newTestScorer() *Scorer {
	c := config.DefaultCatalog()
	return New(c.MarketSkills, c.SkillKeywords)
}

func TestScorer_Ceiling(t *testing.T) {
	assert.Equal(t, 91, newTestScorer().Ceiling())
}

func TestScoreSkills(t *testing.T) {
	tests := []struct {
		name        string
		skills      []string
		wantOverall int
		wantMissing []string
	}{
		{
			name:        "no skills",
			skills:      nil,
			wantOverall: 0,
			wantMissing: []string{"python", "aws", "javascript", "java", "react"},
		},
		{
			name:        "sample resume",
			skills:      []string{"python", "react", "aws"},
			wantOverall: 31,
			wantMissing: []string{"javascript", "java", "sql", "docker", "machine learning"},
		},
		{
			name:        "case insensitive",
			skills:      []string{"Python", "AWS"},
			wantOverall: 21,
			wantMissing: []string{"javascript", "java", "react", "sql", "docker"},
		},
		{
			name:        "unknown skills ignored",
			skills:      []string{"cobol", "fortran"},
			wantOverall: 0,
			wantMissing: []string{"python", "aws", "javascript", "java", "react"},
		},
		{
			name: "all top skills",
			skills: []string{"python", "aws", "javascript", "java", "react", "sql", "docker",
				"machine learning", "data science", "typescript"},
			wantOverall: 100,
			wantMissing: []string{},
		},
	}
	s := newTestScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ScoreSkills(tt.skills)
			assert.Equal(t, tt.wantOverall, got.Overall)
			names := make([]string, 0, len(got.MissingSkills))
			for _, m := range got.MissingSkills {
				names = append(names, m.Skill)
			}
			assert.Equal(t, tt.wantMissing, names)
		})
	}
}

func TestScoreSkills_CappedAt100(t *testing.T) {
	var all []string
	for _, m := range config.DefaultCatalog().MarketSkills {
		all = append(all, m.Name)
	}
	got := newTestScorer().ScoreSkills(all)
	assert.Equal(t, 100, got.Overall)
	assert.Empty(t, got.MissingSkills)
}

func TestScoreSkills_MissingSkillDetails(t *testing.T) {
	got := newTestScorer().ScoreSkills([]string{"python"})
	require.NotEmpty(t, got.MissingSkills)
	assert.Equal(t, domain.MissingSkill{Skill: "aws", Category: "Cloud", Importance: 10}, got.MissingSkills[0])
	assert.LessOrEqual(t, len(got.MissingSkills), 5)
	for i := 1; i < len(got.MissingSkills); i++ {
		assert.GreaterOrEqual(t, got.MissingSkills[i-1].Importance, got.MissingSkills[i].Importance)
	}
}

func TestScoreSkills_Categories(t *testing.T) {
	got := newTestScorer().ScoreSkills([]string{"vue", "javascript", "react", "python", "git"})
	assert.Equal(t, map[string][]string{
		"Programming Languages": {"python", "javascript"},
		"Frontend":              {"react", "vue"},
		"Tools":                 {"git"},
	}, got.SkillCategories)
}

func TestScoreSkills_Monotonic(t *testing.T) {
	s := newTestScorer()
	var skills []string
	prev := s.ScoreSkills(skills).Overall
	for _, m := range config.DefaultCatalog().MarketSkills {
		skills = append(skills, m.Name)
		cur := s.ScoreSkills(skills).Overall
		assert.GreaterOrEqual(t, cur, prev, "adding %s lowered the score", m.Name)
		assert.GreaterOrEqual(t, cur, 0)
		assert.LessOrEqual(t, cur, 100)
		prev = cur
	}
}

func TestNew_SmallCatalog(t *testing.T) {
	s := New([]domain.SkillInfo{{Name: "go", Weight: 4, Category: "Programming Languages"}}, nil)
	assert.Equal(t, 4, s.Ceiling())
	assert.Equal(t, 100, s.ScoreSkills([]string{"Go"}).Overall)

	empty := New(nil, nil)
	assert.Equal(t, 0, empty.ScoreSkills([]string{"go"}).Overall)
}
