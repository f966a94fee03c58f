package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/domain/mocks"
	"github.com/fairyhunter13/resumeiq/internal/service/jobs"
	"github.com/fairyhunter13/resumeiq/internal/service/resumeparser"
	"github.com/fairyhunter13/resumeiq/internal/service/scoring"
	"github.com/fairyhunter13/resumeiq/internal/service/suggestions"
	"github.com/fairyhunter13/resumeiq/internal/usecase"
)

func newAnalyzeService(searcher domain.JobSearcher) usecase.AnalyzeService {
	catalog := config.DefaultCatalog()
	return usecase.NewAnalyzeService(
		resumeparser.New(catalog.SkillKeywords, resumeparser.FirstLineExtractor{}),
		scoring.New(catalog.MarketSkills, catalog.SkillKeywords),
		jobs.NewRecommender(catalog, searcher),
		suggestions.HeuristicGenerator{},
	)
}

type recordingJobs struct {
	skills    []string
	countries []string
	err       error
}

func (r *recordingJobs) Recommend(_ context.Context, skill, country string) ([]domain.JobListing, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []domain.JobListing{{Title: skill + "@" + country}}, nil
}

func TestAnalyze_SampleResumeOffline(t *testing.T) {
	searcher := &mocks.MockJobSearcher{}
	searcher.On("Search", mock.Anything, "python", mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))
	svc := newAnalyzeService(searcher)

	a, err := svc.Analyze(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Subset(t, a.Resume.Skills, []string{"python", "react", "aws"})
	assert.Greater(t, a.Score.Overall, 0)
	assert.GreaterOrEqual(t, a.Ats.AtsScore, 0)
	assert.LessOrEqual(t, a.Ats.AtsScore, 100)
	require.Len(t, a.DomesticJobs, 5)
	require.Len(t, a.ForeignJobs, 5)
	assert.Contains(t, a.DomesticJobs[0].Location, "India")
	assert.Contains(t, a.ForeignJobs[0].Location, "USA")
	assert.Equal(t, domain.SourceHeuristic, a.Suggestions.Source)
	assert.NotEmpty(t, a.Suggestions.Items)
	searcher.AssertNumberOfCalls(t, "Search", 2)

	resp := usecase.BuildResponse(a)
	assert.Len(t, resp.Jobs, 10)
}

func TestAnalyze_NoSkillsUsesDefaultQuery(t *testing.T) {
	catalog := config.DefaultCatalog()
	rec := &recordingJobs{}
	svc := usecase.NewAnalyzeService(
		resumeparser.New(catalog.SkillKeywords, resumeparser.FirstLineExtractor{}),
		scoring.New(catalog.MarketSkills, catalog.SkillKeywords),
		rec,
		suggestions.StaticGenerator{},
	)

	a, err := svc.Analyze(context.Background(), "Jane Roe\nI like gardening.")
	require.NoError(t, err)
	assert.Empty(t, a.Resume.Skills)
	require.Len(t, a.DomesticJobs, 1)
	require.Len(t, a.ForeignJobs, 1)
	assert.Equal(t, usecase.DefaultJobQuery+"@in", a.DomesticJobs[0].Title)
	assert.Equal(t, usecase.DefaultJobQuery+"@us", a.ForeignJobs[0].Title)
	assert.Equal(t, domain.SourceFallback, a.Suggestions.Source)
}

func TestAnalyze_RecommenderError(t *testing.T) {
	catalog := config.DefaultCatalog()
	svc := usecase.NewAnalyzeService(
		resumeparser.New(catalog.SkillKeywords, resumeparser.FirstLineExtractor{}),
		scoring.New(catalog.MarketSkills, catalog.SkillKeywords),
		&recordingJobs{err: domain.ErrUnsupportedCountry},
		suggestions.StaticGenerator{},
	)

	_, err := svc.Analyze(context.Background(), sampleResume)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedCountry)
}

func TestAnalyze_Canceled(t *testing.T) {
	svc := newAnalyzeService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, sampleResume)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
