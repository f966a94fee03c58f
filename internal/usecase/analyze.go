// Package usecase orchestrates resume extraction and analysis.
package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	obsmetrics "github.com/fairyhunter13/resumeiq/internal/adapter/observability"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
)

// DefaultJobQuery is searched when the resume lists no known skill.
const DefaultJobQuery = "developer"

// ResumeParser extracts structured fields from resume text.
type ResumeParser interface {
	Parse(text string) domain.ExtractedResume
}

// ResumeScorer computes the skill coverage and ATS scores.
type ResumeScorer interface {
	ScoreSkills(skills []string) domain.ScoreResult
	ScoreATS(text string, skills []string) domain.AtsScoreResult
}

// JobRecommender returns listings for a skill in one market.
type JobRecommender interface {
	Recommend(ctx context.Context, skill, country string) ([]domain.JobListing, error)
}

// SuggestionGenerator returns improvement advice for resume text.
type SuggestionGenerator interface {
	Suggest(ctx context.Context, text string) domain.SuggestionSet
}

// AnalyzeService runs the analysis pipeline on extracted text.
type AnalyzeService struct {
	Parser      ResumeParser
	Scorer      ResumeScorer
	Jobs        JobRecommender
	Suggestions SuggestionGenerator
}

// NewAnalyzeService constructs an AnalyzeService.
func NewAnalyzeService(p ResumeParser, s ResumeScorer, j JobRecommender, g SuggestionGenerator) AnalyzeService {
	return AnalyzeService{Parser: p, Scorer: s, Jobs: j, Suggestions: g}
}

// Analyze parses and scores text, then fetches domestic and foreign jobs and
// suggestions concurrently. Collaborators recover their own failures, so the
// error is non-nil only when ctx ends first.
func (s AnalyzeService) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	lg := observability.LoggerFromContext(ctx)

	resume := s.Parser.Parse(text)
	score := s.Scorer.ScoreSkills(resume.Skills)
	ats := s.Scorer.ScoreATS(text, resume.Skills)
	lg.Info("resume scored",
		"skills", len(resume.Skills),
		"overall", score.Overall,
		"ats", ats.AtsScore)

	query := DefaultJobQuery
	if len(resume.Skills) > 0 {
		query = resume.Skills[0]
	}

	a := domain.Analysis{Resume: resume, Score: score, Ats: ats}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		jobs, err := s.Jobs.Recommend(gctx, query, domain.CountryIndia)
		a.DomesticJobs = jobs
		return err
	})
	g.Go(func() error {
		jobs, err := s.Jobs.Recommend(gctx, query, domain.CountryUS)
		a.ForeignJobs = jobs
		return err
	})
	g.Go(func() error {
		a.Suggestions = s.Suggestions.Suggest(gctx, text)
		return nil
	})
	if err := g.Wait(); err != nil {
		obsmetrics.RecordAnalysisFailure("error")
		return domain.Analysis{}, fmt.Errorf("op=usecase.Analyze: %w", err)
	}
	if err := ctx.Err(); err != nil {
		obsmetrics.RecordAnalysisFailure("canceled")
		return domain.Analysis{}, fmt.Errorf("op=usecase.Analyze: %w", err)
	}

	obsmetrics.ObserveAnalysis(score.Overall, ats.AtsScore)
	lg.Info("analysis completed",
		"domestic_jobs", len(a.DomesticJobs),
		"foreign_jobs", len(a.ForeignJobs),
		"suggestions", len(a.Suggestions.Items),
		"suggestion_source", a.Suggestions.Source)
	return a, nil
}
