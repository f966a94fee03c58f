package domain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrRateLimited        = errors.New("rate limited")
	ErrEmptyFile          = errors.New("the uploaded file is empty")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrExtraction         = errors.New("extraction failed")
	ErrNoTextExtracted    = errors.New("no text could be extracted from the file")
	ErrExternalService    = errors.New("external service failure")
	ErrUnsupportedCountry = errors.New("unsupported country code")
)

// UnsupportedFormatError reports an upload whose extension is not recognized.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Ext)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) hold.
func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// ExtractionError wraps a format specific extractor failure.
// Error() never includes the cause so library internals stay out of payloads;
// the cause is reachable through errors.Unwrap for logging.
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not read %s document", e.Format)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExtraction) hold.
func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

// FileExt returns the lowercase text after the last dot of the base name,
// or the whole lowercase base name when it has no dot.
func FileExt(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if i := strings.LastIndex(name, "."); i >= 0 {
		return strings.ToLower(name[i+1:])
	}
	return strings.ToLower(name)
}

// Supported countries for job recommendations.
const (
	CountryIndia = "in"
	CountryUS    = "us"
)

// ValidCountry reports whether code is one of the supported job markets.
func ValidCountry(code string) bool { return code == CountryIndia || code == CountryUS }

// Suggestion sources.
const (
	SourceAI        = "ai-powered"
	SourceFallback  = "fallback"
	SourceHeuristic = "heuristic"
)

// ExtractedResume holds fields found in a resume. Produced once per request.
type ExtractedResume struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
}

// SkillInfo is the market weight and category of a catalog skill.
type SkillInfo struct {
	Name     string `yaml:"name" json:"name"`
	Weight   int    `yaml:"weight" json:"weight"`
	Category string `yaml:"category" json:"category"`
}

// MissingSkill is a high-demand skill absent from the resume.
type MissingSkill struct {
	Skill      string `json:"skill"`
	Category   string `json:"category"`
	Importance int    `json:"importance"`
}

// ScoreResult is the skill-coverage score.
type ScoreResult struct {
	Overall         int                 `json:"overall"`
	MissingSkills   []MissingSkill      `json:"missing_skills"`
	SkillCategories map[string][]string `json:"skill_categories"`
}

// AtsScoreResult is the applicant tracking system compatibility score.
type AtsScoreResult struct {
	AtsScore       int      `json:"ats_score"`
	Improvements   []string `json:"improvements"`
	KeywordDensity float64  `json:"keyword_density"`
	SectionsFound  int      `json:"sections_found"`
	TotalSections  int      `json:"total_sections"`
}

// JobListing is a single job posting, real or synthesized.
type JobListing struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Salary         string `json:"salary"`
	Experience     string `json:"experience"`
	EmploymentType string `json:"employment_type"`
	ApplyLink      string `json:"apply_link"`
	PostedAt       string `json:"posted_at"`
	Description    string `json:"description"`
}

// Suggestion is one improvement recommendation.
type Suggestion struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// SuggestionSet carries suggestions with the path that produced them.
type SuggestionSet struct {
	Items  []Suggestion `json:"items"`
	Source string       `json:"source"`
}

// Analysis is everything computed for one resume.
type Analysis struct {
	Resume       ExtractedResume
	Score        ScoreResult
	Ats          AtsScoreResult
	Suggestions  SuggestionSet
	DomesticJobs []JobListing
	ForeignJobs  []JobListing
}

// Ports

// TextExtractor (port)
// ExtractPath extracts text from a file at path with provided original filename.
// Implementations may call external services (e.g., Tika) or use local libraries.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// NameExtractor finds the candidate name in resume text.
type NameExtractor interface {
	ExtractName(text string) string
}

// ChatClient sends a single chat completion request and returns the content.
type ChatClient interface {
	Chat(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// JobSearcher queries a job search provider. Implementations return an error
// for any unusable answer so callers can fall back.
type JobSearcher interface {
	Search(ctx Context, skill, country string) ([]JobListing, error)
}

// JobCache stores job search results keyed by skill and country.
// Get reports found=false on a miss.
type JobCache interface {
	Get(ctx Context, skill, country string) (jobs []JobListing, found bool, err error)
	Set(ctx Context, skill, country string, jobs []JobListing) error
}

// QuotaLimiter guards an outbound API quota.
type QuotaLimiter interface {
	Allow(ctx Context, key string) (bool, error)
}

// Context is an alias to allow decoupling from std context in domain.
type Context = context.Context
