// Package suggestions produces resume improvement advice. Three strategies
// exist: a language model, local heuristics and a fixed list. Every
// strategy returns at least one suggestion.
package suggestions

import (
	"context"
	"strings"

	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
)

// Generator turns resume text into suggestions.
type Generator interface {
	Suggest(ctx context.Context, text string) domain.SuggestionSet
}

// PromptCategories are the categories the model is asked to cover.
var PromptCategories = []string{
	"Format and Structure",
	"Content and Impact",
	"Skills and Keywords",
	"Professional Branding",
	"Action Words and Language",
}

// GeneralCategory holds advice that has no category of its own.
const GeneralCategory = "General"

var staticSuggestions = []domain.Suggestion{
	{Category: "Format and Structure", Text: "Use consistent formatting throughout the document with clear section headings."},
	{Category: "Content and Impact", Text: "Quantify achievements with specific metrics and focus on results rather than responsibilities."},
	{Category: "Skills and Keywords", Text: "Include industry-specific keywords and highlight technical skills relevant to the position."},
	{Category: "Professional Branding", Text: "Create a compelling professional summary and include LinkedIn profile and portfolio links."},
	{Category: "Action Words and Language", Text: "Start bullet points with strong action verbs and use present tense for current roles."},
	{Category: "ATS Optimization", Text: "Ensure your resume is ATS-friendly by using standard section headers and including relevant keywords."},
	{Category: "Contact Information", Text: "Make sure your contact information is current and clearly visible at the top of your resume."},
}

// StaticSuggestions returns a copy of the fixed fallback list.
func StaticSuggestions() []domain.Suggestion {
	out := make([]domain.Suggestion, len(staticSuggestions))
	copy(out, staticSuggestions)
	return out
}

// StaticGenerator always returns the fixed list.
type StaticGenerator struct{}

// Suggest implements Generator.
func (StaticGenerator) Suggest(context.Context, string) domain.SuggestionSet {
	return domain.SuggestionSet{Items: StaticSuggestions(), Source: domain.SourceFallback}
}

// New selects the generator for strategy. The llm strategy degrades to
// fallbackKind whenever chat is nil or a call fails.
func New(strategy, fallbackKind string, chat domain.ChatClient, llm LLMConfig) Generator {
	var fallback Generator = StaticGenerator{}
	if strings.EqualFold(fallbackKind, config.StrategyHeuristic) {
		fallback = HeuristicGenerator{}
	}
	switch strings.ToLower(strategy) {
	case config.StrategyStatic:
		return StaticGenerator{}
	case config.StrategyHeuristic:
		return HeuristicGenerator{}
	default:
		return NewLLMGenerator(chat, fallback, llm)
	}
}
