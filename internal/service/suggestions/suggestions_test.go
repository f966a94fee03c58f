package suggestions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/domain/mocks"
)

const sampleResume = "John Doe\njohn@example.com\n+1-555-123-4567\nSkills: python, react, aws\nEducation: B.Tech Computer Science\nExperience: 5 years"

func TestStaticGenerator(t *testing.T) {
	set := StaticGenerator{}.Suggest(context.Background(), "")
	require.Len(t, set.Items, 7)
	assert.Equal(t, domain.SourceFallback, set.Source)
	assert.Equal(t, "Format and Structure", set.Items[0].Category)
	assert.Equal(t, "Contact Information", set.Items[6].Category)

	// callers cannot corrupt the shared list
	set.Items[0].Text = "changed"
	assert.NotEqual(t, "changed", StaticSuggestions()[0].Text)
}

func TestNew_SelectsStrategy(t *testing.T) {
	assert.IsType(t, StaticGenerator{}, New("static", "static", nil, LLMConfig{}))
	assert.IsType(t, HeuristicGenerator{}, New("HEURISTIC", "static", nil, LLMConfig{}))

	g := New("llm", "heuristic", nil, LLMConfig{})
	require.IsType(t, &LLMGenerator{}, g)
	assert.IsType(t, HeuristicGenerator{}, g.(*LLMGenerator).fallback)
	assert.IsType(t, StaticGenerator{}, New("llm", "static", nil, LLMConfig{}).(*LLMGenerator).fallback)
}

func TestLLMGenerator_NoClientUsesFallback(t *testing.T) {
	set := NewLLMGenerator(nil, nil, LLMConfig{}).Suggest(context.Background(), sampleResume)
	assert.Equal(t, domain.SourceFallback, set.Source)
	assert.Len(t, set.Items, 7)
}

func TestLLMGenerator_FailuresUseConfiguredFallback(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"transport error", "", domain.ErrExternalService},
		{"rate limited", "", errors.New("429 too many requests")},
		{"blank content", "  \n ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &mocks.MockChatClient{}
			chat.On("Chat", mock.Anything, SystemPrompt, mock.Anything, 1000).Return(tt.content, tt.err).Once()

			set := NewLLMGenerator(chat, HeuristicGenerator{}, LLMConfig{}).Suggest(context.Background(), sampleResume)
			assert.Equal(t, domain.SourceHeuristic, set.Source)
			assert.NotEmpty(t, set.Items)
			chat.AssertExpectations(t)
		})
	}
}

func TestLLMGenerator_PromptCarriesResumeAndCategories(t *testing.T) {
	chat := &mocks.MockChatClient{}
	chat.On("Chat", mock.Anything, SystemPrompt, mock.MatchedBy(func(p string) bool {
		for _, c := range PromptCategories {
			if !strings.Contains(p, c) {
				return false
			}
		}
		return strings.Contains(p, "Skills: python, react, aws")
	}), 500).Return(`{"Format": "Add headings"}`, nil).Once()

	set := NewLLMGenerator(chat, nil, LLMConfig{MaxTokens: 500, PromptMaxTokens: 3000}).Suggest(context.Background(), sampleResume)
	assert.Equal(t, domain.SourceAI, set.Source)
	chat.AssertExpectations(t)
}

func TestLLMGenerator_PromptIsTokenBounded(t *testing.T) {
	long := strings.Repeat("Developed distributed systems in Go. ", 2000)
	var prompt string
	chat := &mocks.MockChatClient{}
	chat.On("Chat", mock.Anything, SystemPrompt, mock.Anything, 1000).
		Run(func(args mock.Arguments) { prompt = args.String(2) }).
		Return("ok", nil).Once()

	NewLLMGenerator(chat, nil, LLMConfig{PromptMaxTokens: 100}).Suggest(context.Background(), long)
	assert.Less(t, len(prompt), len(long)/10)
}

func TestLLMGenerator_ParsesResponses(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []domain.Suggestion
	}{
		{
			name:    "object of lists keeps key order",
			content: "```json\n{\"format_and_structure\": [\"Use headings\", \"Keep one page\"], \"Content and Impact\": \"Quantify results\"}\n```",
			want: []domain.Suggestion{
				{Category: "Format And Structure", Text: "Use headings"},
				{Category: "Format And Structure", Text: "Keep one page"},
				{Category: "Content And Impact", Text: "Quantify results"},
			},
		},
		{
			name:    "array of records",
			content: `[{"category":"skills_and_keywords","text":"Add Kubernetes"},{"category":"","text":"Be concise"}]`,
			want: []domain.Suggestion{
				{Category: "Skills And Keywords", Text: "Add Kubernetes"},
				{Category: "General", Text: "Be concise"},
			},
		},
		{
			name:    "json embedded in prose",
			content: "Here are my thoughts:\n{\"ATS\": [\"Use standard headers\"]}\nGood luck!",
			want:    []domain.Suggestion{{Category: "Ats", Text: "Use standard headers"}},
		},
		{
			name:    "free text",
			content: "Use stronger verbs and add metrics.",
			want:    []domain.Suggestion{{Category: "General", Text: "Use stronger verbs and add metrics."}},
		},
		{
			name:    "wrong shape",
			content: `{"Format": {"nested": "value"}}`,
			want:    []domain.Suggestion{{Category: "General", Text: `{"Format": {"nested": "value"}}`}},
		},
		{
			name:    "only blank entries",
			content: `{"Format": ["  "]}`,
			want:    []domain.Suggestion{{Category: "General", Text: `{"Format": ["  "]}`}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &mocks.MockChatClient{}
			chat.On("Chat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.content, nil).Once()

			set := NewLLMGenerator(chat, nil, LLMConfig{}).Suggest(context.Background(), sampleResume)
			assert.Equal(t, domain.SourceAI, set.Source)
			assert.Equal(t, tt.want, set.Items)
		})
	}
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Action Words And Language", categoryName("action_words_and_language"))
	assert.Equal(t, "General", categoryName(" _ "))
	assert.Equal(t, "Skills", categoryName("SKILLS"))
}
