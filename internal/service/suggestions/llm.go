package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fairyhunter13/resumeiq/internal/adapter/ai"
	"github.com/fairyhunter13/resumeiq/internal/adapter/ai/tokencount"
	obsmetrics "github.com/fairyhunter13/resumeiq/internal/adapter/observability"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// SystemPrompt sets the reviewer persona.
const SystemPrompt = "You are a professional resume reviewer and career coach. Provide specific, actionable suggestions to improve resumes."

// LLMConfig bounds the model call.
type LLMConfig struct {
	Model           string
	MaxTokens       int // completion budget
	PromptMaxTokens int // budget for the embedded resume text
}

// responseSchema accepts either {"Category": "tip" | ["tip", ...]} or
// [{"category": "...", "text": "..."}].
const responseSchema = `{
  "anyOf": [
    {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "anyOf": [
          {"type": "string"},
          {"type": "array", "items": {"type": "string"}}
        ]
      }
    },
    {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["category", "text"],
        "properties": {
          "category": {"type": "string"},
          "text": {"type": "string"}
        }
      }
    }
  ]
}`

var compiledSchema = func() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		panic(fmt.Sprintf("suggestion response schema: %v", err))
	}
	return s
}()

// LLMGenerator asks a chat model for suggestions.
type LLMGenerator struct {
	chat     domain.ChatClient
	fallback Generator
	cfg      LLMConfig
	cleaner  *ai.ResponseCleaner
}

// NewLLMGenerator builds the generator. A nil chat client always serves
// fallback; a nil fallback means StaticGenerator.
func NewLLMGenerator(chat domain.ChatClient, fallback Generator, cfg LLMConfig) *LLMGenerator {
	if fallback == nil {
		fallback = StaticGenerator{}
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	return &LLMGenerator{chat: chat, fallback: fallback, cfg: cfg, cleaner: ai.NewResponseCleaner()}
}

// Suggest implements Generator.
func (g *LLMGenerator) Suggest(ctx context.Context, text string) domain.SuggestionSet {
	lg := observability.LoggerFromContext(ctx)
	if g.chat == nil {
		lg.Debug("no language model configured, using fallback suggestions")
		return g.degrade(ctx, text)
	}

	content, err := g.chat.Chat(ctx, SystemPrompt, g.prompt(text), g.cfg.MaxTokens)
	if err != nil {
		lg.Warn("suggestion generation failed, using fallback", "error", err)
		return g.degrade(ctx, text)
	}
	if strings.TrimSpace(content) == "" {
		lg.Warn("language model returned empty suggestions, using fallback")
		return g.degrade(ctx, text)
	}

	items, err := g.parse(content)
	if err != nil {
		lg.Info("returning unstructured model suggestions", "reason", err.Error())
		items = []domain.Suggestion{{Category: GeneralCategory, Text: strings.TrimSpace(content)}}
	}
	return domain.SuggestionSet{Items: items, Source: domain.SourceAI}
}

func (g *LLMGenerator) degrade(ctx context.Context, text string) domain.SuggestionSet {
	obsmetrics.RecordFallback("suggestions")
	return g.fallback.Suggest(ctx, text)
}

func (g *LLMGenerator) prompt(text string) string {
	resume := text
	if g.cfg.PromptMaxTokens > 0 {
		trimmed, _, err := tokencount.TruncateDefault(text, g.cfg.Model, g.cfg.PromptMaxTokens)
		if err != nil {
			// roughly four characters per token
			trimmed = textx.Truncate(text, g.cfg.PromptMaxTokens*4)
		}
		resume = trimmed
	}

	var b strings.Builder
	b.WriteString("Analyze the following resume and provide specific, actionable improvements in these categories:\n")
	for i, c := range PromptCategories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\nResume:\n")
	b.WriteString(resume)
	b.WriteString("\n\nPlease provide detailed, specific suggestions for each category. Focus on modern resume best practices and industry standards.\n")
	b.WriteString("Format the response as a JSON object with categories as keys and lists of suggestions as values.\n")
	b.WriteString("Keep suggestions concise but actionable.")
	return b.String()
}

// parse validates content against responseSchema and flattens it into
// suggestions, keeping the model's category order.
func (g *LLMGenerator) parse(content string) ([]domain.Suggestion, error) {
	doc := g.cleaner.Clean(content)
	res, err := compiledSchema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("not json: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("schema mismatch: %s", strings.Join(msgs, "; "))
	}

	var items []domain.Suggestion
	if strings.HasPrefix(strings.TrimSpace(doc), "[") {
		var records []domain.Suggestion
		if err := json.Unmarshal([]byte(doc), &records); err != nil {
			return nil, err
		}
		for _, r := range records {
			items = appendItem(items, categoryName(r.Category), r.Text)
		}
	} else {
		var err error
		items, err = flattenObject(doc)
		if err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, errors.New("no suggestions in response")
	}
	return items, nil
}

// flattenObject walks a category object in document order.
func flattenObject(doc string) ([]domain.Suggestion, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}
	var items []domain.Suggestion
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		category := categoryName(key)

		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, s := range list {
				items = appendItem(items, category, s)
			}
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		items = appendItem(items, category, single)
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return items, nil
}

func appendItem(items []domain.Suggestion, category, text string) []domain.Suggestion {
	text = strings.TrimSpace(text)
	if text == "" {
		return items
	}
	return append(items, domain.Suggestion{Category: category, Text: text})
}

// categoryName turns keys like "format_and_structure" into "Format And Structure".
func categoryName(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	if key == "" {
		return GeneralCategory
	}
	return textx.Title(key)
}
