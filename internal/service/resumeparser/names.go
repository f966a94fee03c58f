package resumeparser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// entityWindow is how many leading runes the entity model reads.
const entityWindow = 1000

// FirstLineExtractor uses the first non-empty line of the text as the name.
type FirstLineExtractor struct{}

// ExtractName implements domain.NameExtractor.
func (FirstLineExtractor) ExtractName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return ""
}

// EntityExtractor returns the first PERSON entity found by the prose model in
// the head of the text, and the first line when there is none. Build it with
// NewEntityExtractor so the model is decoded once and shared by every call.
type EntityExtractor struct {
	model    *prose.Model
	fallback FirstLineExtractor
}

// warmup is tagged once to load the prose model.
const warmup = "Jane Smith is a software engineer in Boston."

// NewEntityExtractor loads the entity model.
func NewEntityExtractor() (EntityExtractor, error) {
	doc, err := newDocument(warmup, nil)
	if err != nil {
		return EntityExtractor{}, err
	}
	if doc.Model == nil {
		return EntityExtractor{}, errors.New("op=resumeparser.NewEntityExtractor: no model loaded")
	}
	return EntityExtractor{model: doc.Model}, nil
}

// ExtractName implements domain.NameExtractor. Without a loaded model it
// uses the first line.
func (e EntityExtractor) ExtractName(text string) string {
	if e.model == nil {
		return e.fallback.ExtractName(text)
	}
	doc, err := newDocument(textx.Truncate(text, entityWindow), e.model)
	if err == nil {
		for _, ent := range doc.Entities() {
			if ent.Label == "PERSON" {
				if name := strings.TrimSpace(ent.Text); name != "" {
					return name
				}
			}
		}
	}
	return e.fallback.ExtractName(text)
}

// newDocument tags text with model, or with the embedded default model when
// model is nil. Panics inside prose become errors.
func newDocument(text string, model *prose.Model) (doc *prose.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("op=resumeparser.newDocument: entity model panicked: %v", r)
		}
	}()
	opts := []prose.DocOpt{prose.WithSegmentation(false)}
	if model != nil {
		opts = append(opts, prose.UsingModel(model))
	}
	doc, err = prose.NewDocument(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("op=resumeparser.newDocument: %w", err)
	}
	return doc, nil
}

// NewNameExtractor selects the name strategy once at startup. The entity
// model is loaded here and the first-line strategy is used if it cannot run.
func NewNameExtractor(kind string) domain.NameExtractor {
	if strings.EqualFold(kind, "firstline") {
		return FirstLineExtractor{}
	}
	ext, err := NewEntityExtractor()
	if err != nil {
		slog.Warn("entity name extraction unavailable, using first line", slog.Any("error", err))
		return FirstLineExtractor{}
	}
	return ext
}
