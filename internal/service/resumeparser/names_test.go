package resumeparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstLineExtractor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple", "Jane Roe\nEngineer", "Jane Roe"},
		{"leading blank lines", "\n\n   Jane Roe  \nEngineer", "Jane Roe"},
		{"empty", "", ""},
		{"whitespace only", " \n\t\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstLineExtractor{}.ExtractName(tt.text))
		})
	}
}

func newEntityExtractor(t *testing.T) EntityExtractor {
	t.Helper()
	ext, err := NewEntityExtractor()
	require.NoError(t, err)
	return ext
}

func TestNewEntityExtractor_LoadsModelOnce(t *testing.T) {
	ext := newEntityExtractor(t)
	require.NotNil(t, ext.model)

	// Every call reuses the loaded model instead of decoding a new one.
	doc, err := newDocument("Maria Garcia lives in Madrid.", ext.model)
	require.NoError(t, err)
	assert.Same(t, ext.model, doc.Model)
}

func TestEntityExtractor_AlwaysReturnsAName(t *testing.T) {
	// The entity model may or may not tag the name; either path must yield one.
	got := newEntityExtractor(t).ExtractName("Curriculum Vitae\nMaria Garcia is a data scientist living in Madrid.")
	assert.NotEmpty(t, got)
}

func TestEntityExtractor_ReadsOnlyTheHead(t *testing.T) {
	text := "Resume\n" + strings.Repeat("lorem ipsum ", 200) + "Barack Obama"
	got := newEntityExtractor(t).ExtractName(text)
	assert.NotEqual(t, "Barack Obama", got)
}

func TestEntityExtractor_ZeroValueUsesFirstLine(t *testing.T) {
	assert.Equal(t, "Jane Roe", EntityExtractor{}.ExtractName("Jane Roe\nEngineer"))
}

func TestNewNameExtractor(t *testing.T) {
	assert.IsType(t, FirstLineExtractor{}, NewNameExtractor("firstline"))
	assert.IsType(t, FirstLineExtractor{}, NewNameExtractor("FIRSTLINE"))

	ext := NewNameExtractor("entity")
	require.IsType(t, EntityExtractor{}, ext)
	assert.NotNil(t, ext.(EntityExtractor).model)
	assert.NotEmpty(t, ext.ExtractName("Jane Roe\nEngineer"))
}
