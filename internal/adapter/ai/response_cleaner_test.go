package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseCleaner_StripCodeFences(t *testing.T) {
	rc := NewResponseCleaner()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
		{"upper tag", "```JSON\n{\"a\":1}```", `{"a":1}`},
		{"single line fence", "```{\"a\":1}```", `{"a":1}`},
		{"surrounding space", "  \n```json\n{}\n```  \n", `{}`},
		{"prose untouched", "Use action verbs.", "Use action verbs."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rc.StripCodeFences(tt.in))
		})
	}
}

func TestResponseCleaner_ExtractJSON(t *testing.T) {
	rc := NewResponseCleaner()
	assert.Equal(t, `{"a":{"b":1}}`, rc.ExtractJSON(`Here you go: {"a":{"b":1}} hope it helps`))
	assert.Equal(t, `["x","y"]`, rc.ExtractJSON(`list: ["x","y"].`))
	assert.Equal(t, `{"t":"a } b"}`, rc.ExtractJSON(`{"t":"a } b"} trailing }`))
	assert.Equal(t, `{"t":"say \"}\""}`, rc.ExtractJSON(`{"t":"say \"}\""}`))
	assert.Equal(t, "no json here", rc.ExtractJSON("no json here"))
	assert.Equal(t, `{"open":`, rc.ExtractJSON(`{"open":`))
}

func TestResponseCleaner_Clean(t *testing.T) {
	rc := NewResponseCleaner()
	assert.Equal(t, `{"Format":["x"]}`, rc.Clean("```json\n{\"Format\":[\"x\"]}\n```"))
	assert.Equal(t, `{"a":1}`, rc.Clean(`Sure! {"a":1}`))
	assert.Equal(t, "just advice", rc.Clean("just advice"))
	assert.True(t, rc.IsValidJSON(`[]`))
	assert.False(t, rc.IsValidJSON(`{`))
}
