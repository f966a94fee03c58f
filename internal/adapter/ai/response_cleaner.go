// Package ai holds helpers shared by the language model adapters.
package ai

import (
	"encoding/json"
	"strings"
)

// ResponseCleaner normalizes model output before it is decoded.
type ResponseCleaner struct{}

// NewResponseCleaner creates a new response cleaner.
func NewResponseCleaner() *ResponseCleaner {
	return &ResponseCleaner{}
}

// StripCodeFences removes a surrounding markdown code block, with or without
// a language tag, and trims whitespace.
func (rc *ResponseCleaner) StripCodeFences(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}
	response = strings.TrimPrefix(response, "```")
	// drop the info string ("json", "JSON", ...) up to the first newline
	if i := strings.IndexByte(response, '\n'); i >= 0 && !strings.ContainsAny(response[:i], "{[") {
		response = response[i+1:]
	}
	response = strings.TrimSpace(response)
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// ExtractJSON returns the first balanced JSON object or array found in
// response, or response unchanged when there is none. Braces inside string
// literals are ignored.
func (rc *ResponseCleaner) ExtractJSON(response string) string {
	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return response
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(response); i++ {
		ch := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response
}

// Clean strips code fences and, when the remainder is not valid JSON,
// falls back to the first embedded JSON value.
func (rc *ResponseCleaner) Clean(response string) string {
	response = rc.StripCodeFences(response)
	if rc.IsValidJSON(response) {
		return response
	}
	if extracted := rc.ExtractJSON(response); rc.IsValidJSON(extracted) {
		return extracted
	}
	return response
}

// IsValidJSON checks if a string is valid JSON.
func (rc *ResponseCleaner) IsValidJSON(response string) bool {
	return json.Valid([]byte(response))
}
