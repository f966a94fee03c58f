package textextractor

import (
	"context"
	"fmt"
	"os"

	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// PlainText reads UTF-8 text, dropping invalid byte sequences.
type PlainText struct{}

// ExtractPath implements domain.TextExtractor.
func (PlainText) ExtractPath(_ context.Context, _ string, path string) (string, error) {
	// #nosec G304 -- path is the upload temp file created by the caller
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("op=textextractor.PlainText: %w", err)
	}
	return textx.SanitizeText(string(b)), nil
}
