package textextractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// PDF reads the text layer of PDF files page by page.
type PDF struct{}

// ExtractPath implements domain.TextExtractor.
func (PDF) ExtractPath(_ context.Context, _ string, path string) (text string, err error) {
	// the pdf library panics on some malformed cross reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("op=textextractor.PDF: malformed document: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("op=textextractor.PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("op=textextractor.PDF: page %d: %w", i, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return textx.SanitizeText(b.String()), nil
}
