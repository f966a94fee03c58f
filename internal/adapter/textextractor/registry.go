// Package textextractor turns uploaded resume files into plain text. Each
// format has its own extractor and Registry dispatches on the extension.
package textextractor

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/fairyhunter13/resumeiq/internal/domain"
)

// Registry maps lowercase extensions to extractors and implements
// domain.TextExtractor. Register is not safe for use once requests are
// being served.
type Registry struct {
	byExt map[string]domain.TextExtractor
}

// RemoteExtensions are read by the remote extractor (Tika).
var RemoteExtensions = []string{"doc", "png", "jpg", "jpeg"}

// ErrRemoteUnavailable is the cause reported for .doc and image uploads
// when no remote extractor is configured.
var ErrRemoteUnavailable = errors.New("document conversion and OCR backend not configured")

// unavailable keeps an extension recognized while its backend is missing.
type unavailable struct{}

func (unavailable) ExtractPath(_ context.Context, fileName, _ string) (string, error) {
	return "", &domain.ExtractionError{Format: Ext(fileName), Err: ErrRemoteUnavailable}
}

// NewRegistry wires the local extractors and the remote one used for .doc
// and image files. With a nil remote those extensions stay recognized and
// fail with a *domain.ExtractionError.
func NewRegistry(remote domain.TextExtractor) *Registry {
	r := &Registry{byExt: map[string]domain.TextExtractor{
		"pdf":  PDF{},
		"docx": DOCX{},
		"txt":  PlainText{},
	}}
	if remote == nil {
		remote = unavailable{}
	}
	for _, ext := range RemoteExtensions {
		r.byExt[ext] = remote
	}
	return r
}

// Register replaces or adds the extractor for ext.
func (r *Registry) Register(ext string, e domain.TextExtractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Supported reports whether ext (without dot) can be extracted.
func (r *Registry) Supported(ext string) bool {
	_, ok := r.byExt[strings.ToLower(ext)]
	return ok
}

// Extensions lists the supported extensions in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ExtractPath dispatches on the extension of fileName. Extractor failures
// come back as *domain.ExtractionError.
func (r *Registry) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	ext := Ext(fileName)
	e, ok := r.byExt[ext]
	if !ok {
		return "", &domain.UnsupportedFormatError{Ext: ext}
	}
	text, err := e.ExtractPath(ctx, fileName, path)
	if err != nil {
		var ee *domain.ExtractionError
		if errors.As(err, &ee) {
			return "", err
		}
		return "", &domain.ExtractionError{Format: ext, Err: err}
	}
	return text, nil
}

// Ext is the dispatch key of name.
func Ext(name string) string { return domain.FileExt(name) }
