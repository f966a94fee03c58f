package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
)

// FormatExtractor extracts text and reports which extensions it handles.
type FormatExtractor interface {
	domain.TextExtractor
	Supported(ext string) bool
}

// UploadService turns uploaded bytes into resume text.
type UploadService struct {
	Extractor FormatExtractor
	// TempDir holds the per-request temp files; empty means os.TempDir().
	TempDir string
}

// NewUploadService constructs an UploadService.
func NewUploadService(extractor FormatExtractor, tempDir string) UploadService {
	return UploadService{Extractor: extractor, TempDir: tempDir}
}

// ExtractText validates the upload, stages it in a temp file that is always
// removed, and extracts its text. Errors are domain.ErrEmptyFile,
// *domain.UnsupportedFormatError, *domain.ExtractionError or
// domain.ErrNoTextExtracted.
func (s UploadService) ExtractText(ctx domain.Context, filename string, data []byte) (string, error) {
	ext := domain.FileExt(filename)
	lg := observability.Logger(ctx, "filename", filename, "ext", ext, "size", len(data))

	if len(data) == 0 {
		lg.Warn("empty upload rejected")
		return "", fmt.Errorf("op=usecase.ExtractText: %w", domain.ErrEmptyFile)
	}
	if !s.Extractor.Supported(ext) {
		lg.Warn("unsupported upload format")
		return "", fmt.Errorf("op=usecase.ExtractText: %w", &domain.UnsupportedFormatError{Ext: ext})
	}
	lg.Info("resume upload received", "mime", mimetype.Detect(data).String())

	path, cleanup, err := s.stage(lg, ext, data)
	if err != nil {
		lg.Error("failed to stage upload", "error", err)
		return "", fmt.Errorf("op=usecase.ExtractText: %w", &domain.ExtractionError{Format: ext, Err: err})
	}
	defer cleanup()

	text, err := s.Extractor.ExtractPath(ctx, filename, path)
	if err != nil {
		var ee *domain.ExtractionError
		if !errors.As(err, &ee) {
			err = &domain.ExtractionError{Format: ext, Err: err}
		}
		lg.Error("text extraction failed", "error", err, "cause", errors.Unwrap(err))
		return "", fmt.Errorf("op=usecase.ExtractText: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		lg.Warn("no text extracted")
		return "", fmt.Errorf("op=usecase.ExtractText: %w", domain.ErrNoTextExtracted)
	}
	lg.Info("text extracted", "chars", len(text))
	return text, nil
}

// stage writes data to a fresh temp file named after ext. cleanup removes
// it and only logs failures.
func (s UploadService) stage(lg *slog.Logger, ext string, data []byte) (string, func(), error) {
	tmp, err := os.CreateTemp(s.TempDir, "resume-*."+ext)
	if err != nil {
		return "", nil, err
	}
	path := tmp.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			lg.Warn("failed to remove upload temp file", "path", path, "error", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
