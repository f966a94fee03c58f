package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	obsmetrics "github.com/fairyhunter13/resumeiq/internal/adapter/observability"
	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
	"github.com/fairyhunter13/resumeiq/internal/usecase"
)

// TextUploader turns an uploaded file into resume text.
type TextUploader interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
}

// Analyzer runs the analysis pipeline on resume text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (domain.Analysis, error)
}

// JobFinder returns job listings for a skill in one market.
type JobFinder interface {
	Recommend(ctx context.Context, skill, country string) ([]domain.JobListing, error)
}

// Server aggregates handlers dependencies.
type Server struct {
	Cfg        config.Config
	Uploads    TextUploader
	Analyzer   Analyzer
	Jobs       JobFinder
	RedisCheck func(ctx context.Context) error
	TikaCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
// Nil checks are skipped by /readyz.
func NewServer(cfg config.Config, uploads TextUploader, analyzer Analyzer, jobs JobFinder, redisCheck, tikaCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Uploads: uploads, Analyzer: analyzer, Jobs: jobs, RedisCheck: redisCheck, TikaCheck: tikaCheck}
}

// acceptsJSON reports whether the Accept header allows a JSON response.
func acceptsJSON(r *http.Request) bool {
	a := r.Header.Get("Accept")
	return a == "" || strings.Contains(a, "*/*") || strings.Contains(a, "application/json")
}

// multipartOverhead is the body allowance above the file limit for
// boundaries and part headers.
const multipartOverhead = 1 << 20

// UploadHandler accepts a single multipart file field named "file" and
// returns the analysis of its text.
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := s.Cfg.MaxUploadBytes()
		fail := func(err error, filename string, size int) {
			observability.Logger(r.Context(),
				"filename", filename,
				"ext", domain.FileExt(filename),
				"size", size,
			).Warn("resume upload failed", "error", err)
			// Analyze records its own cancellations.
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				_, reason := statusFor(err)
				obsmetrics.RecordAnalysisFailure(strings.ToLower(reason))
			}
			writeUploadError(w, err, s.Cfg.MaxUploadMB, s.Cfg.HTTPErrorStatus)
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				fail(errUploadTooBig, "", 0)
				return
			}
			fail(fmt.Errorf("%w: %v", errNoFile, err), "", 0)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			fail(errNoFile, "", 0)
			return
		}
		defer func() { _ = file.Close() }()
		if header.Size > maxBytes {
			fail(errUploadTooBig, header.Filename, int(header.Size))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			fail(fmt.Errorf("read upload: %w", err), header.Filename, 0)
			return
		}
		text, err := s.Uploads.ExtractText(r.Context(), header.Filename, data)
		if err != nil {
			fail(err, header.Filename, len(data))
			return
		}
		actx := observability.WithAttrs(r.Context(), "filename", header.Filename)
		analysis, err := s.Analyzer.Analyze(actx, text)
		if err != nil {
			fail(err, header.Filename, len(data))
			return
		}
		writeJSON(w, http.StatusOK, usecase.BuildResponse(analysis))
	}
}

// AnalyzeHandler runs the analysis on pasted resume text.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r) {
			writeError(w, r, errNotAcceptable, map[string]any{"accept": r.Header.Get("Accept")})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 4*MaxAnalyzeTextLen+1024)
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		req.Text = strings.TrimSpace(req.Text)
		if verrs := validate(req); len(verrs) > 0 {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		analysis, err := s.Analyzer.Analyze(r.Context(), req.Text)
		if err != nil {
			observability.Logger(r.Context()).Error("analysis failed", "error", err, "chars", len(req.Text))
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, usecase.BuildResponse(analysis))
	}
}

// JobsHandler returns listings for ?skill=&country=.
func (s *Server) JobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r) {
			writeError(w, r, errNotAcceptable, map[string]any{"accept": r.Header.Get("Accept")})
			return
		}
		q := jobsQuery{
			Skill:   SanitizeString(r.URL.Query().Get("skill")),
			Country: strings.ToLower(SanitizeString(r.URL.Query().Get("country"))),
		}
		if q.Country == "" {
			q.Country = domain.CountryIndia
		}
		if verrs := validate(q); len(verrs) > 0 {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		jobs, err := s.Jobs.Recommend(r.Context(), strings.ToLower(q.Skill), q.Country)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"skill": q.Skill, "country": q.Country, "jobs": jobs})
	}
}

// HealthHandler reports that the API process is up.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "ResumeIQ API is running"})
}

// WelcomeHandler greets API clients.
func WelcomeHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the ResumeIQ API!"})
}

// ReadyzHandler returns a readiness handler that probes Redis and Tika.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		probes := []struct {
			name string
			fn   func(context.Context) error
		}{
			{"redis", s.RedisCheck},
			{"tika", s.TikaCheck},
		}
		checks := make([]check, 0, len(probes))
		st := http.StatusOK
		for _, p := range probes {
			if p.fn == nil {
				continue
			}
			if err := p.fn(ctx); err != nil {
				checks = append(checks, check{Name: p.name, OK: false, Details: err.Error()})
				st = http.StatusServiceUnavailable
				continue
			}
			checks = append(checks, check{Name: p.name, OK: true})
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
