package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/resumeiq/internal/adapter/httpserver"
	"github.com/fairyhunter13/resumeiq/internal/adapter/textextractor"
	"github.com/fairyhunter13/resumeiq/internal/config"
	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/service/jobs"
	"github.com/fairyhunter13/resumeiq/internal/service/resumeparser"
	"github.com/fairyhunter13/resumeiq/internal/service/scoring"
	"github.com/fairyhunter13/resumeiq/internal/service/suggestions"
	"github.com/fairyhunter13/resumeiq/internal/usecase"
)

const sampleResume = "John Doe\njohn@example.com\n+1-555-123-4567\nSkills: python, react, aws\nEducation: B.Tech Computer Science\nExperience: 5 years"

// stubExtractor accepts pdf and txt and always fails with err.
type stubExtractor struct{ err error }

func (s stubExtractor) ExtractPath(context.Context, string, string) (string, error) {
	return "", s.err
}
func (stubExtractor) Supported(ext string) bool { return ext == "pdf" || ext == "txt" }

type canceledAnalyzer struct{}

func (canceledAnalyzer) Analyze(context.Context, string) (domain.Analysis, error) {
	return domain.Analysis{}, context.Canceled
}

func offlineServer(t *testing.T, cfg config.Config) *httpserver.Server {
	t.Helper()
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = 1
	}
	catalog := config.DefaultCatalog()
	rec := jobs.NewRecommender(catalog, nil)
	analyzer := usecase.NewAnalyzeService(
		resumeparser.New(catalog.SkillKeywords, resumeparser.FirstLineExtractor{}),
		scoring.New(catalog.MarketSkills, catalog.SkillKeywords),
		rec,
		suggestions.StaticGenerator{},
	)
	uploads := usecase.NewUploadService(textextractor.NewRegistry(nil), t.TempDir())
	return httpserver.NewServer(cfg, uploads, analyzer, rec, nil, nil)
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	r := httptest.NewRequest(http.MethodPost, "/v1/upload", buf)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestUploadHandler_SampleResume(t *testing.T) {
	srv := offlineServer(t, config.Config{})
	rec := httptest.NewRecorder()
	srv.UploadHandler()(rec, multipartRequest(t, "file", "resume.txt", []byte(sampleResume)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	names := make([]string, 0, len(resp.Skills))
	for _, s := range resp.Skills {
		names = append(names, s.Name)
		assert.Equal(t, 85, s.Score)
	}
	assert.Subset(t, names, []string{"python", "react", "aws"})
	assert.Greater(t, resp.Scores.Overall, 0)
	assert.Equal(t, (resp.Scores.Overall+resp.Scores.Ats)/2, resp.Scores.Content)
	require.Len(t, resp.Jobs, 10)
	for _, j := range resp.Jobs {
		assert.Equal(t, resp.Scores.Content, j.Match)
	}
	assert.Contains(t, resp.Jobs[0].Location, "India")
	assert.Contains(t, resp.Jobs[9].Location, "USA")
	assert.Len(t, resp.Suggestions, 7)
	assert.Equal(t, domain.SourceFallback, resp.SuggestionSource)
	assert.Equal(t, "john@example.com", resp.Profile.Email)
}

func TestUploadHandler_Failures(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		filename   string
		content    []byte
		extractErr error
		want       string
		wantStatus int
	}{
		{"empty file", "file", "cv.txt", nil, nil, "The uploaded file is empty", http.StatusBadRequest},
		{"unsupported extension", "file", "cv.xyz", []byte("hello"), nil, "Unsupported file format: xyz", http.StatusUnsupportedMediaType},
		{"whitespace text", "file", "cv.txt", []byte(" \n\t "), nil, "No text could be extracted from the file", http.StatusUnprocessableEntity},
		{"missing field", "resume", "cv.txt", []byte("hello"), nil, "No file uploaded", http.StatusBadRequest},
		{"image without ocr backend", "file", "scan.png", []byte{0x89, 'P', 'N', 'G'}, nil, "Error processing resume: could not read png document", http.StatusUnprocessableEntity},
		{"doc without converter", "file", "old.doc", []byte{0xD0, 0xCF, 0x11, 0xE0}, nil, "Error processing resume: could not read doc document", http.StatusUnprocessableEntity},
		{
			"corrupt pdf", "file", "cv.pdf", []byte("%PDF-broken"),
			&domain.ExtractionError{Format: "pdf", Err: errors.New("malformed xref at offset 12")},
			"Error processing resume: could not read pdf document", http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		for _, statusCodes := range []bool{false, true} {
			t.Run(tt.name, func(t *testing.T) {
				cfg := config.Config{HTTPErrorStatus: statusCodes}
				srv := offlineServer(t, cfg)
				if tt.extractErr != nil {
					srv.Uploads = usecase.NewUploadService(stubExtractor{err: tt.extractErr}, t.TempDir())
				}
				rec := httptest.NewRecorder()
				srv.UploadHandler()(rec, multipartRequest(t, tt.field, tt.filename, tt.content))

				want := http.StatusOK
				if statusCodes {
					want = tt.wantStatus
				}
				assert.Equal(t, want, rec.Code)
				assert.Equal(t, map[string]any{"error": tt.want}, decode(t, rec))
				assert.NotContains(t, rec.Body.String(), "xref")
			})
		}
	}
}

func TestUploadHandler_TooLarge(t *testing.T) {
	srv := offlineServer(t, config.Config{MaxUploadMB: 1, HTTPErrorStatus: true})
	big := bytes.Repeat([]byte("a"), 3<<20)
	rec := httptest.NewRecorder()
	srv.UploadHandler()(rec, multipartRequest(t, "file", "cv.txt", big))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "The uploaded file exceeds the 1 MB limit", decode(t, rec)["error"])
}

func TestUploadHandler_AnalysisCanceled(t *testing.T) {
	srv := offlineServer(t, config.Config{})
	srv.Analyzer = canceledAnalyzer{}
	rec := httptest.NewRecorder()
	srv.UploadHandler()(rec, multipartRequest(t, "file", "cv.txt", []byte(sampleResume)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Error processing resume: internal error", decode(t, rec)["error"])
}

func TestAnalyzeHandler(t *testing.T) {
	srv := offlineServer(t, config.Config{})

	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"text": sampleResume})
		rec := httptest.NewRecorder()
		srv.AnalyzeHandler()(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		m := decode(t, rec)
		assert.Len(t, m["jobs"], 10)
		assert.Contains(t, m, "ats_report")
	})

	t.Run("missing text", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.AnalyzeHandler()(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"text":"   "}`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		e := decode(t, rec)["error"].(map[string]any)
		assert.Equal(t, "INVALID_ARGUMENT", e["code"])
		details := e["details"].([]any)
		require.Len(t, details, 1)
		assert.Equal(t, "text", details[0].(map[string]any)["field"])
		assert.Equal(t, "REQUIRED", details[0].(map[string]any)["code"])
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.AnalyzeHandler()(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not acceptable", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"text":"x"}`))
		r.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		srv.AnalyzeHandler()(rec, r)
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})
}

func TestJobsHandler(t *testing.T) {
	srv := offlineServer(t, config.Config{})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFirst  string
	}{
		{"us listings", "?skill=Go&country=US", http.StatusOK, "Senior Go Developer"},
		{"default country", "?skill=python", http.StatusOK, "Senior Python Developer"},
		{"missing skill", "?country=in", http.StatusBadRequest, ""},
		{"bad country", "?skill=go&country=uk", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.JobsHandler()(rec, httptest.NewRequest(http.MethodGet, "/v1/jobs"+tt.query, nil))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantFirst == "" {
				return
			}
			var body struct {
				Jobs []domain.JobListing `json:"jobs"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Len(t, body.Jobs, 5)
			assert.Equal(t, tt.wantFirst, body.Jobs[0].Title)
		})
	}
}

func TestHealthAndWelcome(t *testing.T) {
	rec := httptest.NewRecorder()
	httpserver.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","message":"ResumeIQ API is running"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	httpserver.WelcomeHandler(rec, httptest.NewRequest(http.MethodGet, "/welcome", nil))
	assert.JSONEq(t, `{"message":"Welcome to the ResumeIQ API!"}`, rec.Body.String())
}

func TestReadyzHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name       string
		redis      func(context.Context) error
		tika       func(context.Context) error
		wantStatus int
		wantChecks int
	}{
		{"no probes", nil, nil, http.StatusOK, 0},
		{"all ok", ok, ok, http.StatusOK, 2},
		{"tika down", ok, down, http.StatusServiceUnavailable, 2},
		{"redis down only", down, nil, http.StatusServiceUnavailable, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httpserver.NewServer(config.Config{}, nil, nil, nil, tt.redis, tt.tika)
			rec := httptest.NewRecorder()
			srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Len(t, decode(t, rec)["checks"], tt.wantChecks)
		})
	}
}
