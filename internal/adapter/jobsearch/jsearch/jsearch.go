// Package jsearch implements domain.JobSearcher on the JSearch API hosted
// by RapidAPI.
package jsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// Listing defaults for fields the API leaves out.
const (
	DefaultTitle          = "Software Developer"
	DefaultCompany        = "Tech Company"
	DefaultCity           = "Remote"
	DefaultCountry        = "India"
	DefaultSalary         = "Not specified"
	DefaultExperience     = "Not specified"
	DefaultEmploymentType = "Full-time"
	DefaultApplyLink      = "https://example.com/apply"
	DefaultPostedAt       = "Recent"

	// MaxListings is how many API records are kept per search.
	MaxListings = 5
	// DescriptionRunes is the length descriptions are cut to before "...".
	DescriptionRunes = 200
)

// Config holds the connection settings for Client.
type Config struct {
	APIKey  string
	Host    string
	BaseURL string
	Timeout time.Duration
}

// Client queries JSearch once per call. It never retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
	obs        *observability.ExternalClient
	printer    *message.Printer
}

// New constructs a client.
func New(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = "jsearch.p.rapidapi.com"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.Host
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		obs:        observability.NewExternalClient(observability.ConnectionTypeJobSearch, cfg.BaseURL, cfg.Timeout),
		printer:    message.NewPrinter(language.English),
	}
}

type searchResponse struct {
	Status string      `json:"status"`
	Data   []jobRecord `json:"data"`
}

type jobRecord struct {
	JobTitle              string          `json:"job_title"`
	EmployerName          string          `json:"employer_name"`
	JobCity               string          `json:"job_city"`
	JobCountry            string          `json:"job_country"`
	JobMinSalary          json.RawMessage `json:"job_min_salary"`
	JobRequiredExperience json.RawMessage `json:"job_required_experience"`
	JobEmploymentType     string          `json:"job_employment_type"`
	JobApplyLink          string          `json:"job_apply_link"`
	JobPostedAt           string          `json:"job_posted_at_datetime_utc"`
	JobDescription        string          `json:"job_description"`
}

// Search implements domain.JobSearcher. Any unusable answer, including an
// empty result set, is an error wrapping domain.ErrExternalService.
func (c *Client) Search(ctx domain.Context, skill, country string) ([]domain.JobListing, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("op=jsearch.Search: %w: RAPIDAPI_KEY missing", domain.ErrExternalService)
	}

	q := url.Values{}
	q.Set("query", skill+" developer")
	q.Set("page", "1")
	q.Set("num_pages", "1")
	q.Set("country", country)
	q.Set("remote_jobs_only", "false")
	endpoint := c.cfg.BaseURL + "/search?" + q.Encode()

	var records []jobRecord
	err := c.obs.Execute(ctx, "search", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
		req.Header.Set("x-rapidapi-host", c.cfg.Host)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
		var body searchResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if len(body.Data) == 0 {
			return errors.New("no jobs returned")
		}
		records = body.Data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("op=jsearch.Search: %w: %w", domain.ErrExternalService, err)
	}

	if len(records) > MaxListings {
		records = records[:MaxListings]
	}
	out := make([]domain.JobListing, 0, len(records))
	for _, r := range records {
		out = append(out, c.normalize(r, country))
	}
	return out, nil
}

func (c *Client) normalize(r jobRecord, country string) domain.JobListing {
	return domain.JobListing{
		Title:          orDefault(r.JobTitle, DefaultTitle),
		Company:        orDefault(r.EmployerName, DefaultCompany),
		Location:       orDefault(r.JobCity, DefaultCity) + ", " + orDefault(r.JobCountry, DefaultCountry),
		Salary:         c.formatSalary(r.JobMinSalary, country),
		Experience:     formatExperience(r.JobRequiredExperience),
		EmploymentType: orDefault(r.JobEmploymentType, DefaultEmploymentType),
		ApplyLink:      orDefault(r.JobApplyLink, DefaultApplyLink),
		PostedAt:       orDefault(r.JobPostedAt, DefaultPostedAt),
		Description:    textx.Truncate(plainText(r.JobDescription), DescriptionRunes) + "...",
	}
}

// formatSalary renders a numeric or numeric-string minimum salary as a
// whole amount with thousands separators. Values that are not finite, are
// negative or do not fit an int64 render as DefaultSalary.
func (c *Client) formatSalary(raw json.RawMessage, country string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultSalary
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return DefaultSalary
		}
		num = json.Number(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return DefaultSalary
	}
	currency := "$"
	if country == domain.CountryIndia {
		currency = "₹"
	}
	return currency + c.printer.Sprintf("%d", int64(f))
}

// formatExperience accepts either a plain string or the structured object
// JSearch returns.
func formatExperience(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultExperience
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return orDefault(s, DefaultExperience)
	}
	var obj struct {
		NoExperienceRequired       bool     `json:"no_experience_required"`
		RequiredExperienceInMonths *float64 `json:"required_experience_in_months"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return DefaultExperience
	}
	switch {
	case obj.RequiredExperienceInMonths != nil && *obj.RequiredExperienceInMonths > 0:
		months := int(*obj.RequiredExperienceInMonths)
		if months%12 == 0 {
			return fmt.Sprintf("%d+ years", months/12)
		}
		return fmt.Sprintf("%d+ months", months)
	case obj.NoExperienceRequired:
		return "No experience required"
	default:
		return DefaultExperience
	}
}

// plainText strips markup from descriptions that arrive as HTML.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
