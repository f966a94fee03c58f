// Package tika extracts text through an Apache Tika server. It serves the
// formats no local library reads: legacy .doc files and images, which Tika
// runs through Tesseract OCR.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/resumeiq/internal/domain"
	"github.com/fairyhunter13/resumeiq/internal/observability"
	"github.com/fairyhunter13/resumeiq/pkg/textx"
)

// Client is a minimal Apache Tika HTTP client implementing domain.TextExtractor.
// It performs PUT /tika with Accept: text/plain to retrieve extracted text.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL      string
	ocrLanguage  string
	allowedRoots []string
	httpClient   *http.Client
	obs          *observability.ExternalClient
}

// Option customizes a Client.
type Option func(*Client)

// WithAllowedRoots adds directories files may be read from. The system temp
// dir and the working directory are always allowed.
func WithAllowedRoots(dirs ...string) Option {
	return func(c *Client) {
		for _, d := range dirs {
			if d == "" {
				continue
			}
			if abs, err := filepath.Abs(d); err == nil {
				c.allowedRoots = append(c.allowedRoots, filepath.Clean(abs))
			}
		}
	}
}

// WithOCRLanguage sets the Tesseract language passed to Tika for images.
func WithOCRLanguage(lang string) Option {
	return func(c *Client) { c.ocrLanguage = lang }
}

// New constructs a Tika client. timeout bounds every extraction call.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9998"
	}
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:     baseURL,
		ocrLanguage: "eng",
		httpClient:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		obs:         observability.NewExternalClient(observability.ConnectionTypeTika, baseURL, timeout),
	}
	c.allowedRoots = append(c.allowedRoots, filepath.Clean(os.TempDir()))
	if wd, err := os.Getwd(); err == nil {
		c.allowedRoots = append(c.allowedRoots, filepath.Clean(wd))
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ExtractPath uploads the file at path to the Tika server and returns plain
// text with line breaks preserved.
func (c *Client) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	openPath, err := c.constrain(path)
	if err != nil {
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}
	// Read file contents to avoid gosec G304 concerns around os.Open with variable paths.
	bfile, err := os.ReadFile(openPath)
	if err != nil {
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}

	var result string
	err = c.obs.Execute(ctx, "extract", func(callCtx context.Context) error {
		req, err := http.NewRequestWithContext(callCtx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(bfile))
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "text/plain")
		ct := contentType(fileName, bfile)
		req.Header.Set("Content-Type", ct)
		if strings.HasPrefix(ct, "image/") && c.ocrLanguage != "" {
			req.Header.Set("X-Tika-OCRLanguage", c.ocrLanguage)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: tika status %d", domain.ErrExternalService, resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		result = textx.SanitizeText(string(b))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("op=tika.ExtractPath: %w", err)
	}
	return result, nil
}

// Ping checks that the Tika server answers GET /version.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("op=tika.Ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("op=tika.Ping: tika status %d", resp.StatusCode)
	}
	return nil
}

// constrain resolves path and rejects anything outside the allowed roots.
func (c *Client) constrain(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	for _, root := range c.allowedRoots {
		if abs == root || strings.HasPrefix(abs, root+string(os.PathSeparator)) {
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", err
			}
			return filepath.Join(root, rel), nil
		}
	}
	return "", fmt.Errorf("disallowed path: %s", abs)
}

// contentType prefers the extension and falls back to sniffing the bytes.
func contentType(fileName string, content []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".doc":
		return "application/msword"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	}
	return mimetype.Detect(content).String()
}
