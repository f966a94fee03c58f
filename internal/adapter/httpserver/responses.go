// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the resume upload and analysis endpoints, the job lookup
// endpoint and the health probes. Business logic lives in usecase; this
// package only maps requests and errors to JSON.
package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fairyhunter13/resumeiq/internal/domain"
)

var (
	errNoFile        = fmt.Errorf("%w: no file uploaded", domain.ErrInvalidArgument)
	errUploadTooBig  = fmt.Errorf("%w: upload too large", domain.ErrInvalidArgument)
	errNotAcceptable = fmt.Errorf("%w: not acceptable", domain.ErrInvalidArgument)
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

// uploadError is the flat error payload of the upload endpoints.
type uploadError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the error taxonomy to an HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errNotAcceptable):
		return http.StatusNotAcceptable, "NOT_ACCEPTABLE"
	case errors.Is(err, errUploadTooBig):
		return http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"
	case errors.Is(err, domain.ErrNoTextExtracted), errors.Is(err, domain.ErrExtraction):
		return http.StatusUnprocessableEntity, "UNPROCESSABLE"
	case errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnsupportedCountry):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details interface{}) {
	code, codeStr := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: msg, Details: details}})
}

// uploadMessage is the user facing text for a failed upload. Causes of
// extraction errors are never included.
func uploadMessage(err error, maxMB int64) string {
	var ue *domain.UnsupportedFormatError
	var ee *domain.ExtractionError
	switch {
	case errors.Is(err, errNoFile):
		return "No file uploaded"
	case errors.Is(err, errUploadTooBig):
		return fmt.Sprintf("The uploaded file exceeds the %d MB limit", maxMB)
	case errors.Is(err, domain.ErrEmptyFile):
		return "The uploaded file is empty"
	case errors.As(err, &ue):
		return "Unsupported file format: " + ue.Ext
	case errors.Is(err, domain.ErrNoTextExtracted):
		return "No text could be extracted from the file"
	case errors.As(err, &ee):
		return "Error processing resume: " + ee.Error()
	}
	return "Error processing resume: internal error"
}

// writeUploadError writes {"error": msg}. The status is 200 unless
// statusCodes is set, in which case it follows statusFor.
func writeUploadError(w http.ResponseWriter, err error, maxMB int64, statusCodes bool) {
	status := http.StatusOK
	if statusCodes {
		status, _ = statusFor(err)
	}
	writeJSON(w, status, uploadError{Error: uploadMessage(err, maxMB)})
}
