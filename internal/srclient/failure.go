// ABOUTME: Failure shapes handed to the error normalizer.
// ABOUTME: StatusFailure carries status, body, headers and URL for non-2xx responses.

package srclient

import (
	"fmt"
	"net/http"
	"strings"
)

// Normalizer converts an unrecoverable fetch failure into the application's
// uniform error. It receives either a *StatusFailure or the raw transport error.
type Normalizer func(err error) error

// FailureResponse describes the upstream response of a status failure.
type FailureResponse struct {
	Status  int
	Data    string
	Headers map[string]string
}

// FailureConfig describes the request of a status failure.
type FailureConfig struct {
	URL string
}

// StatusFailure is a non-2xx, non-304 upstream response after retries.
type StatusFailure struct {
	Response FailureResponse
	Config   FailureConfig
}

func (f *StatusFailure) Error() string {
	return fmt.Sprintf("upstream returned status %d for %s", f.Response.Status, f.Config.URL)
}

// HTTPStatus returns the upstream status code.
func (f *StatusFailure) HTTPStatus() int { return f.Response.Status }

// Body returns the upstream response body as text.
func (f *StatusFailure) Body() string { return f.Response.Data }

// Header returns the upstream response headers keyed by lowercase name.
func (f *StatusFailure) Header() map[string]string { return f.Response.Headers }

// RequestURL returns the URL that failed.
func (f *StatusFailure) RequestURL() string { return f.Config.URL }

func newStatusFailure(resp *http.Response, body []byte, rawURL string) *StatusFailure {
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[strings.ToLower(k)] = resp.Header.Get(k)
	}
	return &StatusFailure{
		Response: FailureResponse{
			Status:  resp.StatusCode,
			Data:    string(body),
			Headers: headers,
		},
		Config: FailureConfig{URL: rawURL},
	}
}

// passthrough is the default normalizer: it returns the failure unchanged.
func passthrough(err error) error { return err }
