// ABOUTME: Uniform application error for upstream and validation failures.
// ABOUTME: Normalize maps transport and status failures onto stable error codes.

package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code classifies an Error.
type Code string

// Error codes surfaced to tool callers.
const (
	CodeInvalidParams Code = "INVALID_PARAMS"
	CodeNotFound      Code = "NOT_FOUND"
	CodeBadRequest    Code = "BAD_REQUEST"
	CodeRateLimited   Code = "RATE_LIMITED"
	CodeUpstream      Code = "UPSTREAM_ERROR"
	CodeTimeout       Code = "TIMEOUT"
	CodeCancelled     Code = "CANCELLED"
	CodeNetwork       Code = "NETWORK_ERROR"
	CodeUnknown       Code = "UNKNOWN"
)

// Sentinel errors for errors.Is checks against an *Error's code.
var (
	ErrInvalidParams = &Error{Code: CodeInvalidParams}
	ErrNotFound      = &Error{Code: CodeNotFound}
	ErrBadRequest    = &Error{Code: CodeBadRequest}
	ErrRateLimited   = &Error{Code: CodeRateLimited}
	ErrUpstream      = &Error{Code: CodeUpstream}
	ErrTimeout       = &Error{Code: CodeTimeout}
	ErrCancelled     = &Error{Code: CodeCancelled}
	ErrNetwork       = &Error{Code: CodeNetwork}
)

// Error is the uniform failure returned to tool callers.
type Error struct {
	Code    Code
	Message string
	Status  int
	URL     string
	Details any

	cause error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error by code so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// StatusError is the shape of an upstream HTTP status failure.
// *srclient.StatusFailure satisfies it.
type StatusError interface {
	error
	HTTPStatus() int
	Body() string
	RequestURL() string
}

// Normalize converts any failure into an *Error. An *Error passes through.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return fromStatus(statusErr)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{
			Code:    CodeTimeout,
			Message: fmt.Sprintf("request timed out: %v", err),
			cause:   err,
		}
	case errors.Is(err, context.Canceled):
		return &Error{
			Code:    CodeCancelled,
			Message: fmt.Sprintf("request cancelled: %v", err),
			cause:   err,
		}
	default:
		return &Error{
			Code:    CodeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			cause:   err,
		}
	}
}

func fromStatus(se StatusError) *Error {
	status := se.HTTPStatus()

	code := CodeUpstream
	var message string
	switch {
	case status == http.StatusNotFound:
		code = CodeNotFound
		message = "resource not found"
	case status == http.StatusBadRequest:
		code = CodeBadRequest
		message = "upstream rejected the request"
	case status == http.StatusTooManyRequests:
		code = CodeRateLimited
		message = "upstream rate limit exceeded"
	default:
		message = "upstream request failed"
	}

	return &Error{
		Code:    code,
		Message: fmt.Sprintf("%s (status %d)", message, status),
		Status:  status,
		URL:     se.RequestURL(),
		Details: bodyDetails(se.Body()),
		cause:   se,
	}
}

// bodyDetails keeps a JSON error body structured and falls back to text.
func bodyDetails(body string) any {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}

// Invalid builds a validation failure carrying the offending issues.
func Invalid(details any) *Error {
	return &Error{
		Code:    CodeInvalidParams,
		Message: "invalid or missing arguments",
		Details: map[string]any{"issues": details},
	}
}

// Payload renders err as the serializable object returned in tool results.
func Payload(err error) map[string]any {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		payload := map[string]any{
			"name":    "SRAPIError",
			"code":    string(apiErr.Code),
			"message": apiErr.Message,
		}
		if apiErr.Status != 0 {
			payload["status"] = apiErr.Status
		}
		if apiErr.URL != "" {
			payload["url"] = apiErr.URL
		}
		if apiErr.Details != nil {
			payload["details"] = apiErr.Details
		}
		return payload
	}

	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	return map[string]any{
		"name":    "Error",
		"code":    string(CodeUnknown),
		"message": message,
	}
}
