package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
)

// Error kinds. An *APIError matches exactly one of them with errors.Is.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrPermission     = errors.New("permission denied")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrTransient      = errors.New("transient failure")
	ErrUnexpected     = errors.New("unexpected response")
)

// APIError represents a failed GitHub API call
type APIError struct {
	// Op names the client operation, e.g. "list pull requests"
	Op         string
	Kind       error
	StatusCode int
	Message    string
	Errors     []APIErrorDetail
	// Rate limit information when rate limited
	RateLimit *RateLimitInfo
	Err       error
}

// APIErrorDetail represents individual error details from GitHub
type APIErrorDetail struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// RateLimitInfo contains rate limit information from response headers
type RateLimitInfo struct {
	Limit     int
	Remaining int
	Reset     int64 // Unix timestamp
}

// Error returns the error message
func (e *APIError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.StatusCode != 0 && e.Message != "":
		fmt.Fprintf(&b, "GitHub API error (status %d): %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		fmt.Fprintf(&b, "GitHub API error (status %d)", e.StatusCode)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.Error())
	}
	for _, d := range e.Errors {
		if d.Message != "" {
			fmt.Fprintf(&b, "; %s", d.Message)
		} else if d.Field != "" {
			fmt.Fprintf(&b, "; %s %s %s", d.Resource, d.Field, d.Code)
		}
	}
	return b.String()
}

// Unwrap returns the underlying go-github or transport error
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error
func (e *APIError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// IsRateLimitError returns true if the error is a rate limit error
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.RateLimit != nil
}

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthenticationError returns true if the token was rejected or cannot read the resource
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsPermissionError returns true if the token lacks the scope for a mutating call
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsValidationError returns true if GitHub rejected the request payload
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransientError returns true for network failures, 5xx and rate limiting
func IsTransientError(err error) bool {
	return errors.Is(err, ErrTransient)
}

// opKind tells classifyError how to read a 403
type opKind int

const (
	opRead opKind = iota
	opWrite
)

// classifyError converts a go-github or transport error into an *APIError.
// A 403 on a read means the token cannot see the repository; on a write it
// means the token lacks the scope to mutate it.
func classifyError(op string, kind opKind, err error) error {
	if err == nil {
		return nil
	}

	apiErr := &APIError{Op: op, Err: err}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse

	switch {
	case errors.As(err, &rateErr):
		apiErr.Kind = ErrTransient
		apiErr.StatusCode = statusCode(rateErr.Response)
		apiErr.Message = rateErr.Message
		apiErr.RateLimit = &RateLimitInfo{
			Limit:     rateErr.Rate.Limit,
			Remaining: rateErr.Rate.Remaining,
			Reset:     rateErr.Rate.Reset.Unix(),
		}
	case errors.As(err, &abuseErr):
		apiErr.Kind = ErrTransient
		apiErr.StatusCode = statusCode(abuseErr.Response)
		apiErr.Message = abuseErr.Message
	case errors.As(err, &respErr):
		apiErr.StatusCode = statusCode(respErr.Response)
		apiErr.Message = respErr.Message
		for _, e := range respErr.Errors {
			apiErr.Errors = append(apiErr.Errors, APIErrorDetail{
				Resource: e.Resource,
				Field:    e.Field,
				Code:     e.Code,
				Message:  e.Message,
			})
		}
		apiErr.Kind = kindForStatus(apiErr.StatusCode, kind)
	default:
		// No HTTP response: DNS, connection refused, timeouts, TLS
		apiErr.Kind = ErrTransient
	}

	return apiErr
}

// kindForStatus maps an HTTP status code to an error kind
func kindForStatus(code int, kind opKind) error {
	switch {
	case code == http.StatusUnauthorized:
		return ErrAuthentication
	case code == http.StatusForbidden && kind == opWrite:
		return ErrPermission
	case code == http.StatusForbidden:
		return ErrAuthentication
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnprocessableEntity:
		return ErrValidation
	case code == http.StatusTooManyRequests, code >= 500:
		return ErrTransient
	default:
		return ErrUnexpected
	}
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
