package chamasdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ============================================================================
// Error Kinds
// ============================================================================

// Every *APIError matches exactly one of these with errors.Is. Calls can
// also fail with the caller's context error or a request-building error,
// which match none of them.
var (
	// ErrUnauthenticated is returned when the session has no usable
	// credentials: the server answered 401 and the refresh exchange failed,
	// the replayed request was rejected again, or there was nothing to refresh.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned for 403 responses. These are never retried.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for 400, 409 and 422 responses. The APIError
	// carries the per-field messages.
	ErrValidation = errors.New("validation failed")

	// ErrServerError is returned for 5xx responses, any other status the
	// caller did not expect, and success bodies that do not decode.
	ErrServerError = errors.New("server error")

	// ErrNetwork is returned when the request never produced a response.
	ErrNetwork = errors.New("network error")
)

// ============================================================================
// APIError
// ============================================================================

// APIError describes a failed API call.
type APIError struct {
	// Kind is one of the Err* sentinels above
	Kind error

	// StatusCode is the HTTP status, or 0 for network failures
	StatusCode int

	// Detail is the server's human readable message, if any
	Detail string

	// Code is the server's machine readable code (e.g. "token_not_valid")
	Code string

	// Fields holds per-field validation messages
	Fields map[string][]string

	// Err is the underlying transport error for ErrNetwork
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (%d)", e.StatusCode)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "; %s: %s", name, strings.Join(e.Fields[name], " "))
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the transport cause to errors.Is/As.
func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FieldError returns the first message for a field, or "".
func (e *APIError) FieldError(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// unauthenticated builds the error handed to callers when the session is gone.
func unauthenticated(detail string) *APIError {
	return &APIError{Kind: ErrUnauthenticated, StatusCode: http.StatusUnauthorized, Detail: detail}
}

func networkError(err error) *APIError {
	return &APIError{Kind: ErrNetwork, Err: err}
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrServerError
	}
}

// parseErrorResponse builds an APIError from a response body. Two body shapes
// are understood:
//
//	{"detail": "Given token not valid for any token type", "code": "token_not_valid"}
//	{"username": ["A user with that username already exists."]}
//
// Anything else is kept verbatim in Detail.
func parseErrorResponse(status int, body []byte) *APIError {
	apiErr := &APIError{Kind: kindForStatus(status), StatusCode: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		if apiErr.Detail == "" {
			apiErr.Detail = http.StatusText(status)
		}
		return apiErr
	}

	for key, value := range raw {
		switch key {
		case "detail":
			_ = json.Unmarshal(value, &apiErr.Detail)
		case "code":
			_ = json.Unmarshal(value, &apiErr.Code)
		default:
			var msgs []string
			if err := json.Unmarshal(value, &msgs); err != nil {
				var msg string
				if err := json.Unmarshal(value, &msg); err != nil {
					continue
				}
				msgs = []string{msg}
			}
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = msgs
		}
	}

	return apiErr
}
