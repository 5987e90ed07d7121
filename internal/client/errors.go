package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	// Detail is the string "detail" field of the body, if any.
	Detail string
	Body   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s failed: %s: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.Status)
}

func newAPIError(method, path string, resp *http.Response, payload []byte) *APIError {
	e := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(payload)),
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(payload, &body) == nil && len(body.Detail) > 0 {
		// validation errors carry a list here; only plain strings are user-facing
		var s string
		if json.Unmarshal(body.Detail, &s) == nil {
			e.Detail = s
		}
	}
	return e
}

// Detail extracts the server-supplied detail message from err, if there is one.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
