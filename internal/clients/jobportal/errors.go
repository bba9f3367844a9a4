package jobportal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// APIError is returned for every response outside the 2xx range.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d, body: %s", e.StatusCode, e.Body)
}

func newAPIError(statusCode int, body []byte) *APIError {
	return &APIError{StatusCode: statusCode, Message: extractMessage(body), Body: string(body)}
}

// extractMessage understands {"message"}, {"error"} and ASP.NET problem details.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		text := strings.TrimSpace(string(body))
		if len(text) > 200 || strings.HasPrefix(text, "<") {
			return ""
		}
		return text
	}

	for _, candidate := range []string{payload.Message, payload.Error, payload.Detail, payload.Title} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0 for transport errors.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsBadRequest(err error) bool   { return StatusCode(err) == http.StatusBadRequest }
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusCode(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return StatusCode(err) == http.StatusNotFound }
func IsConflict(err error) bool     { return StatusCode(err) == http.StatusConflict }
