package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError represents a non-2xx response from the employee API
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("employee API error [%d] %s %s: %s", e.StatusCode, e.Method, e.Path, e.Detail)
	}
	return fmt.Sprintf("employee API error [%d] %s %s", e.StatusCode, e.Method, e.Path)
}

// DetailOf returns the server-provided detail message carried by err, if any.
func DetailOf(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}

// validationItem is one entry of a 422 detail list.
type validationItem struct {
	Msg string `json:"msg"`
}

// parseDetail extracts "detail" from an error body. It is either a plain
// string, returned as sent, or a list of validation items whose messages
// are joined. Blank details count as absent.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return text
	}

	var items []validationItem
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		var msgs []string
		for _, item := range items {
			if strings.TrimSpace(item.Msg) != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}

// Message returns the server detail carried by err, or fallback when there is none.
func Message(err error, fallback string) string {
	if detail, ok := DetailOf(err); ok {
		return detail
	}
	return fallback
}
