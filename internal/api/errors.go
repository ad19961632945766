package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned when a query that expects a record yields none.
var ErrNotFound = errors.New("record not found")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status    int      `json:"-"`
	Exception string   `json:"exception"`
	Reason    string   `json:"reason"`
	Traceback []string `json:"traceback"`
}

func parseError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	if err := json.Unmarshal(body, e); err != nil || (e.Exception == "" && e.Reason == "") {
		e.Exception = ""
		e.Traceback = nil
		e.Reason = strings.TrimSpace(string(body))
	}
	return e
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("api: %s", e.Title())
	}
	return fmt.Sprintf("api: %s: %s", e.Title(), e.Reason)
}

// Title is the short headline: the server exception name or the status text.
func (e *APIError) Title() string {
	if e.Exception != "" {
		return e.Exception
	}
	if t := http.StatusText(e.Status); t != "" {
		return fmt.Sprintf("%d %s", e.Status, t)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Message is the reason followed by the server traceback, if any.
func (e *APIError) Message() string {
	var b strings.Builder
	b.WriteString(e.Reason)
	for _, line := range e.Traceback {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimRight(line, "\n"))
	}
	return b.String()
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var e *APIError
	return errors.As(err, &e) && e.Status == status
}
