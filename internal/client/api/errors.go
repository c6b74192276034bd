package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadResponse  = errors.New("malformed response")
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status int
	// Detail is the human message found under "detail", "error" or
	// "message" in a JSON body, if any.
	Detail string
	Body   []byte
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Fields returns the body when it is a JSON object, as DRF field errors are.
func (e *Error) Fields() json.RawMessage {
	var probe map[string]json.RawMessage
	if json.Unmarshal(e.Body, &probe) != nil {
		return nil
	}
	return json.RawMessage(e.Body)
}

func newError(status int, body []byte) *Error {
	return &Error{Status: status, Detail: detailOf(body), Body: body}
}

func detailOf(body []byte) string {
	var fields map[string]any
	if json.Unmarshal(body, &fields) != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Detail returns the backend message carried by err, or "".
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
