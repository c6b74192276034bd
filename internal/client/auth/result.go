package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/models"
)

const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
	MsgNetworkError       = "Network error"
)

// Result is the outcome of Login and Register.
type Result struct {
	Success bool
	Error   string
	// Fields is the backend's field-error object, verbatim, when it sent
	// one.
	Fields json.RawMessage
}

func ok() Result {
	return Result{Success: true}
}

// failure converts err into a Result. fallback is used when the backend did
// not explain itself.
func failure(err error, fallback string) Result {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return Result{Error: ve.Message}
	}
	if errors.Is(err, api.ErrUnavailable) {
		return Result{Error: MsgNetworkError}
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return Result{Error: fallback}
	}

	if apiErr.Detail != "" {
		return Result{Error: apiErr.Detail}
	}
	res := Result{Error: fallback, Fields: apiErr.Fields()}
	if msg := FlattenFields(res.Fields); msg != "" {
		res.Error = msg
	}
	return res
}

// FlattenFields renders a DRF field-error object as one line, e.g.
// "password: This password is too short.; username: A user with that
// username already exists.". Keys are sorted; non_field_errors carry no
// prefix.
func FlattenFields(raw json.RawMessage) string {
	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs := messages(fields[k])
		if len(msgs) == 0 {
			continue
		}
		text := strings.Join(msgs, " ")
		if k != "non_field_errors" {
			text = fmt.Sprintf("%s: %s", k, text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "; ")
}

func messages(raw json.RawMessage) []string {
	var one string
	if json.Unmarshal(raw, &one) == nil {
		return []string{one}
	}
	var many []string
	if json.Unmarshal(raw, &many) == nil {
		return many
	}
	return nil
}
