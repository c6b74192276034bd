package models

import (
	"bytes"
	"encoding/json"
)

// Page is a list response. The backend answers either with a paginated
// envelope or with a bare JSON array; both decode into Page.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}

	type envelope struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []T     `json:"results"`
	}
	var e envelope
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return err
	}
	*p = Page[T]{Count: e.Count, Results: e.Results}
	if e.Next != nil {
		p.Next = *e.Next
	}
	if e.Previous != nil {
		p.Previous = *e.Previous
	}
	return nil
}

// HasMore reports whether the backend advertised a further page.
func (p Page[T]) HasMore() bool {
	return p.Next != ""
}
