package models

type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description,omitempty"`
	Icon          string `json:"icon,omitempty"`
	DocumentCount int    `json:"document_count"`
}
