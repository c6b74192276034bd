package models

import "time"

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

type Report struct {
	ID             int64        `json:"id"`
	Document       int64        `json:"document"`
	DocumentTitle  string       `json:"document_title"`
	DocumentSlug   string       `json:"document_slug"`
	ReportedBy     string       `json:"reported_by_username"`
	Reason         string       `json:"reason"`
	Description    string       `json:"description"`
	Status         ReportStatus `json:"status"`
	ReviewedBy     string       `json:"reviewed_by_username,omitempty"`
	ReviewedAt     *time.Time   `json:"reviewed_at,omitempty"`
	ModeratorNotes string       `json:"moderator_notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
