package models

import (
	"fmt"
	"time"
)

type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

// Document covers both the list and the detail shapes; list responses leave
// the detail-only fields empty.
type Document struct {
	ID              int64          `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	Description     string         `json:"description"`
	Category        *Category      `json:"category,omitempty"`
	Language        string         `json:"language"`
	Tags            string         `json:"tags,omitempty"`
	TagList         []string       `json:"tag_list"`
	FileURL         string         `json:"file_url,omitempty"`
	FileSize        int64          `json:"file_size,omitempty"`
	License         string         `json:"license,omitempty"`
	LicenseDetails  string         `json:"license_details,omitempty"`
	Status          DocumentStatus `json:"status"`
	UploadedBy      string         `json:"uploaded_by_username"`
	ReviewedBy      string         `json:"reviewed_by_username,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	ViewCount       int            `json:"view_count"`
	DownloadCount   int            `json:"download_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at,omitempty"`
}

// Ref is the identifier used in document URLs.
func (d Document) Ref() string {
	return fmt.Sprintf("%d", d.ID)
}

// HumanSize formats FileSize for display.
func (d Document) HumanSize() string {
	const unit = 1024
	if d.FileSize < unit {
		return fmt.Sprintf("%d B", d.FileSize)
	}
	div, exp := int64(unit), 0
	for n := d.FileSize / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(d.FileSize)/float64(div), "KMGTPE"[exp])
}
