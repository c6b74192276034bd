package models

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/isokodocs/isoko/internal/common"
)

const MinPasswordLength = 8

// Registration is the body of a register request.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Validate runs the checks the register form performs before submitting.
func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return invalid("username", "username is required")
	case strings.TrimSpace(r.Email) == "":
		return invalid("email", "email is required")
	case r.Password != r.Password2:
		return invalid("password", "passwords do not match")
	case len(r.Password) < MinPasswordLength:
		return invalid("password", "password too short (minimum 8 characters)")
	}
	return nil
}

// UploadForm is a document submission. Data holds the whole file.
type UploadForm struct {
	Title          string
	Description    string
	CategoryID     int64
	Language       string
	Tags           []string
	License        string
	LicenseDetails string
	FileName       string
	Data           []byte
}

func (f UploadForm) Validate() error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return invalid("title", "title is required")
	case strings.TrimSpace(f.Description) == "":
		return invalid("description", "description is required")
	case f.CategoryID <= 0:
		return invalid("category", "category is required")
	case !ValidChoice(Languages, f.Language):
		return invalid("language", "unsupported language "+strconv.Quote(f.Language))
	case !ValidChoice(Licenses, f.License):
		return invalid("license", "unsupported license "+strconv.Quote(f.License))
	case len(f.Data) == 0:
		return invalid("file", "file is required")
	case len(f.Data) > common.MaxUploadSize:
		return invalid("file", "file is larger than 50 MB")
	case http.DetectContentType(f.Data) != "application/pdf":
		return invalid("file", "only PDF files are allowed")
	}
	return nil
}

// TagString joins trimmed, non-empty tags the way the backend stores them.
func (f UploadForm) TagString() string {
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return strings.Join(tags, ",")
}

// SplitTags parses a comma-separated tag list.
func SplitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ReportForm flags a document for moderator attention.
type ReportForm struct {
	Document    int64  `json:"document"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (f ReportForm) Validate() error {
	if f.Document <= 0 {
		return invalid("document", "document is required")
	}
	if !ValidChoice(ReportReasons, f.Reason) {
		return invalid("reason", "choose one of copyright, spam, personal_info, inappropriate, other")
	}
	return nil
}

// DocumentQuery holds the list filters.
type DocumentQuery struct {
	Search   string
	Category string
	Language string
	License  string
	Ordering string
	Status   string
	Page     int
}

// Values encodes the non-empty filters as query parameters.
func (q DocumentQuery) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", q.Search)
	set("category", q.Category)
	set("language", q.Language)
	set("license", q.License)
	set("ordering", q.Ordering)
	set("status", q.Status)
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// QueryFromValues is the inverse of Values; unknown keys are ignored.
func QueryFromValues(v url.Values) DocumentQuery {
	page, _ := strconv.Atoi(v.Get("page"))
	return DocumentQuery{
		Search:   v.Get("search"),
		Category: v.Get("category"),
		Language: v.Get("language"),
		License:  v.Get("license"),
		Ordering: v.Get("ordering"),
		Status:   v.Get("status"),
		Page:     page,
	}
}
