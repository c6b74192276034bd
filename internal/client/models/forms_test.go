package models

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isokodocs/isoko/internal/common"
)

func TestRegistration_Validate(t *testing.T) {
	valid := Registration{Username: "alice", Email: "alice@example.org", Password: "s3cretpass", Password2: "s3cretpass"}

	tests := []struct {
		name    string
		mutate  func(r *Registration)
		field   string
		message string
	}{
		{name: "ok", mutate: func(r *Registration) {}},
		{name: "short password", mutate: func(r *Registration) { r.Password, r.Password2 = "abc1234", "abc1234" }, field: "password", message: "password too short"},
		{name: "mismatch", mutate: func(r *Registration) { r.Password2 = "different1" }, field: "password", message: "passwords do not match"},
		{name: "no username", mutate: func(r *Registration) { r.Username = " " }, field: "username"},
		{name: "no email", mutate: func(r *Registration) { r.Email = "" }, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func pdfBytes() []byte {
	return []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\ntrailer\n%%EOF\n")
}

func TestUploadForm_Validate(t *testing.T) {
	valid := UploadForm{
		Title:       "Tenancy guide",
		Description: "Rights and duties",
		CategoryID:  1,
		Language:    "en",
		License:     "cc-by",
		FileName:    "guide.pdf",
		Data:        pdfBytes(),
	}

	tests := []struct {
		name   string
		mutate func(f *UploadForm)
		field  string
	}{
		{name: "ok", mutate: func(f *UploadForm) {}},
		{name: "title", mutate: func(f *UploadForm) { f.Title = "" }, field: "title"},
		{name: "description", mutate: func(f *UploadForm) { f.Description = "  " }, field: "description"},
		{name: "category", mutate: func(f *UploadForm) { f.CategoryID = 0 }, field: "category"},
		{name: "language", mutate: func(f *UploadForm) { f.Language = "de" }, field: "language"},
		{name: "license", mutate: func(f *UploadForm) { f.License = "gpl" }, field: "license"},
		{name: "empty file", mutate: func(f *UploadForm) { f.Data = nil }, field: "file"},
		{name: "not a pdf", mutate: func(f *UploadForm) { f.Data = []byte("hello world") }, field: "file"},
		{name: "too large", mutate: func(f *UploadForm) {
			f.Data = append(pdfBytes(), bytes.Repeat([]byte{'x'}, common.MaxUploadSize)...)
		}, field: "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestUploadForm_TagString(t *testing.T) {
	f := UploadForm{Tags: []string{" housing ", "", "law"}}
	assert.Equal(t, "housing,law", f.TagString())
	assert.Equal(t, []string{"a", "b"}, SplitTags("a, ,b,"))
	assert.Nil(t, SplitTags(""))
}

func TestReportForm_Validate(t *testing.T) {
	require.NoError(t, ReportForm{Document: 4, Reason: "spam"}.Validate())

	err := ReportForm{Document: 4, Reason: "boring"}.Validate()
	assert.ErrorIs(t, err, ErrValidation)

	err = ReportForm{Reason: "spam"}.Validate()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocumentQuery_Values(t *testing.T) {
	q := DocumentQuery{Search: "lease", Category: "2", Ordering: "-view_count", Page: 3}
	v := q.Values()

	assert.Equal(t, "category=2&ordering=-view_count&page=3&search=lease", v.Encode())
	assert.Equal(t, q, QueryFromValues(v))
	assert.Empty(t, DocumentQuery{Page: 1}.Values())
}
