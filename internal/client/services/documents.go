package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/filex"
	"github.com/isokodocs/isoko/internal/netx"
)

const documentsPath = "/api/documents/"

// DocumentService covers browsing, submission and moderation of documents.
type DocumentService interface {
	List(ctx context.Context, q models.DocumentQuery) (models.Page[models.Document], error)
	// More follows a pagination link returned in Page.Next.
	More(ctx context.Context, next string) (models.Page[models.Document], error)
	Mine(ctx context.Context) (models.Page[models.Document], error)
	Get(ctx context.Context, id int64) (models.Document, error)
	Download(ctx context.Context, id int64, w io.Writer) error
	// Save downloads the file into dir and returns the written path.
	Save(ctx context.Context, doc models.Document, dir string) (string, error)
	Upload(ctx context.Context, form models.UploadForm) (models.Document, error)
	Approve(ctx context.Context, id int64) (models.Document, error)
	Reject(ctx context.Context, id int64, reason string) (models.Document, error)
}

type documentService struct {
	doer Doer
}

func NewDocumentService(d Doer) DocumentService {
	return &documentService{doer: d}
}

func documentPath(id int64, action string) string {
	p := documentsPath + strconv.FormatInt(id, 10) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

func (s *documentService) List(ctx context.Context, q models.DocumentQuery) (models.Page[models.Document], error) {
	var page models.Page[models.Document]
	if err := s.doer.Do(ctx, &api.Request{Path: documentsPath, Query: q.Values()}, &page); err != nil {
		return page, fmt.Errorf("list documents: %w", err)
	}
	return page, nil
}

func (s *documentService) More(ctx context.Context, next string) (models.Page[models.Document], error) {
	var page models.Page[models.Document]
	if err := s.doer.Do(ctx, &api.Request{Path: next}, &page); err != nil {
		return page, fmt.Errorf("list documents: %w", err)
	}
	return page, nil
}

func (s *documentService) Mine(ctx context.Context) (models.Page[models.Document], error) {
	var page models.Page[models.Document]
	if err := s.doer.Do(ctx, &api.Request{Path: documentsPath + "my-documents/"}, &page); err != nil {
		return page, fmt.Errorf("list my documents: %w", err)
	}
	return page, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (models.Document, error) {
	var doc models.Document
	if err := s.doer.Do(ctx, &api.Request{Path: documentPath(id, "")}, &doc); err != nil {
		return doc, fmt.Errorf("get document %d: %w", id, err)
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, id int64, w io.Writer) error {
	if err := s.doer.Do(ctx, &api.Request{Path: documentPath(id, "download")}, w); err != nil {
		return fmt.Errorf("download document %d: %w", id, err)
	}
	return nil
}

func (s *documentService) Save(ctx context.Context, doc models.Document, dir string) (string, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := s.Download(ctx, doc.ID, f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}

	path := filepath.Join(dir, filex.SafeFileName(doc.Title, ".pdf"))
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", tmp, err)
	}
	return path, nil
}

func (s *documentService) Upload(ctx context.Context, form models.UploadForm) (models.Document, error) {
	var doc models.Document
	if err := form.Validate(); err != nil {
		return doc, err
	}

	fields := []netx.Field{
		{Name: "title", Value: form.Title},
		{Name: "description", Value: form.Description},
		{Name: "category_id", Value: strconv.FormatInt(form.CategoryID, 10)},
		{Name: "language", Value: form.Language},
		{Name: "tags", Value: form.TagString()},
		{Name: "license", Value: form.License},
	}
	if form.LicenseDetails != "" {
		fields = append(fields, netx.Field{Name: "license_details", Value: form.LicenseDetails})
	}
	name := form.FileName
	if name == "" {
		name = filex.SafeFileName(form.Title, ".pdf")
	}

	body, contentType, err := netx.MultipartBody(fields, &netx.FilePart{
		Field:       "file",
		FileName:    name,
		ContentType: "application/pdf",
		Data:        form.Data,
	})
	if err != nil {
		return doc, fmt.Errorf("upload document: %w", err)
	}

	req := &api.Request{Method: http.MethodPost, Path: documentsPath, Body: body, ContentType: contentType}
	if err := s.doer.Do(ctx, req, &doc); err != nil {
		return doc, fmt.Errorf("upload document: %w", err)
	}
	return doc, nil
}

func (s *documentService) Approve(ctx context.Context, id int64) (models.Document, error) {
	return s.review(ctx, id, "approve", map[string]string{"action": "approve"})
}

func (s *documentService) Reject(ctx context.Context, id int64, reason string) (models.Document, error) {
	if err := models.Required("rejection_reason", reason); err != nil {
		return models.Document{}, err
	}
	return s.review(ctx, id, "reject", map[string]string{"action": "reject", "rejection_reason": reason})
}

func (s *documentService) review(ctx context.Context, id int64, action string, body any) (models.Document, error) {
	var resp struct {
		Document models.Document `json:"document"`
	}
	req := &api.Request{Method: http.MethodPost, Path: documentPath(id, action), JSON: body}
	if err := s.doer.Do(ctx, req, &resp); err != nil {
		return models.Document{}, fmt.Errorf("%s document %d: %w", action, id, err)
	}
	return resp.Document, nil
}
