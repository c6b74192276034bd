package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/models"
)

const reportsPath = "/api/reports/"

// ReportService files reports and, for moderators, settles them.
type ReportService interface {
	Create(ctx context.Context, form models.ReportForm) (models.Report, error)
	// List returns the caller's reports, or all of them for a moderator,
	// optionally narrowed to one status.
	List(ctx context.Context, status models.ReportStatus) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReportStatus, notes string) (models.Report, error)
}

type reportService struct {
	doer Doer
}

func NewReportService(d Doer) ReportService {
	return &reportService{doer: d}
}

func (s *reportService) Create(ctx context.Context, form models.ReportForm) (models.Report, error) {
	var r models.Report
	if err := form.Validate(); err != nil {
		return r, err
	}
	if err := s.doer.Do(ctx, &api.Request{Method: http.MethodPost, Path: reportsPath, JSON: form}, &r); err != nil {
		return r, fmt.Errorf("report document %d: %w", form.Document, err)
	}
	return r, nil
}

func (s *reportService) List(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {string(status)}}
	}
	var page models.Page[models.Report]
	if err := s.doer.Do(ctx, &api.Request{Path: reportsPath, Query: q}, &page); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return page.Results, nil
}

func (s *reportService) UpdateStatus(ctx context.Context, id int64, status models.ReportStatus, notes string) (models.Report, error) {
	var resp struct {
		Report models.Report `json:"report"`
	}
	req := &api.Request{
		Method: http.MethodPost,
		Path:   reportsPath + strconv.FormatInt(id, 10) + "/update-status/",
		JSON:   map[string]string{"status": string(status), "moderator_notes": notes},
	}
	if err := s.doer.Do(ctx, req, &resp); err != nil {
		return models.Report{}, fmt.Errorf("update report %d: %w", id, err)
	}
	return resp.Report, nil
}
