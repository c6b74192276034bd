package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/isokodocs/isoko/internal/client/models"
)

func (s *Server) listReports(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	me := s.currentUser(c)
	moderator := me.user.IsModerator
	status := c.QueryParam("status")

	return c.JSON(http.StatusOK, s.sortedReports(func(r *models.Report) bool {
		if !moderator && r.ReportedBy != me.user.Username {
			return false
		}
		return status == "" || string(r.Status) == status
	}))
}

func (s *Server) createReport(c echo.Context) error {
	var req models.ReportForm
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Malformed request.")
	}
	if !models.ValidChoice(models.ReportReasons, req.Reason) {
		return fieldErrors(c, map[string][]string{"reason": {`"` + req.Reason + `" is not a valid choice.`}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	me := s.currentUser(c)
	rec, ok := s.documents[req.Document]
	if !ok {
		return fieldErrors(c, map[string][]string{"document": {"Document not found."}})
	}
	for _, r := range s.reports {
		if r.Document == req.Document && r.ReportedBy == me.user.Username {
			return fieldErrors(c, map[string][]string{"non_field_errors": {"You have already reported this document."}})
		}
	}

	r := &models.Report{
		ID:            s.id(),
		Document:      req.Document,
		DocumentTitle: rec.doc.Title,
		DocumentSlug:  rec.doc.Slug,
		ReportedBy:    me.user.Username,
		Reason:        req.Reason,
		Description:   req.Description,
		Status:        models.ReportPending,
	}
	r.CreatedAt = s.stamp(r.ID)
	s.reports[r.ID] = r
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) updateReportStatus(c echo.Context) error {
	var req struct {
		Status         string `json:"status"`
		ModeratorNotes string `json:"moderator_notes"`
	}
	_ = c.Bind(&req)
	switch models.ReportStatus(req.Status) {
	case models.ReportReviewed, models.ReportResolved, models.ReportDismissed:
	default:
		return fieldErrors(c, map[string][]string{"status": {`"` + req.Status + `" is not a valid choice.`}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	r, ok := s.reports[id]
	if !ok {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	now := s.now().UTC()
	r.Status = models.ReportStatus(req.Status)
	r.ModeratorNotes = req.ModeratorNotes
	r.ReviewedBy = s.currentUser(c).user.Username
	r.ReviewedAt = &now
	return c.JSON(http.StatusOK, map[string]any{"message": "Report status updated.", "report": r})
}
