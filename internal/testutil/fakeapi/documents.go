package fakeapi

import (
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/common"
)

type page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		out = append(out, s.categoryView(cat))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) isModerator(c echo.Context) bool {
	rec := s.currentUser(c)
	return rec != nil && rec.user.IsModerator
}

// visible reports whether the caller may see rec; must hold s.mu.
func (s *Server) visible(c echo.Context, rec *docRecord) bool {
	if rec.doc.Status == models.StatusApproved || s.isModerator(c) {
		return true
	}
	u := s.currentUser(c)
	return u != nil && u.user.ID == rec.uploaderID
}

func (s *Server) listDocuments(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := c.QueryParams()
	moderator := s.isModerator(c)

	var docs []models.Document
	for _, rec := range s.documents {
		if !moderator && rec.doc.Status != models.StatusApproved {
			continue
		}
		if moderator && q.Get("status") != "" && string(rec.doc.Status) != q.Get("status") {
			continue
		}
		if !s.matches(rec, q) {
			continue
		}
		docs = append(docs, s.documentView(rec))
	}
	sortDocuments(docs, q.Get("ordering"))
	return s.paginate(c, docs)
}

func (s *Server) myDocuments(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	me := s.currentUser(c)
	var docs []models.Document
	for _, rec := range s.documents {
		if rec.uploaderID == me.user.ID {
			docs = append(docs, s.documentView(rec))
		}
	}
	sortDocuments(docs, "")
	return s.paginate(c, docs)
}

func (s *Server) matches(rec *docRecord, q url.Values) bool {
	d := rec.doc
	if v := q.Get("category"); v != "" {
		cat, ok := s.categories[rec.categoryID]
		if !ok || (v != strconv.FormatInt(cat.ID, 10) && v != cat.Slug) {
			return false
		}
	}
	if v := q.Get("language"); v != "" && d.Language != v {
		return false
	}
	if v := q.Get("license"); v != "" && d.License != v {
		return false
	}
	if v := strings.ToLower(q.Get("search")); v != "" {
		hay := strings.ToLower(d.Title + " " + d.Description + " " + d.Tags)
		if !strings.Contains(hay, v) {
			return false
		}
	}
	return true
}

func sortDocuments(docs []models.Document, ordering string) {
	if ordering == "" {
		ordering = "-created_at"
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	less := func(a, b models.Document) bool {
		switch field {
		case "title":
			return a.Title < b.Title
		case "view_count":
			return a.ViewCount < b.ViewCount
		case "download_count":
			return a.DownloadCount < b.DownloadCount
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return less(docs[j], docs[i])
		}
		return less(docs[i], docs[j])
	})
}

func (s *Server) paginate(c echo.Context, docs []models.Document) error {
	size := s.PageSize
	n, _ := strconv.Atoi(c.QueryParam("page"))
	if n < 1 {
		n = 1
	}

	start := (n - 1) * size
	if start > len(docs) {
		return detail(c, http.StatusNotFound, "Invalid page.")
	}
	end := min(start+size, len(docs))

	link := func(p int) *string {
		q := c.QueryParams()
		q.Set("page", strconv.Itoa(p))
		u := c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path + "?" + q.Encode()
		return &u
	}

	out := page{Count: len(docs), Results: append([]models.Document{}, docs[start:end]...)}
	if end < len(docs) {
		out.Next = link(n + 1)
	}
	if n > 1 {
		out.Previous = link(n - 1)
	}
	return c.JSON(http.StatusOK, out)
}

// lookup finds a document the caller may see; must hold s.mu.
func (s *Server) lookup(c echo.Context) *docRecord {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil
	}
	rec, ok := s.documents[id]
	if !ok || !s.visible(c, rec) {
		return nil
	}
	return rec
}

func (s *Server) getDocument(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(c)
	if rec == nil {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	rec.doc.ViewCount++
	d := s.documentView(rec)
	d.FileURL = c.Scheme() + "://" + c.Request().Host + "/media/documents/" + rec.doc.Slug + ".pdf"
	return c.JSON(http.StatusOK, d)
}

func (s *Server) downloadDocument(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(c)
	if rec == nil {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	rec.doc.DownloadCount++
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+rec.doc.Title+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", rec.file)
}

func (s *Server) createDocument(c echo.Context) error {
	s.mu.Lock()
	me := s.currentUser(c)
	banned := me.user.IsBanned
	s.mu.Unlock()

	if banned {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "You are banned from uploading documents."})
	}

	errs := map[string][]string{}
	required := func(name string) string {
		v := strings.TrimSpace(c.FormValue(name))
		if v == "" {
			errs[name] = []string{"This field is required."}
		}
		return v
	}
	title := required("title")
	description := required("description")
	categoryRaw := required("category_id")
	language := required("language")
	license := c.FormValue("license")
	if license == "" {
		license = "cc-by"
	}

	var data []byte
	fh, err := c.FormFile("file")
	if err != nil {
		errs["file"] = []string{"No file was submitted."}
	} else {
		switch {
		case fh.Size > common.MaxUploadSize:
			errs["file"] = []string{"File size cannot exceed 50.0MB."}
		case fh.Header.Get("Content-Type") != "application/pdf":
			errs["file"] = []string{"Only PDF files are allowed."}
		default:
			f, err := fh.Open()
			if err == nil {
				data, err = io.ReadAll(f)
				_ = f.Close()
			}
			if err != nil {
				errs["file"] = []string{"Upload failed."}
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	categoryID, _ := strconv.ParseInt(categoryRaw, 10, 64)
	if _, ok := s.categories[categoryID]; categoryRaw != "" && !ok {
		errs["category_id"] = []string{"Invalid category."}
	}
	if language != "" && !models.ValidChoice(models.Languages, language) {
		errs["language"] = []string{`"` + language + `" is not a valid choice.`}
	}
	if !models.ValidChoice(models.Licenses, license) {
		errs["license"] = []string{`"` + license + `" is not a valid choice.`}
	}
	if len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	rec := &docRecord{
		doc: models.Document{
			ID:             s.id(),
			Title:          title,
			Description:    description,
			Language:       language,
			Tags:           c.FormValue("tags"),
			License:        license,
			LicenseDetails: c.FormValue("license_details"),
			Status:         models.StatusPending,
			UploadedBy:     me.user.Username,
			FileSize:       int64(len(data)),
		},
		uploaderID: me.user.ID,
		categoryID: categoryID,
		file:       data,
	}
	rec.doc.Slug = slugify(title)
	rec.doc.TagList = models.SplitTags(rec.doc.Tags)
	rec.doc.CreatedAt = s.stamp(rec.doc.ID)
	rec.doc.UpdatedAt = rec.doc.CreatedAt
	s.documents[rec.doc.ID] = rec

	return c.JSON(http.StatusCreated, s.documentView(rec))
}

func (s *Server) approveDocument(c echo.Context) error {
	return s.review(c, models.StatusApproved)
}

func (s *Server) rejectDocument(c echo.Context) error {
	return s.review(c, models.StatusRejected)
}

func (s *Server) review(c echo.Context, status models.DocumentStatus) error {
	var req struct {
		Action          string `json:"action"`
		RejectionReason string `json:"rejection_reason"`
	}
	_ = c.Bind(&req)
	if status == models.StatusRejected && strings.TrimSpace(req.RejectionReason) == "" {
		return fieldErrors(c, map[string][]string{"rejection_reason": {"Rejection reason is required when rejecting a document."}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.lookup(c)
	if rec == nil {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	now := s.now().UTC()
	rec.doc.Status = status
	rec.doc.ReviewedBy = s.currentUser(c).user.Username
	rec.doc.ReviewedAt = &now
	rec.doc.RejectionReason = req.RejectionReason

	msg := "Document approved successfully."
	if status == models.StatusRejected {
		msg = "Document rejected."
	}
	return c.JSON(http.StatusOK, map[string]any{"message": msg, "document": s.documentView(rec)})
}
