// Package fakeapi is an in-memory stand-in for the isoko REST backend,
// served over httptest. It follows the backend's HTTP contract closely
// enough for client tests: JWT bearer auth with expiry and revocation,
// moderator-only endpoints, banned uploaders, DRF-style error bodies and
// pagination.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/isokodocs/isoko/internal/client/models"
)

// Recorded is one request seen by the server.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

type userRecord struct {
	user     models.User
	password string
}

type docRecord struct {
	doc        models.Document
	uploaderID int64
	categoryID int64
	file       []byte
}

type Server struct {
	*httptest.Server

	// AccessTTL is the lifetime of access tokens minted from now on.
	AccessTTL time.Duration
	// PageSize bounds document list pages.
	PageSize int

	echo   *echo.Echo
	secret []byte

	mu         sync.Mutex
	now        func() time.Time
	nextID     int64
	users      map[int64]*userRecord
	categories map[int64]*models.Category
	documents  map[int64]*docRecord
	reports    map[int64]*models.Report
	revoked    map[string]bool
	requests   []Recorded
	hook       func(r *http.Request)
}

// New starts a server and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		AccessTTL:  15 * time.Minute,
		PageSize:   20,
		secret:     []byte("fakeapi-signing-key"),
		now:        time.Now,
		users:      map[int64]*userRecord{},
		categories: map[int64]*models.Category{},
		documents:  map[int64]*docRecord{},
		reports:    map[int64]*models.Report{},
		revoked:    map[string]bool{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		status, msg := http.StatusInternalServerError, err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		if !c.Response().Committed {
			_ = c.JSON(status, map[string]string{"detail": msg})
		}
	}
	e.Use(s.record, s.authenticate)
	s.routes(e)
	s.echo = e

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes(e *echo.Echo) {
	e.GET("/api/accounts/profile/", s.profile, requireUser)
	e.POST("/api/accounts/login/", s.login)
	e.POST("/api/accounts/register/", s.register)
	e.POST("/api/accounts/refresh/", s.refresh)
	e.GET("/api/accounts/users/", s.listUsers, s.requireModerator)
	e.POST("/api/accounts/users/:id/ban/", s.banUser, s.requireModerator)
	e.POST("/api/accounts/users/:id/unban/", s.unbanUser, s.requireModerator)

	e.GET("/api/categories/", s.listCategories)

	e.GET("/api/documents/", s.listDocuments)
	e.POST("/api/documents/", s.createDocument, requireUser)
	e.GET("/api/documents/my-documents/", s.myDocuments, requireUser)
	e.GET("/api/documents/:id/", s.getDocument)
	e.GET("/api/documents/:id/download/", s.downloadDocument)
	e.POST("/api/documents/:id/approve/", s.approveDocument, s.requireModerator)
	e.POST("/api/documents/:id/reject/", s.rejectDocument, s.requireModerator)

	e.GET("/api/reports/", s.listReports, requireUser)
	e.POST("/api/reports/", s.createReport, requireUser)
	e.POST("/api/reports/:id/update-status/", s.updateReportStatus, s.requireModerator)
}

// SetClock replaces the server's notion of now, used for token expiry.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetHook installs fn to run before every request is handled. Tests use it
// to hold a response back.
func (s *Server) SetHook(fn func(r *http.Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = fn
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
		})
		hook := s.hook
		s.mu.Unlock()

		if hook != nil {
			hook(r)
		}
		return next(c)
	}
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// RequestsTo returns the requests whose path equals path.
func (s *Server) RequestsTo(path string) []Recorded {
	var out []Recorded
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

type UserOption func(*models.User)

func Moderator() UserOption { return func(u *models.User) { u.IsModerator = true } }
func Banned() UserOption    { return func(u *models.User) { u.IsBanned = true } }

// AddUser creates an account and returns its public view.
func (s *Server) AddUser(username, password string, opts ...UserOption) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := models.User{
		ID:         s.id(),
		Username:   username,
		Email:      username + "@example.org",
		DateJoined: s.now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(&u)
	}
	s.users[u.ID] = &userRecord{user: u, password: password}
	return u
}

// User returns the current state of the named account.
func (s *Server) User(username string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.userByName(username); rec != nil {
		return rec.user, true
	}
	return models.User{}, false
}

func (s *Server) userByName(username string) *userRecord {
	for _, rec := range s.users {
		if rec.user.Username == username {
			return rec
		}
	}
	return nil
}

func (s *Server) AddCategory(name, icon string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &models.Category{ID: s.id(), Name: name, Slug: slugify(name), Icon: icon}
	s.categories[c.ID] = c
	return *c
}

// AddDocument stores d as uploaded by the named user. Missing fields get
// defaults: approved status, English, CC BY and a small PDF body.
func (s *Server) AddDocument(d models.Document, uploader string, categoryID int64) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.id()
	if d.Slug == "" {
		d.Slug = slugify(d.Title)
	}
	if d.Status == "" {
		d.Status = models.StatusApproved
	}
	if d.Language == "" {
		d.Language = "en"
	}
	if d.License == "" {
		d.License = "cc-by"
	}
	d.TagList = models.SplitTags(d.Tags)
	d.CreatedAt = s.stamp(d.ID)
	d.UpdatedAt = d.CreatedAt

	rec := &docRecord{doc: d, categoryID: categoryID, file: []byte("%PDF-1.4\n" + d.Title + "\n%%EOF\n")}
	if u := s.userByName(uploader); u != nil {
		rec.uploaderID = u.user.ID
		rec.doc.UploadedBy = u.user.Username
	}
	rec.doc.FileSize = int64(len(rec.file))
	s.documents[d.ID] = rec
	return s.documentView(rec)
}

// Document returns the stored document without counting a view.
func (s *Server) Document(id int64) (models.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[id]
	if !ok {
		return models.Document{}, false
	}
	return s.documentView(rec), true
}

// File returns the stored bytes of a document.
func (s *Server) File(id int64) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.documents[id]; ok {
		return append([]byte(nil), rec.file...)
	}
	return nil
}

// AddReport files a report as the named user.
func (s *Server) AddReport(documentID int64, reporter, reason string) models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &models.Report{ID: s.id(), Document: documentID, Reason: reason, Status: models.ReportPending}
	r.CreatedAt = s.stamp(r.ID)
	if rec, ok := s.documents[documentID]; ok {
		r.DocumentTitle, r.DocumentSlug = rec.doc.Title, rec.doc.Slug
	}
	r.ReportedBy = reporter
	s.reports[r.ID] = r
	return *r
}

// Reports returns all reports ordered by id.
func (s *Server) Reports() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedReports(func(*models.Report) bool { return true })
}

func (s *Server) sortedReports(keep func(*models.Report) bool) []models.Report {
	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// stamp derives a deterministic creation time from an id so ordering by
// created_at matches insertion order.
func (s *Server) stamp(id int64) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute)
}

func (s *Server) documentView(rec *docRecord) models.Document {
	d := rec.doc
	if c, ok := s.categories[rec.categoryID]; ok {
		cc := s.categoryView(c)
		d.Category = &cc
	}
	d.TagList = append([]string{}, d.TagList...)
	return d
}

func (s *Server) categoryView(c *models.Category) models.Category {
	out := *c
	out.DocumentCount = 0
	for _, rec := range s.documents {
		if rec.categoryID == c.ID && rec.doc.Status == models.StatusApproved {
			out.DocumentCount++
		}
	}
	return out
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
