package pages

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/models"
)

func titles(docs []models.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Title
	}
	return out
}

func TestList_FiltersBecomePaths(t *testing.T) {
	f := setup(t)
	p := f.open(t, "/category/3?language=fr")

	requireRedirect(t, f.run(t, p, "search", "lease", "law"), "/category/3?language=fr&search=lease+law")
	requireRedirect(t, f.run(t, p, "filter", "ordering=-view_count"), "/category/3?language=fr&ordering=-view_count")
	requireRedirect(t, f.run(t, p, "clear"), "/category/3")
	requireRedirect(t, f.run(t, p, "open", "12"), "/document/12")

	err := f.run(t, p, "filter", "language=de")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "unsupported language de", Message(err))

	all := f.open(t, "/documents")
	requireRedirect(t, f.run(t, all, "filter", "category=law", "page=2"), "/documents?category=law&page=2")
}

func TestList_RendersAndLoadsMore(t *testing.T) {
	f := setup(t)
	f.fake.PageSize = 2
	f.fake.AddUser("alice", password)
	law := f.fake.AddCategory("Law", "scale")
	for _, title := range []string{"Lease", "Tenancy", "Deeds"} {
		f.fake.AddDocument(models.Document{Title: title}, "alice", law.ID)
	}

	p := f.open(t, "/documents")
	out := render(p)
	assert.Contains(t, out, "Deeds")
	assert.Contains(t, out, "2 of 3 shown; 'more' loads the next page")

	require.NoError(t, f.run(t, p, "more"))
	_, shown := p.(*listPage).Shown()
	assert.Equal(t, []string{"Deeds", "Tenancy", "Lease"}, titles(shown))

	require.NoError(t, f.run(t, p, "more"))
	assert.Contains(t, f.out.String(), "No more documents.")
}

// A slow response for a category the user already left must not replace
// the category they moved to.
func TestList_SlowEarlierFetchDoesNotOverwriteLater(t *testing.T) {
	f := setup(t)
	f.fake.AddUser("alice", password)
	law := f.fake.AddCategory("Law", "scale")
	sci := f.fake.AddCategory("Science", "flask")
	f.fake.AddDocument(models.Document{Title: "Lease"}, "alice", law.ID)
	f.fake.AddDocument(models.Document{Title: "Optics"}, "alice", sci.ID)

	lawRef := strconv.FormatInt(law.ID, 10)
	arrived := make(chan struct{})
	release := make(chan struct{})
	f.fake.SetHook(func(r *http.Request) {
		if r.URL.Path == "/api/documents/" && r.URL.Query().Get("category") == lawRef {
			close(arrived)
			<-release
		}
	})

	a, err := f.site.Open("/category/" + lawRef)
	require.NoError(t, err)
	b, err := f.site.Open("/category/" + strconv.FormatInt(sci.ID, 10))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Load(context.Background()) }()
	<-arrived

	require.NoError(t, b.Load(context.Background()))
	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	q, shown := b.(*listPage).Shown()
	assert.Equal(t, strconv.FormatInt(sci.ID, 10), q.Category)
	assert.Equal(t, []string{"Optics"}, titles(shown))
	assert.Contains(t, render(b), "Optics")
	assert.NotContains(t, render(b), "Lease")
}

func TestDetail_RenderDownloadAndReport(t *testing.T) {
	f := setup(t)
	f.fake.AddUser("alice", password)
	f.fake.AddUser("bob", password)
	law := f.fake.AddCategory("Law", "scale")
	doc := f.fake.AddDocument(models.Document{Title: "Lease Agreement", Tags: "housing, lease", Description: "A template."}, "alice", law.ID)

	p := f.open(t, "/document/"+doc.Ref())
	out := render(p)
	assert.Contains(t, out, "Lease Agreement")
	assert.Contains(t, out, "English")
	assert.Contains(t, out, "CC BY")
	assert.Contains(t, out, "housing, lease")
	assert.NotContains(t, out, "Status:")

	u := f.site.User()
	report, _ := Find(p, "report")
	assert.False(t, report.VisibleTo(u))
	approve, _ := Find(p, "approve")
	assert.False(t, approve.VisibleTo(u))

	require.NoError(t, f.run(t, p, "download"))
	path := filepath.Join(f.site.deps.DownloadDir, "Lease-Agreement.pdf")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f.fake.File(doc.ID), data)
	assert.Contains(t, f.out.String(), "Saved to "+path)

	current, ok := p.(*detailPage).current()
	require.True(t, ok)
	assert.Equal(t, 1, current.DownloadCount)

	err = f.run(t, p, "report", "spam")
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, "Authentication credentials were not provided.", Message(err))

	f.login(t, "bob")
	require.NoError(t, f.run(t, p, "report", "copyright", "copied", "from", "a", "book"))
	assert.Contains(t, f.out.String(), "Report submitted.")
	reports := f.fake.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "copied from a book", reports[0].Description)
}

func TestDetail_InvalidAndMissing(t *testing.T) {
	f := setup(t)

	p, err := f.site.Open("/document/abc")
	require.NoError(t, err)
	err = p.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrValidation)

	p, err = f.site.Open("/document/404")
	require.NoError(t, err)
	err = p.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Not found.", Message(err))
	assert.Contains(t, render(p), "error: Not found.")
}

// Approve is offered only to moderators; a regular user who runs it anyway
// gets the backend's refusal as an inline error and nothing changes.
func TestDetail_HiddenApproveRefusedForRegularUser(t *testing.T) {
	f := setup(t)
	f.fake.AddUser("alice", password)
	law := f.fake.AddCategory("Law", "scale")
	doc := f.fake.AddDocument(models.Document{Title: "Draft", Status: models.StatusPending}, "alice", law.ID)
	f.login(t, "alice")

	p := f.open(t, "/document/"+doc.Ref())
	assert.Contains(t, render(p), "Status:      pending")

	approve, ok := Find(p, "approve")
	require.True(t, ok)
	assert.False(t, approve.VisibleTo(f.site.User()))

	err := approve.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "You do not have permission to perform this action.", Message(err))

	stored, _ := f.fake.Document(doc.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Contains(t, render(p), "Draft")
}

func TestMine_RequiresLoginAndShowsStatus(t *testing.T) {
	f := setup(t)
	f.fake.AddUser("alice", password)
	law := f.fake.AddCategory("Law", "scale")
	f.fake.AddDocument(models.Document{Title: "Rejected one", Status: models.StatusRejected, RejectionReason: "blurry scan"}, "alice", law.ID)

	p, err := f.site.Open("/documents/mine")
	require.NoError(t, err)
	requireRedirect(t, p.Load(context.Background()), "/login")

	f.login(t, "alice")
	p = f.open(t, "/documents/mine")
	out := render(p)
	assert.Contains(t, out, "Rejected one")
	assert.Contains(t, out, "rejected: blurry scan")
}
