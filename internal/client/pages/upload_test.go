package pages

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/testutil/fakeapi"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestUpload_AnonymousRedirectedToLogin(t *testing.T) {
	f := setup(t)
	p, err := f.site.Open("/upload")
	require.NoError(t, err)
	requireRedirect(t, p.Load(context.Background()), "/login")
}

func TestUpload_SubmitsForm(t *testing.T) {
	f := setup(t)
	f.fake.AddUser("alice", password)
	f.fake.AddCategory("Law", "scale")
	f.login(t, "alice")
	path := writeFile(t, "lease.pdf", []byte("%PDF-1.4\nlease\n%%EOF\n"))

	p := f.open(t, "/upload")
	assert.Contains(t, render(p), "categories: 2 Law")

	f.prompt.answer("Lease", "Residential lease template", "law", "", "", "housing, lease")
	err := f.run(t, p, "submit", path)
	requireRedirect(t, err, "/documents/mine")
	assert.Contains(t, f.out.String(), `"Lease" was submitted and is awaiting review.`)

	mine := f.open(t, "/documents/mine").(*minePage)
	docs := mine.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, models.StatusPending, docs[0].Status)
	assert.Equal(t, "en", docs[0].Language)
	assert.Equal(t, "cc-by", docs[0].License)
	assert.Equal(t, []string{"housing", "lease"}, docs[0].TagList)
}

func TestUpload_RejectsNonPDFLocally(t *testing.T) {
	f := setup(t)
	f.fake.AddUser("alice", password)
	f.fake.AddCategory("Law", "scale")
	f.login(t, "alice")
	path := writeFile(t, "notes.pdf", []byte("just text pretending to be a pdf"))

	p := f.open(t, "/upload")
	f.fake.ResetRequests()
	f.prompt.answer("Notes", "Some notes", "2", "en", "cc0", "")
	err := f.run(t, p, "submit", path)

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "only PDF files are allowed", Message(err))
	assert.Empty(t, f.fake.Requests())
}

func TestUpload_BannedUserSeesBackendMessage(t *testing.T) {
	f := setup(t)
	f.fake.AddUser("mallory", password, fakeapi.Banned())
	f.fake.AddCategory("Law", "scale")
	f.login(t, "mallory")
	path := writeFile(t, "spam.pdf", []byte("%PDF-1.4\nspam\n%%EOF\n"))

	p := f.open(t, "/upload")
	assert.Contains(t, render(p), "Your account is banned from uploading.")

	f.prompt.answer("Spam", "spam", "2", "en", "cc0", "")
	err := f.run(t, p, "submit", path)
	assert.Equal(t, "You are banned from uploading documents.", Message(err))
}

func TestReadPDF_MissingFile(t *testing.T) {
	_, _, err := readPDF(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = readPDF(" ")
	assert.ErrorIs(t, err, models.ErrValidation)
}
