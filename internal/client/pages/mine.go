package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/isokodocs/isoko/internal/client/models"
)

// minePage lists the uploads of the logged-in user in every status.
type minePage struct {
	site *Site
}

func (p *minePage) Title() string { return "My documents" }

func (p *minePage) Load(ctx context.Context) error {
	if p.site.User() == nil {
		return redirect("/login")
	}
	return p.site.mine.load(ctx, p.site.deps.Services.Documents.Mine)
}

func (p *minePage) Render(w io.Writer) {
	page, loaded, err := p.site.mine.get()
	switch {
	case err != nil:
		Fail(w, err)
	case !loaded:
	case len(page.Results) == 0:
		fmt.Fprintln(w, "You have not uploaded anything yet; 'upload' to submit a document.")
	default:
		renderDocuments(w, page.Results, true)
	}
}

func (p *minePage) Actions() []Action {
	return []Action{
		{Name: "open", Usage: "open <document id>", Help: "show a document", Run: openDocument},
		{
			Name:    "upload",
			Help:    "submit a new document",
			Visible: LoggedIn,
			Run: func(context.Context, []string) error {
				return redirect("/upload")
			},
		},
	}
}

// Documents returns the listed uploads.
func (p *minePage) Documents() []models.Document {
	page, _, _ := p.site.mine.get()
	return page.Results
}
