package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/isokodocs/isoko/internal/client/models"
)

type detailPage struct {
	site  *Site
	id    int64
	idErr error
}

func (p *detailPage) Title() string {
	if doc, ok := p.current(); ok {
		return doc.Title
	}
	return "Document"
}

func (p *detailPage) Load(ctx context.Context) error {
	if p.idErr != nil {
		return &models.ValidationError{Field: "document", Message: p.idErr.Error()}
	}
	return p.site.document.load(ctx, func(ctx context.Context) (models.Document, error) {
		return p.site.deps.Services.Documents.Get(ctx, p.id)
	})
}

// current is the loaded document if it is the one this page is about.
func (p *detailPage) current() (models.Document, bool) {
	doc, loaded, err := p.site.document.get()
	if !loaded || err != nil || doc.ID != p.id {
		return models.Document{}, false
	}
	return doc, true
}

func (p *detailPage) Render(w io.Writer) {
	if p.idErr != nil {
		Fail(w, &models.ValidationError{Field: "document", Message: p.idErr.Error()})
		return
	}
	if _, _, err := p.site.document.get(); err != nil {
		Fail(w, err)
		return
	}
	d, ok := p.current()
	if !ok {
		return
	}

	titleColor.Fprintln(w, d.Title)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
		}
	}
	if d.Category != nil {
		row("Category", d.Category.Name)
	}
	row("Language", models.Label(models.Languages, d.Language))
	license := models.Label(models.Licenses, d.License)
	if d.LicenseDetails != "" {
		license += " (" + d.LicenseDetails + ")"
	}
	row("License", license)
	if d.Status != models.StatusApproved {
		row("Status", string(d.Status))
	}
	row("Rejected", d.RejectionReason)
	row("Uploaded by", d.UploadedBy)
	if !d.CreatedAt.IsZero() {
		row("Uploaded", d.CreatedAt.Local().Format("2006-01-02"))
	}
	if d.FileSize > 0 {
		row("Size", d.HumanSize())
	}
	row("Views", fmt.Sprint(d.ViewCount))
	row("Downloads", fmt.Sprint(d.DownloadCount))
	if len(d.TagList) > 0 {
		row("Tags", strings.Join(d.TagList, ", "))
	}
	if d.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, d.Description)
	}
}

func (p *detailPage) Actions() []Action {
	return []Action{
		{
			Name: "download",
			Help: "save the PDF to the download directory",
			Run:  p.download,
		},
		{
			Name:    "report",
			Usage:   "report <copyright|spam|personal_info|inappropriate|other> [details]",
			Help:    "flag this document for moderators",
			Visible: LoggedIn,
			Run:     p.report,
		},
		{
			Name:    "approve",
			Help:    "publish this document",
			Visible: p.reviewable,
			Run: func(ctx context.Context, _ []string) error {
				doc, err := p.site.deps.Services.Documents.Approve(ctx, p.id)
				if err != nil {
					return err
				}
				p.site.document.update(func(models.Document) models.Document { return doc })
				succeed(p.site.out(), "Document approved.")
				return nil
			},
		},
		{
			Name:    "reject",
			Usage:   "reject <reason>",
			Help:    "reject this document",
			Visible: p.reviewable,
			Run: func(ctx context.Context, args []string) error {
				reason, err := p.site.askIfMissing(args, "Rejection reason")
				if err != nil {
					return err
				}
				doc, err := p.site.deps.Services.Documents.Reject(ctx, p.id, reason)
				if err != nil {
					return err
				}
				p.site.document.update(func(models.Document) models.Document { return doc })
				succeed(p.site.out(), "Document rejected.")
				return nil
			},
		},
	}
}

func (p *detailPage) reviewable(u *models.User) bool {
	d, ok := p.current()
	return ModeratorOnly(u) && ok && d.Status == models.StatusPending
}

func (p *detailPage) download(ctx context.Context, _ []string) error {
	doc, ok := p.current()
	if !ok {
		doc = models.Document{ID: p.id, Title: fmt.Sprintf("document-%d", p.id)}
	}
	path, err := p.site.deps.Services.Documents.Save(ctx, doc, p.site.deps.DownloadDir)
	if err != nil {
		return err
	}
	succeed(p.site.out(), "Saved to %s", path)

	// counters changed on the server
	if err := p.Load(ctx); err != nil {
		p.site.deps.Log.Warn(ctx, "document refresh failed", "id", p.id, "error", err)
	}
	return nil
}

func (p *detailPage) report(ctx context.Context, args []string) error {
	form := models.ReportForm{Document: p.id}
	if len(args) > 0 {
		form.Reason, form.Description = args[0], strings.Join(args[1:], " ")
	} else if p.site.deps.Prompt != nil {
		var err error
		if form.Reason, err = p.site.deps.Prompt.Ask("Reason (" + choiceValues(models.ReportReasons) + ")"); err != nil {
			return err
		}
		if form.Description, err = p.site.deps.Prompt.Ask("Details (optional)"); err != nil {
			return err
		}
	}

	if _, err := p.site.deps.Services.Reports.Create(ctx, form); err != nil {
		return err
	}
	succeed(p.site.out(), "Report submitted. Thank you.")
	return nil
}

func choiceValues(choices []models.Choice) string {
	vals := make([]string, len(choices))
	for i, c := range choices {
		vals[i] = c.Value
	}
	return strings.Join(vals, "|")
}
