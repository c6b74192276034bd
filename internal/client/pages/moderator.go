package pages

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/isokodocs/isoko/internal/client/models"
)

const (
	tabDocuments = "documents"
	tabReports   = "reports"
	tabUsers     = "users"
)

func tabOf(s string) string {
	switch s {
	case tabReports, tabUsers:
		return s
	}
	return tabDocuments
}

// moderatorPage is the review dashboard. Successful actions edit the loaded
// lists in place instead of fetching them again.
type moderatorPage struct {
	site *Site
	tab  string
}

func (p *moderatorPage) Title() string {
	return "Moderator dashboard: " + p.tab
}

func (p *moderatorPage) Load(ctx context.Context) error {
	u := p.site.User()
	if u == nil {
		return redirect("/login")
	}
	if !u.IsModerator {
		return nil
	}

	svc := p.site.deps.Services
	switch p.tab {
	case tabReports:
		return p.site.reports.load(ctx, func(ctx context.Context) ([]models.Report, error) {
			return svc.Reports.List(ctx, "")
		})
	case tabUsers:
		return p.site.users.load(ctx, svc.Users.List)
	default:
		return p.site.pending.load(ctx, func(ctx context.Context) ([]models.Document, error) {
			page, err := svc.Documents.List(ctx, models.DocumentQuery{Status: string(models.StatusPending)})
			return page.Results, err
		})
	}
}

func (p *moderatorPage) Render(w io.Writer) {
	if !ModeratorOnly(p.site.User()) {
		errorColor.Fprintln(w, "Moderator access required.")
		return
	}
	dimColor.Fprintln(w, "tabs: documents  reports  users")

	switch p.tab {
	case tabReports:
		p.renderReports(w)
	case tabUsers:
		p.renderUsers(w)
	default:
		p.renderPending(w)
	}
}

func (p *moderatorPage) renderPending(w io.Writer) {
	docs, loaded, err := p.site.pending.get()
	switch {
	case err != nil:
		Fail(w, err)
	case !loaded:
	case len(docs) == 0:
		fmt.Fprintln(w, "No documents waiting for review.")
	default:
		for _, d := range docs {
			fmt.Fprintf(w, "  %4d  %s  %s\n", d.ID, d.Title, dimColor.Sprintf("by %s", d.UploadedBy))
		}
	}
}

func (p *moderatorPage) renderReports(w io.Writer) {
	reports, loaded, err := p.site.reports.get()
	switch {
	case err != nil:
		Fail(w, err)
	case !loaded:
	case len(reports) == 0:
		fmt.Fprintln(w, "No reports.")
	default:
		for _, r := range reports {
			fmt.Fprintf(w, "  %4d  [%s] %s: %s  %s\n", r.ID, r.Status, models.Label(models.ReportReasons, r.Reason),
				r.DocumentTitle, dimColor.Sprintf("by %s", r.ReportedBy))
			if r.Description != "" {
				fmt.Fprintln(w, "        "+r.Description)
			}
			if r.ModeratorNotes != "" {
				fmt.Fprintln(w, "        notes: "+r.ModeratorNotes)
			}
		}
	}
}

func (p *moderatorPage) renderUsers(w io.Writer) {
	users, loaded, err := p.site.users.get()
	switch {
	case err != nil:
		Fail(w, err)
	case !loaded:
	default:
		for _, u := range users {
			var flags []string
			if u.IsModerator {
				flags = append(flags, "moderator")
			}
			if u.IsBanned {
				flags = append(flags, "banned")
			}
			fmt.Fprintf(w, "  %4d  %s <%s>  %s\n", u.ID, u.Username, u.Email, strings.Join(flags, " "))
		}
	}
}

func (p *moderatorPage) Actions() []Action {
	tab := func(name string) func(context.Context, []string) error {
		return func(context.Context, []string) error {
			return redirect("/moderator?tab=" + name)
		}
	}
	return []Action{
		{Name: "documents", Help: "pending documents", Visible: ModeratorOnly, Run: tab(tabDocuments)},
		{Name: "reports", Help: "reports", Visible: ModeratorOnly, Run: tab(tabReports)},
		{Name: "users", Help: "users", Visible: ModeratorOnly, Run: tab(tabUsers)},
		{Name: "open", Usage: "open <document id>", Help: "show a document", Run: openDocument},
		{Name: "approve", Usage: "approve <document id>", Help: "publish a document", Visible: ModeratorOnly, Run: p.approve},
		{Name: "reject", Usage: "reject <document id> <reason>", Help: "reject a document", Visible: ModeratorOnly, Run: p.reject},
		{Name: "resolve", Usage: "resolve <report id> [notes]", Help: "mark a report resolved", Visible: ModeratorOnly, Run: p.settle(models.ReportResolved)},
		{Name: "dismiss", Usage: "dismiss <report id> [notes]", Help: "dismiss a report", Visible: ModeratorOnly, Run: p.settle(models.ReportDismissed)},
		{Name: "ban", Usage: "ban <user id> <reason>", Help: "ban a user from uploading", Visible: ModeratorOnly, Run: p.ban},
		{Name: "unban", Usage: "unban <user id>", Help: "lift a ban", Visible: ModeratorOnly, Run: p.unban},
	}
}

func (p *moderatorPage) dropPending(id int64) {
	p.site.pending.update(func(docs []models.Document) []models.Document {
		return slices.DeleteFunc(slices.Clone(docs), func(d models.Document) bool { return d.ID == id })
	})
}

func (p *moderatorPage) approve(ctx context.Context, args []string) error {
	id, err := parseID(args, "document")
	if err != nil {
		return err
	}
	if _, err := p.site.deps.Services.Documents.Approve(ctx, id); err != nil {
		return err
	}
	p.dropPending(id)
	succeed(p.site.out(), "Document %d approved.", id)
	return nil
}

func (p *moderatorPage) reject(ctx context.Context, args []string) error {
	id, err := parseID(args, "document")
	if err != nil {
		return err
	}
	reason, err := p.site.askIfMissing(args[1:], "Rejection reason")
	if err != nil {
		return err
	}
	if _, err := p.site.deps.Services.Documents.Reject(ctx, id, reason); err != nil {
		return err
	}
	p.dropPending(id)
	succeed(p.site.out(), "Document %d rejected.", id)
	return nil
}

func (p *moderatorPage) settle(status models.ReportStatus) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		id, err := parseID(args, "report")
		if err != nil {
			return err
		}
		updated, err := p.site.deps.Services.Reports.UpdateStatus(ctx, id, status, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		p.site.reports.update(func(reports []models.Report) []models.Report {
			out := slices.Clone(reports)
			for i := range out {
				if out[i].ID == id {
					out[i] = updated
				}
			}
			return out
		})
		succeed(p.site.out(), "Report %d %s.", id, status)
		return nil
	}
}

func (p *moderatorPage) setBanned(id int64, banned bool) {
	p.site.users.update(func(users []models.User) []models.User {
		out := slices.Clone(users)
		for i := range out {
			if out[i].ID == id {
				out[i].IsBanned = banned
			}
		}
		return out
	})
}

func (p *moderatorPage) ban(ctx context.Context, args []string) error {
	id, err := parseID(args, "user")
	if err != nil {
		return err
	}
	reason, err := p.site.askIfMissing(args[1:], "Ban reason")
	if err != nil {
		return err
	}
	msg, err := p.site.deps.Services.Users.Ban(ctx, id, reason)
	if err != nil {
		return err
	}
	p.setBanned(id, true)
	succeed(p.site.out(), "%s", msg)
	return nil
}

func (p *moderatorPage) unban(ctx context.Context, args []string) error {
	id, err := parseID(args, "user")
	if err != nil {
		return err
	}
	msg, err := p.site.deps.Services.Users.Unban(ctx, id)
	if err != nil {
		return err
	}
	p.setBanned(id, false)
	succeed(p.site.out(), "%s", msg)
	return nil
}

// Pending returns the documents listed on the review tab.
func (p *moderatorPage) Pending() []models.Document {
	docs, _, _ := p.site.pending.get()
	return docs
}
