package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/isokodocs/isoko/internal/client/models"
)

// listPage is /documents or /category/:categoryId with its filters.
type listPage struct {
	site  *Site
	path  string
	query models.DocumentQuery
}

func (s *Site) listView(path string, q models.DocumentQuery) *listPage {
	return &listPage{site: s, path: path, query: q}
}

func (p *listPage) Title() string {
	if p.query.Category == "" {
		return "Documents"
	}
	if c, ok := p.site.category(p.query.Category); ok {
		return c.Name
	}
	return "Category " + p.query.Category
}

func (p *listPage) Load(ctx context.Context) error {
	q := p.query
	return p.site.documents.load(ctx, func(ctx context.Context) (listing, error) {
		page, err := p.site.deps.Services.Documents.List(ctx, q)
		return listing{Query: q, Page: page}, err
	})
}

// Shown returns the documents currently on screen and the filters they were
// fetched with.
func (p *listPage) Shown() (models.DocumentQuery, []models.Document) {
	l, _, _ := p.site.documents.get()
	return l.Query, l.Page.Results
}

func (p *listPage) Render(w io.Writer) {
	l, loaded, err := p.site.documents.get()
	if err != nil {
		Fail(w, err)
		return
	}
	if !loaded {
		return
	}

	if f := describeFilters(l.Query); f != "" {
		dimColor.Fprintln(w, f)
	}
	if len(l.Page.Results) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return
	}
	renderDocuments(w, l.Page.Results, false)
	fmt.Fprintf(w, "%d of %d shown", len(l.Page.Results), l.Page.Count)
	if l.Page.HasMore() {
		fmt.Fprint(w, "; 'more' loads the next page")
	}
	fmt.Fprintln(w)
}

func describeFilters(q models.DocumentQuery) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("search", q.Search)
	add("language", q.Language)
	add("license", q.License)
	add("ordering", q.Ordering)
	return strings.Join(parts, " ")
}

func renderDocuments(w io.Writer, docs []models.Document, withStatus bool) {
	for _, d := range docs {
		cat := ""
		if d.Category != nil {
			cat = d.Category.Name
		}
		line := fmt.Sprintf("  %4d  %s", d.ID, d.Title)
		meta := []string{}
		if cat != "" {
			meta = append(meta, cat)
		}
		meta = append(meta, d.Language, fmt.Sprintf("%d views", d.ViewCount), fmt.Sprintf("%d downloads", d.DownloadCount))
		if withStatus {
			meta = append(meta, string(d.Status))
		}
		fmt.Fprintln(w, line+"  "+dimColor.Sprint(strings.Join(meta, " | ")))
		if withStatus && d.Status == models.StatusRejected && d.RejectionReason != "" {
			fmt.Fprintln(w, "        rejected: "+d.RejectionReason)
		}
	}
}

// withQuery is the path of this list with q applied.
func (p *listPage) withQuery(q models.DocumentQuery) string {
	if p.path != "/documents" {
		q.Category = ""
	}
	v := q.Values()
	if len(v) == 0 {
		return p.path
	}
	return p.path + "?" + v.Encode()
}

func (p *listPage) Actions() []Action {
	return []Action{
		{
			Name:  "search",
			Usage: "search <text>",
			Help:  "search titles, descriptions and tags",
			Run: func(_ context.Context, args []string) error {
				q := p.query
				q.Search = strings.Join(args, " ")
				q.Page = 0
				return redirect(p.withQuery(q))
			},
		},
		{
			Name:  "filter",
			Usage: "filter language=fr license=cc0 ordering=-view_count",
			Help:  "narrow or sort the list",
			Run: func(_ context.Context, args []string) error {
				q, err := applyFilters(p.query, args)
				if err != nil {
					return err
				}
				return redirect(p.withQuery(q))
			},
		},
		{
			Name: "clear",
			Help: "drop search and filters",
			Run: func(context.Context, []string) error {
				return redirect(p.path)
			},
		},
		{
			Name: "more",
			Help: "load the next page",
			Run: func(ctx context.Context, _ []string) error {
				return p.more(ctx)
			},
		},
		{
			Name:  "open",
			Usage: "open <document id>",
			Help:  "show a document",
			Run:   openDocument,
		},
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

func (p *listPage) more(ctx context.Context) error {
	cur, _, _ := p.site.documents.get()
	if !cur.Page.HasMore() {
		Notice(p.site.out(), "No more documents.")
		return nil
	}
	return p.site.documents.load(ctx, func(ctx context.Context) (listing, error) {
		next, err := p.site.deps.Services.Documents.More(ctx, cur.Page.Next)
		if err != nil {
			return cur, err
		}
		next.Results = append(append([]models.Document{}, cur.Page.Results...), next.Results...)
		return listing{Query: cur.Query, Page: next}, nil
	})
}

func applyFilters(q models.DocumentQuery, args []string) (models.DocumentQuery, error) {
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return q, &models.ValidationError{Field: "filter", Message: "filters look like key=value, got " + arg}
		}
		switch k {
		case "language":
			if v != "" && !models.ValidChoice(models.Languages, v) {
				return q, &models.ValidationError{Field: k, Message: "unsupported language " + v}
			}
			q.Language = v
		case "license":
			if v != "" && !models.ValidChoice(models.Licenses, v) {
				return q, &models.ValidationError{Field: k, Message: "unsupported license " + v}
			}
			q.License = v
		case "ordering":
			if v != "" && !models.ValidChoice(models.Orderings, v) {
				return q, &models.ValidationError{Field: k, Message: "unsupported ordering " + v}
			}
			q.Ordering = v
		case "search":
			q.Search = v
		case "category":
			q.Category = v
		case "page":
			var n int
			if _, err := fmt.Sscan(v, &n); err != nil || n < 1 {
				return q, &models.ValidationError{Field: k, Message: "invalid page " + v}
			}
			q.Page = n
			continue
		default:
			return q, &models.ValidationError{Field: k, Message: "unknown filter " + k}
		}
		q.Page = 0
	}
	return q, nil
}

func openDocument(_ context.Context, args []string) error {
	id, err := parseID(args, "document")
	if err != nil {
		return err
	}
	return redirect(fmt.Sprintf("/document/%d", id))
}
