package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/client/router"
	"github.com/isokodocs/isoko/internal/client/services"
	"github.com/isokodocs/isoko/internal/logging"
)

type Deps struct {
	Session  Session
	Services *services.Services
	Prompt   Prompter
	// Out receives the notices printed by actions.
	Out         io.Writer
	DownloadDir string
	Log         logging.Logger
}

// listing is one page of documents together with the filters that
// produced it.
type listing struct {
	Query models.DocumentQuery
	Page  models.Page[models.Document]
}

// Site is the set of isoko pages. Views of the same resource share one
// slot, so a slow response for a view the user has already left cannot
// overwrite the view they moved to.
type Site struct {
	deps   Deps
	routes *router.Router[Page]

	categories slot[[]models.Category]
	documents  slot[listing]
	document   slot[models.Document]
	mine       slot[models.Page[models.Document]]
	pending    slot[[]models.Document]
	reports    slot[[]models.Report]
	users      slot[[]models.User]
}

func NewSite(d Deps) *Site {
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if d.Out == nil {
		d.Out = io.Discard
	}
	s := &Site{deps: d, routes: router.New[Page]()}

	s.routes.Handle("/", func(router.Params) Page { return &homePage{site: s} })
	s.routes.Handle("/documents", func(p router.Params) Page {
		return s.listView("/documents", models.QueryFromValues(p.Query))
	})
	s.routes.Handle("/documents/mine", func(router.Params) Page { return &minePage{site: s} })
	s.routes.Handle("/category/:categoryId", func(p router.Params) Page {
		q := models.QueryFromValues(p.Query)
		q.Category = p.Var("categoryId")
		return s.listView(p.Path, q)
	})
	s.routes.Handle("/document/:documentId", func(p router.Params) Page {
		id, err := p.Int64("documentId")
		return &detailPage{site: s, id: id, idErr: err}
	})
	s.routes.Handle("/upload", func(router.Params) Page { return &uploadPage{site: s} })
	s.routes.Handle("/login", func(router.Params) Page { return &loginPage{site: s} })
	s.routes.Handle("/register", func(router.Params) Page { return &registerPage{site: s} })
	s.routes.Handle("/moderator", func(p router.Params) Page {
		return &moderatorPage{site: s, tab: tabOf(p.Query.Get("tab"))}
	})
	s.routes.Handle("/terms", func(router.Params) Page { return termsPage })
	s.routes.Handle("/privacy", func(router.Params) Page { return privacyPage })
	s.routes.Handle("/takedown", func(router.Params) Page { return takedownPage })
	return s
}

// Open resolves path to a page without loading it.
func (s *Site) Open(path string) (Page, error) {
	p, _, err := s.routes.Resolve(path)
	return p, err
}

func (s *Site) Paths() []string {
	return s.routes.Patterns()
}

// User returns the current user, or nil when nobody is logged in.
func (s *Site) User() *models.User {
	if s.deps.Session == nil {
		return nil
	}
	u, ok := s.deps.Session.CurrentUser()
	if !ok {
		return nil
	}
	return &u
}

// LoadCategories refreshes the category list shown in the sidebar.
func (s *Site) LoadCategories(ctx context.Context) error {
	return s.categories.load(ctx, s.deps.Services.Categories.List)
}

// Ping checks that the backend answers without touching any loaded page
// data.
func (s *Site) Ping(ctx context.Context) error {
	_, err := s.deps.Services.Categories.List(ctx)
	return err
}

// Forget drops cached per-user state, such as after a logout.
func (s *Site) Forget() {
	s.mine.reset()
	s.pending.reset()
	s.reports.reset()
	s.users.reset()
}

// Header prints the navigation bar for the current user.
func (s *Site) Header(w io.Writer) {
	links := []string{"/", "/documents"}
	u := s.User()
	if LoggedIn(u) {
		links = append(links, "/documents/mine", "/upload")
	}
	if ModeratorOnly(u) {
		links = append(links, "/moderator")
	}

	titleColor.Fprint(w, "isoko")
	fmt.Fprint(w, "  "+strings.Join(links, "  "))
	switch {
	case u == nil:
		fmt.Fprintln(w, "  |  /login  /register")
	case u.IsModerator:
		fmt.Fprintf(w, "  |  %s (moderator)\n", u.Username)
	default:
		fmt.Fprintf(w, "  |  %s\n", u.Username)
	}
}

// Sidebar prints the categories with their document counts.
func (s *Site) Sidebar(w io.Writer) {
	cats, _, _ := s.categories.get()
	if len(cats) == 0 {
		return
	}
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("/category/%d %s (%d)", c.ID, c.Name, c.DocumentCount))
	}
	dimColor.Fprintln(w, "categories: "+strings.Join(parts, "  "))
}

// category finds a cached category by id or slug.
func (s *Site) category(ref string) (models.Category, bool) {
	cats, _, _ := s.categories.get()
	for _, c := range cats {
		if strconv.FormatInt(c.ID, 10) == ref || c.Slug == ref {
			return c, true
		}
	}
	return models.Category{}, false
}

func (s *Site) out() io.Writer {
	return s.deps.Out
}

// parseID reads the numeric argument an action was given.
func parseID(args []string, what string) (int64, error) {
	if len(args) == 0 {
		return 0, &models.ValidationError{Field: what, Message: what + " id is required"}
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Field: what, Message: "invalid " + what + " id " + strconv.Quote(args[0])}
	}
	return id, nil
}

// askIfMissing returns args joined, or prompts when there are none.
func (s *Site) askIfMissing(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if s.deps.Prompt == nil {
		return "", nil
	}
	return s.deps.Prompt.Ask(prompt)
}
