package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/auth"
	"github.com/isokodocs/isoko/internal/client/config"
	"github.com/isokodocs/isoko/internal/client/pages"
	"github.com/isokodocs/isoko/internal/client/services"
	"github.com/isokodocs/isoko/internal/client/session"
	"github.com/isokodocs/isoko/internal/common"
	"github.com/isokodocs/isoko/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	maxRedirects = 5
	maxHistory   = 50
	probeTimeout = 5 * time.Second
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

type App struct {
	config  *config.Config
	gateway *auth.Gateway
	site    *pages.Site
	log     logging.Logger
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer

	// ui serialises page loads, actions and the output they produce, so a
	// watcher tick cannot draw over a command.
	ui sync.Mutex

	mu      sync.Mutex
	mode    Mode
	path    string
	page    pages.Page
	history []string
}

type Option func(*App)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.reader = bufio.NewReader(in)
		a.out = out
	}
}

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

// NewApp opens the session store and wires the REST client, the auth
// gateway and the pages together.
func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	a := &App{
		config: c,
		log:    logging.Discard(),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		mode:   ModeOnline,
	}
	for _, opt := range opts {
		opt(a)
	}

	var store session.Store
	if c.Ephemeral {
		store = session.NewMemoryStore()
	} else {
		db, err := session.OpenDatabase(ctx, c.DBPath)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		a.db = db
		store = session.NewSQLiteStore(db)
	}

	client, err := api.NewClient(c.APIBaseURL, api.WithTimeout(c.RequestTimeout), api.WithLogger(a.log))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.gateway = auth.NewGateway(store, client, auth.WithLogger(a.log), auth.WithRenewal(c.RefreshOnExpiry))
	a.site = pages.NewSite(pages.Deps{
		Session:     a.gateway,
		Services:    services.New(a.gateway),
		Prompt:      &linePrompter{reader: a.reader, out: a.out},
		Out:         a.out,
		DownloadDir: c.DownloadDir,
		Log:         a.log,
	})
	return a, nil
}

// Close releases the session database.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Run restores the session, shows the home page and serves commands until
// the input ends or the user quits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	titleColor.Fprintln(a.out, "isoko: free documents, openly licensed (type 'help' for commands)")
	a.Start(ctx)

	if a.config.SessionCheckInterval > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, a.config.SessionCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Start resolves the persisted session and opens the home page.
func (a *App) Start(ctx context.Context) {
	a.ui.Lock()
	defer a.ui.Unlock()

	dimColor.Fprintln(a.out, "Restoring session...")
	state := a.gateway.Resolve(ctx)
	a.log.Info(ctx, "session resolved", "state", state)

	if err := a.site.LoadCategories(ctx); errors.Is(err, api.ErrUnavailable) {
		a.setMode(ModeOffline)
	}
	_ = a.navigate(ctx, "/", true)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		pages.Notice(a.out, "Switched to %s mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Path is the path of the page on screen.
func (a *App) Path() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

func (a *App) current() (string, pages.Page) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path, a.page
}

func (a *App) isLoggedIn() bool {
	_, ok := a.gateway.CurrentUser()
	return ok
}

func (a *App) getStatus() string {
	s := ""
	if u, ok := a.gateway.CurrentUser(); ok {
		s = u.Username + " "
	}
	if a.gateway.IsLoading() {
		s += "loading"
	} else {
		s += string(a.Mode())
	}
	return fmt.Sprintf("(%s) %s", s, a.Path())
}

// Navigate opens path, following redirects, and shows the result.
func (a *App) Navigate(ctx context.Context, path string) error {
	a.ui.Lock()
	defer a.ui.Unlock()
	return a.navigate(ctx, path, true)
}

func (a *App) navigate(ctx context.Context, path string, record bool) error {
	for range maxRedirects {
		page, err := a.site.Open(path)
		if err != nil {
			pages.Fail(a.out, fmt.Errorf("page not found: %s", path))
			return err
		}

		a.mu.Lock()
		if record && a.path != "" && a.path != path {
			a.history = append(a.history, a.path)
			if len(a.history) > maxHistory {
				a.history = a.history[1:]
			}
		}
		a.path, a.page = path, page
		a.mu.Unlock()

		err = page.Load(ctx)
		if to, ok := pages.AsRedirect(err); ok {
			path, record = to, false
			continue
		}
		if errors.Is(err, pages.ErrSuperseded) {
			// the newer load owns the data; show whatever it committed
			a.log.Debug(ctx, "page load superseded", "path", path)
		} else if err != nil {
			a.log.Debug(ctx, "page load failed", "path", path, "error", err)
			a.noteFailure(ctx, err)
		}
		a.show(page)
		return nil
	}
	return fmt.Errorf("too many redirects at %s", path)
}

// Back returns to the previous page.
func (a *App) Back(ctx context.Context) error {
	a.ui.Lock()
	defer a.ui.Unlock()

	a.mu.Lock()
	if len(a.history) == 0 {
		a.mu.Unlock()
		pages.Notice(a.out, "Nothing to go back to.")
		return nil
	}
	prev := a.history[len(a.history)-1]
	a.history = a.history[:len(a.history)-1]
	a.mu.Unlock()

	return a.navigate(ctx, prev, false)
}

// Reload fetches the current page again.
func (a *App) Reload(ctx context.Context) error {
	a.ui.Lock()
	defer a.ui.Unlock()
	return a.reload(ctx)
}

func (a *App) reload(ctx context.Context) error {
	path, _ := a.current()
	if path == "" {
		path = "/"
	}
	return a.navigate(ctx, path, false)
}

func (a *App) show(page pages.Page) {
	fmt.Fprintln(a.out)
	a.site.Header(a.out)
	a.site.Sidebar(a.out)
	fmt.Fprintln(a.out)
	titleColor.Fprintln(a.out, page.Title())
	page.Render(a.out)
}

// Invoke runs a page action by name. It reports false when the page has no
// such action.
func (a *App) Invoke(ctx context.Context, name string, args []string) (bool, error) {
	a.ui.Lock()
	defer a.ui.Unlock()

	_, page := a.current()
	if page == nil {
		return false, nil
	}
	action, ok := pages.Find(page, name)
	if !ok {
		return false, nil
	}

	err := action.Run(ctx, args)
	if to, ok := pages.AsRedirect(err); ok {
		return true, a.navigate(ctx, to, true)
	}
	if err != nil {
		pages.Fail(a.out, err)
		a.noteFailure(ctx, err)
		return true, err
	}
	page.Render(a.out)
	return true, nil
}

// noteFailure reacts to failures that say something about the session or
// the backend as a whole.
func (a *App) noteFailure(ctx context.Context, err error) {
	switch {
	case errors.Is(err, api.ErrUnavailable):
		a.setMode(ModeOffline)
	case errors.Is(err, api.ErrUnauthorized) && a.isLoggedIn():
		if errors.Is(a.gateway.Revalidate(ctx), common.ErrSessionRevoked) {
			a.sessionEnded(ctx)
		}
	}
}

func (a *App) sessionEnded(ctx context.Context) {
	a.site.Forget()
	pages.Notice(a.out, "Your session has ended; please log in again.")
	a.log.Info(ctx, "session revoked")
}

// Logout ends the session and re-opens the current page for an anonymous
// visitor.
func (a *App) Logout(ctx context.Context) error {
	a.ui.Lock()
	defer a.ui.Unlock()

	if !a.isLoggedIn() {
		pages.Notice(a.out, "You are not logged in.")
		return nil
	}
	a.gateway.Logout()
	a.site.Forget()
	pages.Notice(a.out, "Logged out.")
	return a.reload(ctx)
}

// Whoami prints the current user and when the session expires.
func (a *App) Whoami(context.Context) error {
	a.ui.Lock()
	defer a.ui.Unlock()

	u, ok := a.gateway.CurrentUser()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	role := "member"
	if u.IsModerator {
		role = "moderator"
	}
	fmt.Fprintf(a.out, "%s <%s>, %s", u.DisplayName(), u.Email, role)
	if u.IsBanned {
		fmt.Fprint(a.out, ", banned from uploading")
	}
	if exp, ok := a.gateway.SessionExpiry(); ok {
		fmt.Fprintf(a.out, "; session expires %s", exp.Local().Format(time.DateTime))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Help lists the commands available on the current page.
func (a *App) Help() []string {
	lines := []string{
		"go <path>        open a page (" + strings.Join(a.site.Paths(), " ") + ")",
		"back, reload     navigation",
		"whoami           show the current user",
	}
	if a.isLoggedIn() {
		lines = append(lines, "logout           end the session")
	} else {
		lines = append(lines, "login, register  authenticate")
	}

	_, page := a.current()
	if page != nil {
		user := a.site.User()
		for _, act := range page.Actions() {
			if !act.VisibleTo(user) {
				continue
			}
			usage := act.Usage
			if usage == "" {
				usage = act.Name
			}
			lines = append(lines, fmt.Sprintf("%-16s %s", usage, act.Help))
		}
	}
	return append(lines, "exit             leave the program")
}

// StartOnlineStatusWatcher re-checks the session and the backend every
// interval until ctx is done. A session the backend no longer accepts is
// dropped; an unreachable backend switches the shell to offline mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	// The probe bypasses the page slots so it never supersedes a load the
	// user started.
	var err error
	if a.isLoggedIn() {
		err = a.gateway.Revalidate(probeCtx)
	} else {
		err = a.site.Ping(probeCtx)
	}

	a.ui.Lock()
	defer a.ui.Unlock()

	switch {
	case errors.Is(err, common.ErrSessionRevoked):
		a.setMode(ModeOnline)
		a.sessionEnded(ctx)
		if err := a.reload(ctx); err != nil {
			a.log.Warn(ctx, "reload after session end failed", "error", err)
		}
	case err == nil:
		a.setMode(ModeOnline)
	case errors.Is(err, context.Canceled):
	default:
		a.log.Debug(ctx, "backend check failed", "error", err)
		a.setMode(ModeOffline)
	}
}
