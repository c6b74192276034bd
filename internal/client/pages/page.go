package pages

import (
	"context"
	"errors"
	"io"

	"github.com/isokodocs/isoko/internal/client/auth"
	"github.com/isokodocs/isoko/internal/client/models"
)

// ErrSuperseded is returned by a load whose result was discarded because a
// newer load of the same resource started after it.
var ErrSuperseded = errors.New("superseded by a newer load")

// Session is what pages need from the auth gateway.
type Session interface {
	CurrentUser() (models.User, bool)
	Login(ctx context.Context, username, password string) auth.Result
	Register(ctx context.Context, form models.Registration) auth.Result
	Logout()
}

// Prompter collects form input from the user.
type Prompter interface {
	Ask(prompt string) (string, error)
	AskSecret(prompt string) (string, error)
}

type Page interface {
	Title() string
	// Load fetches what the page shows. It may return a *Redirect.
	Load(ctx context.Context) error
	Render(w io.Writer)
	Actions() []Action
}

type Action struct {
	Name  string
	Usage string
	Help  string
	// Visible decides whether the action is offered to u, which is nil for
	// an anonymous visitor. A hidden action can still be run.
	Visible func(u *models.User) bool
	Run     func(ctx context.Context, args []string) error
}

func (a Action) VisibleTo(u *models.User) bool {
	return a.Visible == nil || a.Visible(u)
}

// Find looks up an action by name whether or not it is visible.
func Find(p Page, name string) (Action, bool) {
	for _, a := range p.Actions() {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Redirect asks the shell to navigate elsewhere.
type Redirect struct {
	To string
}

func (r *Redirect) Error() string {
	return "redirect to " + r.To
}

func redirect(to string) error {
	return &Redirect{To: to}
}

// AsRedirect extracts a redirect target from err.
func AsRedirect(err error) (string, bool) {
	var r *Redirect
	if errors.As(err, &r) {
		return r.To, true
	}
	return "", false
}

func LoggedIn(u *models.User) bool {
	return u != nil
}

func ModeratorOnly(u *models.User) bool {
	return u != nil && u.IsModerator
}

func AnonymousOnly(u *models.User) bool {
	return u == nil
}

// resultError carries a failed auth.Result through the error path.
type resultError struct {
	res auth.Result
}

func (e *resultError) Error() string {
	return e.res.Error
}
