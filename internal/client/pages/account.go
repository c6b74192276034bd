package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/isokodocs/isoko/internal/client/models"
)

type loginPage struct {
	site *Site
}

func (p *loginPage) Title() string { return "Log in" }

func (p *loginPage) Load(context.Context) error {
	if p.site.User() != nil {
		return redirect("/")
	}
	return nil
}

func (p *loginPage) Render(w io.Writer) {
	fmt.Fprintln(w, "Type 'submit' to log in, or 'register' to create an account.")
}

func (p *loginPage) Actions() []Action {
	return []Action{
		{
			Name:    "submit",
			Usage:   "submit [username]",
			Help:    "log in",
			Visible: AnonymousOnly,
			Run:     p.submit,
		},
		{
			Name:    "register",
			Help:    "create an account instead",
			Visible: AnonymousOnly,
			Run: func(context.Context, []string) error {
				return redirect("/register")
			},
		},
	}
}

func (p *loginPage) submit(ctx context.Context, args []string) error {
	ask := p.site.deps.Prompt
	if ask == nil {
		return fmt.Errorf("no input available")
	}

	username, err := p.site.askIfMissing(args, "Username")
	if err != nil {
		return err
	}
	password, err := ask.AskSecret("Password")
	if err != nil {
		return err
	}

	res := p.site.deps.Session.Login(ctx, strings.TrimSpace(username), password)
	if !res.Success {
		return &resultError{res: res}
	}
	p.site.Forget()
	u := p.site.User()
	if u != nil {
		succeed(p.site.out(), "Welcome back, %s.", u.DisplayName())
	}
	return redirect("/")
}

type registerPage struct {
	site *Site
}

func (p *registerPage) Title() string { return "Create an account" }

func (p *registerPage) Load(context.Context) error {
	if p.site.User() != nil {
		return redirect("/")
	}
	return nil
}

func (p *registerPage) Render(w io.Writer) {
	fmt.Fprintf(w, "Passwords need at least %d characters. Type 'submit' to fill in the form.\n", models.MinPasswordLength)
}

func (p *registerPage) Actions() []Action {
	return []Action{
		{
			Name:    "submit",
			Help:    "fill in and send the registration form",
			Visible: AnonymousOnly,
			Run:     p.submit,
		},
		{
			Name:    "login",
			Help:    "log in with an existing account",
			Visible: AnonymousOnly,
			Run: func(context.Context, []string) error {
				return redirect("/login")
			},
		},
	}
}

func (p *registerPage) submit(ctx context.Context, _ []string) error {
	ask := p.site.deps.Prompt
	if ask == nil {
		return fmt.Errorf("no input available")
	}

	var form models.Registration
	steps := []struct {
		dst    *string
		prompt string
		secret bool
	}{
		{&form.Username, "Username", false},
		{&form.Email, "Email", false},
		{&form.FirstName, "First name (optional)", false},
		{&form.LastName, "Last name (optional)", false},
		{&form.Password, "Password", true},
		{&form.Password2, "Confirm password", true},
	}
	for _, s := range steps {
		var err error
		if s.secret {
			*s.dst, err = ask.AskSecret(s.prompt)
		} else {
			*s.dst, err = ask.Ask(s.prompt)
			*s.dst = strings.TrimSpace(*s.dst)
		}
		if err != nil {
			return err
		}
	}

	res := p.site.deps.Session.Register(ctx, form)
	if !res.Success {
		return &resultError{res: res}
	}
	p.site.Forget()
	succeed(p.site.out(), "Welcome to isoko, %s.", form.Username)
	return redirect("/")
}
