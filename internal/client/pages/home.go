package pages

import (
	"context"
	"fmt"
	"io"
)

type homePage struct {
	site *Site
}

func (p *homePage) Title() string { return "Home" }

func (p *homePage) Load(ctx context.Context) error {
	return p.site.LoadCategories(ctx)
}

func (p *homePage) Render(w io.Writer) {
	titleColor.Fprintln(w, "Share and discover free documents")
	fmt.Fprintln(w, "Browse openly licensed PDFs by category, or log in to upload your own.")
	fmt.Fprintln(w)

	cats, loaded, err := p.site.categories.get()
	switch {
	case err != nil:
		Fail(w, err)
		return
	case !loaded:
		return
	case len(cats) == 0:
		fmt.Fprintln(w, "No categories yet.")
		return
	}

	fmt.Fprintln(w, "Categories:")
	for _, c := range cats {
		icon := ""
		if c.Icon != "" {
			icon = "[" + c.Icon + "] "
		}
		fmt.Fprintf(w, "  %3d  %s%s  %s\n", c.ID, icon, c.Name, dimColor.Sprintf("%d documents", c.DocumentCount))
	}
}

func (p *homePage) Actions() []Action {
	return []Action{
		{
			Name:  "open",
			Usage: "open <category id>",
			Help:  "browse a category",
			Run: func(_ context.Context, args []string) error {
				id, err := parseID(args, "category")
				if err != nil {
					return err
				}
				return redirect(fmt.Sprintf("/category/%d", id))
			},
		},
		{
			Name: "browse",
			Help: "list all documents",
			Run: func(context.Context, []string) error {
				return redirect("/documents")
			},
		},
	}
}
