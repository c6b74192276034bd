package pages

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/isokodocs/isoko/internal/client/models"
	"github.com/isokodocs/isoko/internal/common"
)

type uploadPage struct {
	site *Site
}

func (p *uploadPage) Title() string { return "Upload a document" }

func (p *uploadPage) Load(ctx context.Context) error {
	if p.site.User() == nil {
		return redirect("/login")
	}
	return p.site.LoadCategories(ctx)
}

func (p *uploadPage) Render(w io.Writer) {
	fmt.Fprintln(w, "Only PDF files up to 50 MB are accepted. New documents are reviewed by a moderator before they appear.")
	if u := p.site.User(); u != nil && u.IsBanned {
		errorColor.Fprintln(w, "Your account is banned from uploading.")
	}
	cats, _, _ := p.site.categories.get()
	if len(cats) > 0 {
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = fmt.Sprintf("%d %s", c.ID, c.Name)
		}
		dimColor.Fprintln(w, "categories: "+strings.Join(names, ", "))
	}
	dimColor.Fprintln(w, "languages: "+choiceValues(models.Languages))
	dimColor.Fprintln(w, "licenses: "+choiceValues(models.Licenses))
	fmt.Fprintln(w, "Type 'submit' to fill in the form.")
}

func (p *uploadPage) Actions() []Action {
	return []Action{
		{
			Name:    "submit",
			Usage:   "submit [path to pdf]",
			Help:    "fill in and send the upload form",
			Visible: LoggedIn,
			Run:     p.submit,
		},
	}
}

func (p *uploadPage) submit(ctx context.Context, args []string) error {
	ask := p.site.deps.Prompt
	if ask == nil {
		return fmt.Errorf("no input available")
	}

	var form models.UploadForm
	var err error
	field := func(dst *string, prompt, def string) {
		if err != nil {
			return
		}
		var v string
		if v, err = ask.Ask(prompt); err == nil {
			if v = strings.TrimSpace(v); v == "" {
				v = def
			}
			*dst = v
		}
	}

	var path, category, tags string
	if len(args) > 0 {
		path = strings.Join(args, " ")
	} else {
		field(&path, "PDF file", "")
	}
	field(&form.Title, "Title", "")
	field(&form.Description, "Description", "")
	field(&category, "Category (id or slug)", "")
	field(&form.Language, "Language [en]", "en")
	field(&form.License, "License [cc-by]", "cc-by")
	if form.License == "other" {
		field(&form.LicenseDetails, "License details", "")
	}
	field(&tags, "Tags (comma separated)", "")
	if err != nil {
		return err
	}

	if c, ok := p.site.category(category); ok {
		form.CategoryID = c.ID
	} else {
		form.CategoryID, _ = strconv.ParseInt(category, 10, 64)
	}
	form.Tags = models.SplitTags(tags)

	if form.FileName, form.Data, err = readPDF(path); err != nil {
		return err
	}

	doc, err := p.site.deps.Services.Documents.Upload(ctx, form)
	if err != nil {
		return err
	}
	succeed(p.site.out(), "%q was submitted and is awaiting review.", doc.Title)
	return redirect("/documents/mine")
}

// readPDF loads the file to upload, refusing oversized files before reading
// them.
func readPDF(path string) (string, []byte, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil, &models.ValidationError{Field: "file", Message: "file is required"}
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", nil, &models.ValidationError{Field: "file", Message: err.Error()}
	}
	if fi.Size() > common.MaxUploadSize {
		return "", nil, &models.ValidationError{Field: "file", Message: "file is larger than 50 MB"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	return filepath.Base(path), data, nil
}
