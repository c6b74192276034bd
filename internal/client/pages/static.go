package pages

import (
	"context"
	"fmt"
	"io"
)

type staticPage struct {
	title string
	body  string
}

func (p *staticPage) Title() string { return p.title }

func (p *staticPage) Load(context.Context) error { return nil }

func (p *staticPage) Actions() []Action { return nil }

func (p *staticPage) Render(w io.Writer) { fmt.Fprint(w, p.body) }

var termsPage = &staticPage{
	title: "Terms of use",
	body: `By uploading a document you confirm that you hold the rights to share it
under the license you select. Documents are published only after review and
may be removed at any time. Accounts that upload infringing or abusive
material can be banned from uploading.
`,
}

var privacyPage = &staticPage{
	title: "Privacy",
	body: `We store your username, email address and the documents you upload.
Download and view counts are kept per document, not per person. Your session
tokens are kept in a local database on this machine and removed when you log
out.
`,
}

var takedownPage = &staticPage{
	title: "Takedown requests",
	body: `If a document infringes your rights or exposes personal information, open
it and use 'report' with the reason copyright or personal_info, describing
the problem. A moderator reviews every report and removes documents that
break the terms.
`,
}
