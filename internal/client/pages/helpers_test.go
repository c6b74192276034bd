package pages

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/auth"
	"github.com/isokodocs/isoko/internal/client/services"
	"github.com/isokodocs/isoko/internal/client/session"
	"github.com/isokodocs/isoko/internal/testutil/fakeapi"
)

const password = "correct-horse"

// script answers prompts in order.
type script struct {
	mu      sync.Mutex
	answers []string
	asked   []string
}

func (s *script) next(prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, prompt)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *script) Ask(prompt string) (string, error) { return s.next(prompt) }
func (s *script) AskSecret(prompt string) (string, error) { return s.next(prompt) }

func (s *script) answer(a ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, a...)
}

type fixture struct {
	fake   *fakeapi.Server
	gw     *auth.Gateway
	site   *Site
	prompt *script
	out    *bytes.Buffer
}

func setup(t *testing.T) *fixture {
	t.Helper()
	fake := fakeapi.New(t)
	client, err := api.NewClient(fake.URL)
	require.NoError(t, err)
	gw := auth.NewGateway(session.NewMemoryStore(), client)
	gw.Resolve(context.Background())

	f := &fixture{fake: fake, gw: gw, prompt: &script{}, out: &bytes.Buffer{}}
	f.site = NewSite(Deps{
		Session:     gw,
		Services:    services.New(gw),
		Prompt:      f.prompt,
		Out:         f.out,
		DownloadDir: t.TempDir(),
	})
	return f
}

func (f *fixture) login(t *testing.T, username string) {
	t.Helper()
	res := f.gw.Login(context.Background(), username, password)
	require.True(t, res.Success, res.Error)
}

// open resolves and loads path.
func (f *fixture) open(t *testing.T, path string) Page {
	t.Helper()
	p, err := f.site.Open(path)
	require.NoError(t, err)
	require.NoError(t, p.Load(context.Background()))
	return p
}

func (f *fixture) run(t *testing.T, p Page, name string, args ...string) error {
	t.Helper()
	a, ok := Find(p, name)
	require.True(t, ok, "no action %q on %s", name, p.Title())
	return a.Run(context.Background(), args)
}

func render(p Page) string {
	var buf bytes.Buffer
	p.Render(&buf)
	return buf.String()
}

func capture(fn func(io.Writer)) string {
	var buf bytes.Buffer
	fn(&buf)
	return buf.String()
}

func requireRedirect(t *testing.T, err error, to string) {
	t.Helper()
	got, ok := AsRedirect(err)
	require.True(t, ok, "expected redirect, got %v", err)
	require.Equal(t, to, got)
}
