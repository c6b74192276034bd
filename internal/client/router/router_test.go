package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *Router[string] {
	r := New[string]()
	r.Handle("/", func(Params) string { return "home" })
	r.Handle("/documents", func(Params) string { return "list" })
	r.Handle("/documents/:filter", func(p Params) string { return "filter:" + p.Var("filter") })
	r.Handle("/documents/mine", func(Params) string { return "mine" })
	r.Handle("/category/:categoryId", func(p Params) string { return "category:" + p.Var("categoryId") })
	r.Handle("/document/:documentId", func(p Params) string { return "detail:" + p.Var("documentId") })
	return r
}

func TestRouter_Resolve(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "home"},
		{path: "", want: "home"},
		{path: "/documents/", want: "list"},
		{path: "documents", want: "list"},
		{path: "/documents/mine", want: "mine"},
		{path: "/documents/popular", want: "filter:popular"},
		{path: "/category/3", want: "category:3"},
		{path: "/document/42?from=search", want: "detail:42"},
		{path: "/document/42/", want: "detail:42"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, _, err := r.Resolve(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouter_Params(t *testing.T) {
	r := newTestRouter()

	_, p, err := r.Resolve("/category/7?search=lease&page=2")
	require.NoError(t, err)
	assert.Equal(t, "/category/7", p.Path)
	assert.Equal(t, "lease", p.Query.Get("search"))

	id, err := p.Int64("categoryId")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, p, err = r.Resolve("/document/abc")
	require.NoError(t, err)
	_, err = p.Int64("documentId")
	require.Error(t, err)
}

func TestRouter_NoRoute(t *testing.T) {
	r := newTestRouter()

	for _, raw := range []string{"/nope", "/document", "/document/1/extra", "%zz"} {
		_, _, err := r.Resolve(raw)
		assert.ErrorIs(t, err, ErrNoRoute, raw)
	}
}

func TestRouter_Patterns(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, []string{"/", "/documents", "/documents/:filter", "/documents/mine", "/category/:categoryId", "/document/:documentId"}, r.Patterns())
}
