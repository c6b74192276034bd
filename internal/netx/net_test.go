package netx

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultipartBody_RoundTripThroughServer(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%fake\n")

	var (
		gotTitle string
		gotTags  string
		gotCT    string
		gotName  string
		gotData  []byte
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotTitle = r.FormValue("title")
		gotTags = r.FormValue("tags")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotCT = hdr.Header.Get("Content-Type")
		gotName = hdr.Filename
		gotData, _ = io.ReadAll(f)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	body, ct, err := MultipartBody(
		[]Field{{Name: "title", Value: "Linear Algebra"}, {Name: "tags", Value: "math,notes"}},
		&FilePart{Field: "file", FileName: "la.pdf", ContentType: "application/pdf", Data: pdf},
	)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL, ct, bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "Linear Algebra", gotTitle)
	require.Equal(t, "math,notes", gotTags)
	require.Equal(t, "application/pdf", gotCT)
	require.Equal(t, "la.pdf", gotName)
	require.Equal(t, pdf, gotData)
}

func TestMultipartBody_FieldsOnly(t *testing.T) {
	body, ct, err := MultipartBody([]Field{{Name: "a", Value: "1"}}, nil)
	require.NoError(t, err)
	require.Contains(t, ct, "multipart/form-data; boundary=")
	require.Contains(t, string(body), `name="a"`)
	require.NotContains(t, string(body), "filename=")
}
