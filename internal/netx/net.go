// Package netx holds HTTP body helpers that the REST client needs but that
// are independent of any endpoint.
package netx

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

// Field is a plain multipart form value.
type Field struct {
	Name  string
	Value string
}

// FilePart is a multipart file attachment sent with an explicit content
// type (multipart.Writer.CreateFormFile would force octet-stream).
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// MultipartBody encodes fields followed by file into a multipart/form-data
// body and returns it with the matching Content-Type header value.
// The body is returned as bytes so the request can be replayed.
func MultipartBody(fields []Field, file *FilePart) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.FileName))
		h.Set("Content-Type", file.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
