package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

const defaultFileContentType = "application/octet-stream"

// MultipartBody is a multipart/form-data request body. Set it as
// Request.Body and the adapter encodes it and sets the Content-Type header.
type MultipartBody struct {
	// Fields are plain form fields, written in key order. Empty values are
	// skipped.
	Fields map[string]string
	Files  []FileField
}

// FileField is one uploaded file.
type FileField struct {
	// FieldName is the form field the server reads, e.g. "audio".
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Reader supplies the content. Data is used when Reader is nil.
	Reader io.Reader
	Data   []byte
	// Size, when known, pre-sizes the encode buffer.
	Size int64
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// encode buffers the whole body so the request carries a Content-Length;
// upload servers commonly reject chunked multipart bodies.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	buf.Grow(int(m.sizeHint()))
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k, v := range m.Fields {
		if v != "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("field %q: %w", k, err)
		}
	}

	for _, f := range m.Files {
		if err := writeFile(w, f); err != nil {
			return nil, "", fmt.Errorf("file %q: %w", f.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (m *MultipartBody) sizeHint() int64 {
	var n int64
	for _, f := range m.Files {
		if f.Size > 0 {
			n += f.Size
		} else {
			n += int64(len(f.Data))
		}
	}
	return n + 1024
}

func writeFile(w *multipart.Writer, f FileField) error {
	contentType := f.ContentType
	if contentType == "" {
		contentType = defaultFileContentType
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.FileName)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}

	switch {
	case f.Reader != nil:
		_, err = io.Copy(part, f.Reader)
	case f.Data != nil:
		_, err = part.Write(f.Data)
	}
	return err
}
