package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"sync"

	"github.com/go-resty/resty/v2"
)

// FormFile is one file part of a multipart upload.
type FormFile struct {
	Field  string
	Name   string
	Reader io.Reader
}

// FormData is a multipart form: plain fields plus file parts.
type FormData struct {
	Fields map[string]string
	Files  []FormFile
}

// Progress reports how many body bytes have been handed to the transport.
type Progress struct {
	Loaded int64
	Total  int64
}

// ProgressFunc receives upload progress. It may be called from the transport's
// writer goroutine.
type ProgressFunc func(Progress)

// Upload posts form as multipart/form-data. onProgress, when set, is invoked
// as the encoded body is streamed to the server.
func (c *Client) Upload(ctx context.Context, endpoint string, form FormData, onProgress ProgressFunc) Result[json.RawMessage] {
	body, contentType, err := form.encode()
	if err != nil {
		return c.report(http.MethodPost, endpoint, requestFailure(err))
	}

	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader = body
	if onProgress != nil {
		reader = &progressReader{r: body, total: body.Size(), fn: onProgress}
		ctx = context.WithValue(ctx, streamLengthKey{}, body.Size())
	}

	return c.do(ctx, http.MethodPost, endpoint, reader, []RequestOption{
		WithHeader(headerContentType, contentType),
	})
}

func (f FormData) encode() (*bytes.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write form field %q: %w", k, err)
		}
	}

	for _, file := range f.Files {
		if file.Reader == nil {
			return nil, "", fmt.Errorf("form file %q has no content", file.Field)
		}
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %q: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return nil, "", fmt.Errorf("copy form file %q: %w", file.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return bytes.NewReader(buf.Bytes()), w.FormDataContentType(), nil
}

type progressReader struct {
	r     io.Reader
	total int64
	fn    ProgressFunc

	mu     sync.Mutex
	loaded int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.loaded += int64(n)
		evt := Progress{Loaded: p.loaded, Total: p.total}
		p.mu.Unlock()
		p.fn(evt)
	}
	return n, err
}

type streamLengthKey struct{}

// applyStreamLength restores Content-Length on wrapped upload bodies, which
// net/http would otherwise send chunked.
func applyStreamLength(_ *resty.Client, r *http.Request) error {
	if n, ok := r.Context().Value(streamLengthKey{}).(int64); ok && n > 0 {
		r.ContentLength = n
	}
	return nil
}
