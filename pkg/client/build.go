package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/reportobello/rpb/pkg/types"
)

// buildRequest is the remote build payload.
type buildRequest struct {
	Data        any    `json:"data"`
	ContentType string `json:"content_type"`
}

// BuildTemplate triggers a server-side build of a template with the given
// JSON-able data and returns a deferred reference to the generated PDF.
func (c *Client) BuildTemplate(ctx context.Context, name string, data any) (*LazyPdf, error) {
	body, err := json.Marshal(buildRequest{Data: data, ContentType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("marshal build data: %w", err)
	}

	path := "/api/v1/template/" + url.PathEscape(name) + "/build?justUrl"
	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return nil, &types.BuildFailureError{Message: readBody(resp)}
	case http.StatusNotFound:
		notFound := &types.TemplateNotFoundError{Name: name, Message: readBody(resp)}
		// A name that still carries a source-file extension usually means
		// the user passed a filename where a template name was expected.
		if ext := filepath.Ext(name); ext != "" {
			notFound.Hint = fmt.Sprintf("did you mean %q?", strings.TrimSuffix(name, ext))
		}
		return nil, notFound
	case http.StatusOK:
		return &LazyPdf{URL: strings.TrimSpace(readBody(resp)), client: c}, nil
	}

	return nil, fmt.Errorf("build template: unexpected status %d", resp.StatusCode)
}

// LazyPdf is a deferred reference to a server-generated PDF. Bytes are
// fetched on demand through the client that produced the reference; nothing
// is cached between calls.
type LazyPdf struct {
	URL string

	client *Client
}

// AsBlob downloads the PDF and returns its bytes.
func (p *LazyPdf) AsBlob(ctx context.Context) ([]byte, error) {
	resp, err := p.client.doRequest(ctx, http.MethodGet, p.URL, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch PDF: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}
	return data, nil
}

// SaveTo downloads the PDF and writes it to path.
func (p *LazyPdf) SaveTo(ctx context.Context, path string) error {
	data, err := p.AsBlob(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	return nil
}
