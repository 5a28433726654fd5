package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/reportobello/rpb/pkg/types"
)

const contentTypeTypst = "application/x-typst"

// CreateOrUpdateTemplate uploads the template body and returns the stored
// template with its server-assigned version.
func (c *Client) CreateOrUpdateTemplate(ctx context.Context, template types.Template) (types.Template, error) {
	if err := template.Validate(); err != nil {
		return types.Template{}, err
	}
	source, err := template.Source()
	if err != nil {
		return types.Template{}, err
	}

	path := "/api/v1/template/" + url.PathEscape(template.Name)
	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader([]byte(source)), contentTypeTypst)
	if err != nil {
		return types.Template{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Template{}, fmt.Errorf("read response: %w", err)
	}
	return types.DecodeTemplate(data)
}

// GetTemplates lists the latest version of every template owned by the account.
func (c *Client) GetTemplates(ctx context.Context) ([]types.Template, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/templates", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return types.DecodeTemplates(data)
}

// GetTemplateVersions lists every version of one template, newest first
// (index 0 is the latest).
func (c *Client) GetTemplateVersions(ctx context.Context, name string) ([]types.Template, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/template/"+url.PathEscape(name), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &types.TemplateNotFoundError{Name: name, Message: readBody(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return types.DecodeTemplates(data)
}

// DeleteTemplate removes every version of a template.
func (c *Client) DeleteTemplate(ctx context.Context, name string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/v1/template/"+url.PathEscape(name), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &types.TemplateNotFoundError{Name: name, Message: readBody(resp)}
	}
	return nil
}

// UploadDataFiles attaches auxiliary files (images, fonts, data) to a
// template. Calling it with no files is a no-op.
func (c *Client) UploadDataFiles(ctx context.Context, name string, files ...string) error {
	if len(files) == 0 {
		return nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, file := range files {
		part, err := writer.CreateFormFile(filepath.Base(file), filepath.Base(file))
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open %s: %w", file, err)
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	path := "/api/v1/template/" + url.PathEscape(name) + "/files"
	resp, err := c.doRequest(ctx, http.MethodPost, path, &body, writer.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("upload data files: %s", readBody(resp))
	case http.StatusNotFound:
		return &types.TemplateNotFoundError{Name: name, Message: readBody(resp)}
	case http.StatusRequestEntityTooLarge:
		return &types.FileTooBigError{Message: readBody(resp)}
	}
	return nil
}

// GetRecentBuilds returns the build history for a template, optionally
// limited to builds started before a timestamp.
func (c *Client) GetRecentBuilds(ctx context.Context, name string, before *time.Time) ([]types.Report, error) {
	path := "/api/v1/template/" + url.PathEscape(name) + "/recent"
	if before != nil {
		path += "?before=" + url.QueryEscape(before.Format(time.RFC3339))
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &types.TemplateNotFoundError{Name: name, Message: readBody(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return types.DecodeReports(data)
}
