package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportobello/rpb/pkg/types"
)

const testAPIKey = "rpb_test_key"

// fakeTemplateStore is an in-memory stand-in for the template endpoints,
// assigning incrementing versions and listing newest first like the real
// service.
type fakeTemplateStore struct {
	mu        sync.Mutex
	templates map[string][]types.Template
}

func newFakeServer(t *testing.T) (*httptest.Server, *fakeTemplateStore) {
	t.Helper()
	store := &fakeTemplateStore{templates: make(map[string][]types.Template)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/template/{name}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "invalid API key", http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "application/x-typst", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		store.mu.Lock()
		name := r.PathValue("name")
		versions := store.templates[name]
		next := types.Template{Name: name, Content: string(body), Version: len(versions) + 1}
		store.templates[name] = append([]types.Template{next}, versions...)
		store.mu.Unlock()

		writeTemplateJSON(w, next)
	})
	mux.HandleFunc("GET /api/v1/template/{name}", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			http.Error(w, "invalid API key", http.StatusUnauthorized)
			return
		}
		store.mu.Lock()
		versions, ok := store.templates[r.PathValue("name")]
		store.mu.Unlock()
		if !ok {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		writeTemplateListJSON(w, versions)
	})
	mux.HandleFunc("GET /api/v1/templates", func(w http.ResponseWriter, r *http.Request) {
		store.mu.Lock()
		var latest []types.Template
		for _, versions := range store.templates {
			latest = append(latest, versions[0])
		}
		store.mu.Unlock()
		writeTemplateListJSON(w, latest)
	})
	mux.HandleFunc("DELETE /api/v1/template/{name}", func(w http.ResponseWriter, r *http.Request) {
		store.mu.Lock()
		defer store.mu.Unlock()
		name := r.PathValue("name")
		if _, ok := store.templates[name]; !ok {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		delete(store.templates, name)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+testAPIKey
}

func writeTemplateJSON(w http.ResponseWriter, t types.Template) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"name": t.Name, "template": t.Content, "version": t.Version,
	})
}

func writeTemplateListJSON(w http.ResponseWriter, templates []types.Template) {
	rows := make([]map[string]any, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, map[string]any{
			"name": t.Name, "template": t.Content, "version": t.Version,
		})
	}
	_ = json.NewEncoder(w).Encode(rows)
}

func TestCreateOrUpdateTemplateAssignsVersions(t *testing.T) {
	server, _ := newFakeServer(t)
	c := NewClient(server.URL, testAPIKey)
	ctx := context.Background()

	first := types.Template{Name: "invoice", Content: "Hello"}
	uploaded, err := c.CreateOrUpdateTemplate(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, uploaded.Version)

	second := types.Template{Name: "invoice", Content: "Hello v2"}
	uploaded, err = c.CreateOrUpdateTemplate(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, uploaded.Version)

	versions, err := c.GetTemplateVersions(ctx, "invoice")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "Hello v2", versions[0].Content)
	assert.Equal(t, "Hello", versions[1].Content)

	// Newest first: versions strictly decrease down the list.
	for i := 0; i+1 < len(versions); i++ {
		assert.Greater(t, versions[i].Version, versions[i+1].Version)
	}
}

func TestCreateOrUpdateTemplateRejectsInvalid(t *testing.T) {
	server, _ := newFakeServer(t)
	c := NewClient(server.URL, testAPIKey)

	_, err := c.CreateOrUpdateTemplate(context.Background(), types.Template{Content: "x"})
	assert.ErrorIs(t, err, types.ErrMissingTemplateName)

	_, err = c.CreateOrUpdateTemplate(context.Background(), types.Template{Name: "a"})
	assert.ErrorIs(t, err, types.ErrTemplateSourceConflict)
}

func TestGetTemplateVersionsNotFound(t *testing.T) {
	server, _ := newFakeServer(t)
	c := NewClient(server.URL, testAPIKey)

	_, err := c.GetTemplateVersions(context.Background(), "missing")
	var notFound *types.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
}

func TestDeleteTemplate(t *testing.T) {
	server, _ := newFakeServer(t)
	c := NewClient(server.URL, testAPIKey)
	ctx := context.Background()

	_, err := c.CreateOrUpdateTemplate(ctx, types.Template{Name: "invoice", Content: "x"})
	require.NoError(t, err)
	require.NoError(t, c.DeleteTemplate(ctx, "invoice"))

	var notFound *types.TemplateNotFoundError
	assert.ErrorAs(t, c.DeleteTemplate(ctx, "invoice"), &notFound)
}

func TestUnauthorized(t *testing.T) {
	server, _ := newFakeServer(t)
	c := NewClient(server.URL, "wrong-key")

	_, err := c.GetTemplateVersions(context.Background(), "invoice")
	var unauthorized *types.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Contains(t, unauthorized.Message, "invalid API key")
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	c := NewClient(server.URL, testAPIKey)

	_, err := c.GetTemplates(context.Background())
	var serverErr *types.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "Internal Server Error", serverErr.Reason)
}

func TestEnvVars(t *testing.T) {
	var (
		mu      sync.Mutex
		stored  = map[string]string{"A": "1"}
		deletes []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/env", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewEncoder(w).Encode(stored)
	})
	mux.HandleFunc("POST /api/v1/env", func(w http.ResponseWriter, r *http.Request) {
		var vars map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&vars))
		mu.Lock()
		defer mu.Unlock()
		for k, v := range vars {
			stored[k] = v
		}
	})
	mux.HandleFunc("DELETE /api/v1/env", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		deletes = append(deletes, r.URL.RawQuery)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(server.URL, testAPIKey)
	ctx := context.Background()

	vars, err := c.GetEnvVars(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, vars)

	require.NoError(t, c.UpdateEnvVars(ctx, map[string]string{"B": "2"}))
	vars, err = c.GetEnvVars(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", vars["B"])

	// Deleting several keys issues exactly one request with comma-joined keys.
	require.NoError(t, c.DeleteEnvVars(ctx, []string{"A", "B"}))
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, deletes, 1)
	assert.Equal(t, "keys=A,B", deletes[0])
}

func TestBuildTemplateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "error: unexpected token at line 3", http.StatusBadRequest)
	}))
	defer server.Close()
	c := NewClient(server.URL, testAPIKey)

	_, err := c.BuildTemplate(context.Background(), "invoice", map[string]any{})
	var failure *types.BuildFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "error: unexpected token at line 3\n", failure.Message)
}

func TestBuildTemplateNotFoundHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template not found", http.StatusNotFound)
	}))
	defer server.Close()
	c := NewClient(server.URL, testAPIKey)

	_, err := c.BuildTemplate(context.Background(), "missing.typ", nil)
	var notFound *types.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Hint, `"missing"`)

	_, err = c.BuildTemplate(context.Background(), "missing", nil)
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, notFound.Hint)
}

func TestBuildTemplateLazyPdf(t *testing.T) {
	pdfBytes := []byte("%PDF-1.7 fake")
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/template/{name}/build", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "justUrl", r.URL.RawQuery)

		var req struct {
			Data        any    `json:"data"`
			ContentType string `json:"content_type"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "application/json", req.ContentType)

		_, _ = w.Write([]byte("/api/v1/files/out.pdf"))
	})
	mux.HandleFunc("GET /api/v1/files/out.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pdfBytes)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(server.URL, testAPIKey)
	ctx := context.Background()

	pdf, err := c.BuildTemplate(ctx, "invoice", map[string]any{"total": 42})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/out.pdf", pdf.URL)

	// Bytes are fetched on demand, not cached at build time.
	blob, err := pdf.AsBlob(ctx)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, blob)

	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, pdf.SaveTo(ctx, path))
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, written)
}

func TestGetRecentBuilds(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{
			"filename": "invoice.pdf",
			"requested_version": -1,
			"actual_version": 2,
			"template_name": "invoice",
			"started_at": "2024-06-01T10:00:00Z",
			"finished_at": "2024-06-01T10:00:02Z",
			"error_message": null
		}]`))
	}))
	defer server.Close()
	c := NewClient(server.URL, testAPIKey)

	before := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	reports, err := c.GetRecentBuilds(context.Background(), "invoice", &before)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].WasSuccessful())
	assert.Contains(t, gotQuery, "before=2024-07-01T00%3A00%3A00Z")
}

func TestUploadDataFiles(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "file exceeds limit", http.StatusRequestEntityTooLarge)
	}))
	defer server.Close()
	c := NewClient(server.URL, testAPIKey)
	ctx := context.Background()

	// No files given: no request at all.
	require.NoError(t, c.UploadDataFiles(ctx, "invoice"))
	assert.Zero(t, requests)

	file := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(file, []byte("png"), 0o644))

	err := c.UploadDataFiles(ctx, "invoice", file)
	var tooBig *types.FileTooBigError
	require.ErrorAs(t, err, &tooBig)
	assert.Equal(t, 1, requests)
}
