package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/catalog/internal/models"
)

// fakeDrive serves files.list and files.get?alt=media from an in-memory folder.
type fakeDrive struct {
	files   map[string]string // id -> content
	names   map[string]string // name -> id
	lastQ   string
	failAll bool
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if f.failAll {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
		return
	}

	if r.URL.Path == "/files" {
		f.lastQ = r.URL.Query().Get("q")
		files := []map[string]string{}
		for name, id := range f.names {
			if f.lastQ == "'folder-1' in parents and name = '"+name+"' and trashed = false" {
				files = append(files, map[string]string{"id": id, "name": name})
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"files": files})
		return
	}

	id := r.URL.Path[len("/files/"):]
	content, ok := f.files[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
		return
	}
	if r.URL.Query().Get("alt") != "media" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(content))
}

func newTestClient(t *testing.T, fake *fakeDrive) *Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), WithEndpoint(server.URL+"/"))
	require.NoError(t, err)
	return client
}

func TestFindAndOpenDocument(t *testing.T) {
	fake := &fakeDrive{
		files: map[string]string{"doc-9": "<h1>퓨어</h1>"},
		names: map[string]string{"WP-1_detail.html": "doc-9"},
	}
	client := newTestClient(t, fake)

	id, err := client.FindDocument(context.Background(), "folder-1", "WP-1_detail.html")
	require.NoError(t, err)
	assert.Equal(t, "doc-9", id)

	body, err := client.OpenDocument(context.Background(), id)
	require.NoError(t, err)
	defer body.Close()
	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "<h1>퓨어</h1>", string(content))
}

func TestFindDocument_NotFound(t *testing.T) {
	client := newTestClient(t, &fakeDrive{names: map[string]string{}})

	_, err := client.FindDocument(context.Background(), "folder-1", "NOPE_detail.html")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDocumentNotFound))
}

func TestFindDocument_EscapesQuery(t *testing.T) {
	fake := &fakeDrive{names: map[string]string{}}
	client := newTestClient(t, fake)

	_, _ = client.FindDocument(context.Background(), "folder-1", `it's_detail.html`)
	assert.Equal(t, `'folder-1' in parents and name = 'it\'s_detail.html' and trashed = false`, fake.lastQ)
}

func TestOpenDocument_Missing(t *testing.T) {
	client := newTestClient(t, &fakeDrive{files: map[string]string{}})

	_, err := client.OpenDocument(context.Background(), "gone")
	assert.True(t, errors.Is(err, models.ErrDocumentNotFound))
}

func TestUpstreamFailure(t *testing.T) {
	client := newTestClient(t, &fakeDrive{failAll: true})

	_, err := client.FindDocument(context.Background(), "folder-1", "WP-1_detail.html")
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))

	_, err = client.OpenDocument(context.Background(), "doc-9")
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `a\'b`, escapeQuery(`a'b`))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}
