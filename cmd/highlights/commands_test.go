package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highlights/internal/client"
	"highlights/internal/domain"
)

type backend struct {
	requests []string
	search   domain.SearchRequest
	uploaded string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/highlights/upload", func(w http.ResponseWriter, r *http.Request) {
		b.requests = append(b.requests, "upload")
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		b.uploaded = string(data)
		writeJSON(w, domain.UploadResponse{Message: "Successfully uploaded highlights", Count: 2})
	})
	mux.HandleFunc("/highlights/search", func(w http.ResponseWriter, r *http.Request) {
		b.requests = append(b.requests, "search")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&b.search))
		writeJSON(w, []domain.Highlight{{
			Content: "Waste no more time arguing.", BookTitle: "Meditations", BookAuthor: "Marcus Aurelius",
			Tags: []string{"stoicism"}, Score: 0.91,
		}})
	})
	mux.HandleFunc("/highlights", func(w http.ResponseWriter, r *http.Request) {
		b.requests = append(b.requests, "list?"+r.URL.RawQuery)
		writeJSON(w, domain.HighlightsPage{Highlights: []domain.Highlight{{BookTitle: "Letters", BookAuthor: "Seneca"}}, Total: 9, Skip: 4, Limit: 1})
	})
	mux.HandleFunc("/highlights/count", func(w http.ResponseWriter, r *http.Request) {
		b.requests = append(b.requests, "count")
		writeJSON(w, domain.CountResponse{Count: 42})
	})
	mux.HandleFunc("/highlights/clear", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		b.requests = append(b.requests, "clear")
		writeJSON(w, domain.MessageResponse{Message: "All highlights cleared successfully"})
	})
	mux.HandleFunc("/rag/chat", func(w http.ResponseWriter, r *http.Request) {
		b.requests = append(b.requests, "chat")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"detail":"LLM backend unavailable"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func execute(t *testing.T, srv *httptest.Server, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("HIGHLIGHTS_LOG_FILE", filepath.Join(dir, "highlights.log"))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml"), "--api-url", srv.URL}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCountCommand(t *testing.T) {
	b, srv := newBackend(t)
	out, err := execute(t, srv, "", "count")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
	assert.Equal(t, []string{"count"}, b.requests)

	out, err = execute(t, srv, "", "count", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":42}`, out)
}

func TestSearchCommand(t *testing.T) {
	b, srv := newBackend(t)
	out, err := execute(t, srv, "", "search", "time", "--tags", "stoicism, ,", "-n", "3")
	require.NoError(t, err)

	assert.Equal(t, "time", b.search.Prompt)
	assert.Equal(t, []string{"stoicism"}, b.search.Tags)
	require.NotNil(t, b.search.Limit)
	assert.Equal(t, 3, *b.search.Limit)

	assert.Contains(t, out, "Found 1 result(s)")
	assert.Contains(t, out, "Meditations by Marcus Aurelius (0.91)")
	assert.Contains(t, out, "[stoicism]")
	assert.Contains(t, out, "Waste no more time arguing.")
}

func TestSearchCommandOmitsLimitByDefault(t *testing.T) {
	b, srv := newBackend(t)
	_, err := execute(t, srv, "", "search", "time")
	require.NoError(t, err)
	assert.Nil(t, b.search.Limit)
	assert.Nil(t, b.search.Tags)
}

func TestListCommand(t *testing.T) {
	b, srv := newBackend(t)
	out, err := execute(t, srv, "", "list", "--skip", "4", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"list?limit=1&skip=4"}, b.requests)
	assert.Contains(t, out, "Showing 5-5 of 9")
	assert.Contains(t, out, "Letters by Seneca")

	_, err = execute(t, srv, "", "list", "--limit", "0")
	assert.Error(t, err)
}

func TestClearCommandConfirmation(t *testing.T) {
	b, srv := newBackend(t)

	out, err := execute(t, srv, "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.Empty(t, b.requests)

	out, err = execute(t, srv, "y\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All highlights cleared successfully")

	_, err = execute(t, srv, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"clear", "clear"}, b.requests)
}

func TestUploadCommand(t *testing.T) {
	b, srv := newBackend(t)
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("Highlight,Title\nx,y\n"), 0o644))

	out, err := execute(t, srv, "", "upload", path, "--overwrite")
	require.NoError(t, err)
	assert.Equal(t, []string{"clear", "upload"}, b.requests)
	assert.Equal(t, "Highlight,Title\nx,y\n", b.uploaded)
	assert.Contains(t, out, "✓ Successfully uploaded highlights")
	assert.Contains(t, out, "2 highlight(s) stored")
}

func TestUploadCommandRejectsNonCSV(t *testing.T) {
	b, srv := newBackend(t)
	_, err := execute(t, srv, "", "upload", "notes.txt")
	assert.EqualError(t, err, "please select a CSV file")
	assert.Empty(t, b.requests)
}

func TestChatCommandSurfacesDetail(t *testing.T) {
	_, srv := newBackend(t)
	_, err := execute(t, srv, "", "chat", "what is virtue?")
	require.Error(t, err)
	assert.Equal(t, "LLM backend unavailable", client.Detail(err))
}

func TestInvalidAPIURL(t *testing.T) {
	_, srv := newBackend(t)
	_, err := execute(t, srv, "", "count", "--api-url", "not a url")
	assert.ErrorContains(t, err, "invalid --api-url")
}
