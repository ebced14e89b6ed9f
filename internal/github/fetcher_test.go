package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/faegents/openclaw/internal/workspace"
)

// wrap60 splits s into 60-column lines the way GitHub does.
func wrap60(s string) string {
	var b strings.Builder
	for len(s) > 60 {
		b.WriteString(s[:60])
		b.WriteString("\n")
		s = s[60:]
	}
	b.WriteString(s)
	return b.String()
}

// recorder keeps the requests a test server has seen.
type recorder struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
}

func (r *recorder) all() []*http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*http.Request(nil), r.reqs...)
}

func newTestServer(t *testing.T, files map[string]string) (*httptest.Server, *recorder) {
	t.Helper()
	requests := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.add(r)
		path := strings.TrimPrefix(r.URL.Path, "/repos/owner/repo/contents/")
		content, ok := files[path]
		if !ok {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"encoding": "base64",
			"content":  content,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func newTestFetcher(srv *httptest.Server, log *zap.Logger) *Fetcher {
	f := NewFetcher("secret-token", "owner/repo", "dev", log)
	f.BaseURL = srv.URL
	return f
}

func TestGetFile_Decodes(t *testing.T) {
	doc := strings.Repeat("# MEMORY\n- **conductor**: fleet ✓\n", 10)
	srv, requests := newTestServer(t, map[string]string{
		"memory/MEMORY.md": wrap60(base64.StdEncoding.EncodeToString([]byte(doc))),
	})

	text, ok := newTestFetcher(srv, nil).GetFile(context.Background(), "memory/MEMORY.md")
	require.True(t, ok)
	assert.Equal(t, doc, text)

	require.Len(t, requests.all(), 1)
	req := requests.all()[0]
	assert.Equal(t, "token secret-token", req.Header.Get("Authorization"))
	assert.Equal(t, "application/vnd.github.v3+json", req.Header.Get("Accept"))
	assert.Equal(t, "dev", req.URL.Query().Get("ref"))
}

func TestGetFile_EmptyFileIsPresent(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"memory/todo.md": ""})
	text, ok := newTestFetcher(srv, nil).GetFile(context.Background(), "memory/todo.md")
	assert.True(t, ok)
	assert.Empty(t, text)
}

func TestGetFile_Failures(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"bad-base64": "!!!not base64!!!",
		"not-utf8":   base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}),
	})
	f := newTestFetcher(srv, nil)

	for _, path := range []string{"missing.md", "bad-base64", "not-utf8"} {
		text, ok := f.GetFile(context.Background(), path)
		assert.False(t, ok, path)
		assert.Empty(t, text, path)
	}
}

func TestGetFile_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.DebugLevel)
	_, ok := newTestFetcher(srv, zap.New(core)).GetFile(context.Background(), "memory/MEMORY.md")
	assert.False(t, ok)

	entries := logs.FilterMessage("workspace file unavailable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "memory/MEMORY.md", entries[0].ContextMap()["path"])
}

func TestGetFile_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>rate limited</html>"))
	}))
	defer srv.Close()

	_, ok := newTestFetcher(srv, nil).GetFile(context.Background(), "memory/MEMORY.md")
	assert.False(t, ok)
}

func TestGetFile_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, ok := newTestFetcher(srv, nil).GetFile(context.Background(), "memory/MEMORY.md")
	assert.False(t, ok)
}

func TestGetFile_CancelledContext(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"a": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := newTestFetcher(srv, nil).GetFile(ctx, "a")
	assert.False(t, ok)
}

func TestGetFile_NoTokenNoHeader(t *testing.T) {
	srv, requests := newTestServer(t, map[string]string{"a": ""})
	f := newTestFetcher(srv, nil)
	f.Token = ""

	_, ok := f.GetFile(context.Background(), "a")
	require.True(t, ok)
	assert.Empty(t, requests.all()[0].Header.Get("Authorization"))
}

func TestLoad_ThroughFetcher(t *testing.T) {
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	srv, requests := newTestServer(t, map[string]string{
		workspace.PathMemory: enc("memory"),
		workspace.PathTodo:   enc("- [ ] todo"),
	})

	state := workspace.Load(context.Background(), newTestFetcher(srv, nil))

	assert.Len(t, requests.all(), 4)
	assert.Equal(t, "memory", state.MemoryText())
	assert.Equal(t, "- [ ] todo", state.TodoText())
	assert.Nil(t, state.MonitorLogs)
	assert.Nil(t, state.Lessons)
}
