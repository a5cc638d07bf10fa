package assets

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/starford/scistudy/internal/testutil"
)

func TestNewPrecachesManifest(t *testing.T) {
	c, err := New(testutil.Logger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Len() != len(Manifest) {
		t.Fatalf("Len = %d, want %d", c.Len(), len(Manifest))
	}
}

func TestServeRootAsIndex(t *testing.T) {
	c, err := New(testutil.Logger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "/app.js") {
		t.Error("index does not load the client script")
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
}

func TestServeNotModified(t *testing.T) {
	c, err := New(testutil.Logger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first := httptest.NewRecorder()
	c.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	etag := first.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", rec.Code)
	}
}

func TestCacheServesFromMemory(t *testing.T) {
	files := fstest.MapFS{
		"index.html": {Data: []byte("<p>v1</p>")},
	}
	c, err := NewCache(files, []string{"/", "/index.html"}, testutil.Logger())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	files["index.html"] = &fstest.MapFile{Data: []byte("<p>v2</p>")}

	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Body.String(); got != "<p>v1</p>" {
		t.Errorf("body = %q, want cached v1", got)
	}
}

func TestCacheFallsBackToFiles(t *testing.T) {
	files := fstest.MapFS{
		"index.html": {Data: []byte("<p>home</p>")},
		"extra.txt":  {Data: []byte("extra")},
	}
	c, err := NewCache(files, []string{"/"}, testutil.Logger())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/extra.txt", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "extra" {
		t.Errorf("fallback = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
}

func TestNewCacheMissingManifestFile(t *testing.T) {
	if _, err := NewCache(fstest.MapFS{}, []string{"/app.js"}, testutil.Logger()); err == nil {
		t.Fatal("expected error for missing manifest file")
	}
}

func TestServeRejectsWrites(t *testing.T) {
	c, err := New(testutil.Logger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestNewLogsPrecache(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	if _, err := New(logger); err != nil {
		t.Fatalf("New: %v", err)
	}

	var rec struct {
		Msg   string `json:"msg"`
		Cache string `json:"cache"`
		Files int    `json:"files"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log record: %v (%s)", err, buf.String())
	}
	if rec.Msg != "assets: precached" || rec.Cache != CacheName || rec.Files != len(Manifest) {
		t.Errorf("log record = %+v", rec)
	}
}
