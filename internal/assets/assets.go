// Package assets serves the embedded web client.
//
// Files listed in Manifest are read once at startup and answered from memory.
// Anything else falls through to the embedded file system.
package assets

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

//go:embed static
var static embed.FS

// CacheName versions the precached bundle. Bump it when the client changes.
const CacheName = "scistudy-v1"

// Manifest lists the request paths precached at startup.
var Manifest = []string{
	"/",
	"/index.html",
	"/app.js",
	"/app-icon.svg",
}

type entry struct {
	body        []byte
	contentType string
	etag        string
}

// Cache answers manifest paths from memory and everything else from files.
type Cache struct {
	files    fs.FS
	entries  map[string]entry
	fallback http.Handler
	modTime  time.Time
	logger   *slog.Logger
}

// FS returns the embedded client files rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(fmt.Sprintf("assets: embedded static dir: %v", err))
	}
	return sub
}

// New precaches the default manifest from the embedded client.
func New(logger *slog.Logger) (*Cache, error) {
	return NewCache(FS(), Manifest, logger)
}

// NewCache precaches manifest from files. A manifest entry missing from files
// fails the whole install.
func NewCache(files fs.FS, manifest []string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		files:    files,
		entries:  make(map[string]entry, len(manifest)),
		fallback: http.FileServer(http.FS(files)),
		modTime:  time.Now(),
		logger:   logger,
	}
	for _, p := range manifest {
		name := fileName(p)
		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("assets: precache %s: %w", p, err)
		}
		sum := sha256.Sum256(body)
		c.entries[p] = entry{
			body:        body,
			contentType: contentType(name),
			etag:        `"` + CacheName + "-" + hex.EncodeToString(sum[:8]) + `"`,
		}
	}
	logger.Info("assets: precached", slog.String("cache", CacheName), slog.Int("files", len(c.entries)))
	return c, nil
}

// Len reports how many paths are held in memory.
func (c *Cache) Len() int { return len(c.entries) }

// ServeHTTP implements http.Handler.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	e, ok := c.entries[r.URL.Path]
	if !ok {
		c.logger.Debug("assets: cache miss", slog.String("path", r.URL.Path))
		c.fallback.ServeHTTP(w, r)
		return
	}
	w.Header().Set("Content-Type", e.contentType)
	w.Header().Set("ETag", e.etag)
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "", c.modTime, bytes.NewReader(e.body))
}

func fileName(p string) string {
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" {
		return "index.html"
	}
	return name
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
