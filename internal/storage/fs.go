package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/starford/scistudy/internal/apperr"
)

const (
	fileExt       = ".json"
	tmpFilePrefix = ".scistudy-tmp-"
)

// FS implements Provider with one JSON file per key.
type FS struct {
	root string // absolute path to the data directory

	mu      sync.Mutex
	written map[string]string // key → checksum of our last write
}

// NewFS creates a file provider rooted at dir, creating it if needed.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs, written: make(map[string]string)}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string { return f.root }

func (f *FS) path(key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.root, key+fileExt), nil
}

// Get reads the value stored under key.
func (f *FS) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Put atomically writes value: tmp file → fsync → rename.
func (f *FS) Put(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, tmpFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}

	// Record before the rename so the watcher never sees our own write as foreign.
	f.remember(key, checksum(value))
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the file for key.
func (f *FS) Delete(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	f.forget(key)
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys with a stored file.
func (f *FS) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		if key, ok := keyFromName(e.Name()); ok && !e.IsDir() {
			out = append(out, key)
		}
	}
	return out, nil
}

// Close is a no-op for the file provider.
func (f *FS) Close() error { return nil }

func (f *FS) remember(key, sum string) {
	f.mu.Lock()
	f.written[key] = sum
	f.mu.Unlock()
}

func (f *FS) forget(key string) {
	f.mu.Lock()
	delete(f.written, key)
	f.mu.Unlock()
}

// ownWrite reports whether data is exactly what this provider last wrote for key.
func (f *FS) ownWrite(key string, data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, ok := f.written[key]
	return ok && sum == checksum(data)
}

func keyFromName(name string) (string, bool) {
	if strings.HasPrefix(name, tmpFilePrefix) || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExt)
	if validKey(key) != nil {
		return "", false
	}
	return key, true
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
