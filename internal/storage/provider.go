// Package storage defines the key-value persistence used by every study
// component. Each component owns its keys and writes the whole value on
// every mutation; concurrent writers are last-writer-wins.
package storage

import (
	"fmt"
	"regexp"
)

// Persisted keys. Each key is owned by exactly one component.
const (
	KeyFavorites        = "favorites"
	KeyRecentSearches   = "recentSearches"
	KeyStudyStats       = "studyStats"
	KeyStudyNotes       = "studyNotes"
	KeyStudyGoals       = "studyGoals"
	KeyPomodoroStats    = "pomodoroStats"
	KeyPomodoroSettings = "pomodoroSettings"
)

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

var keyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Provider is the interface for key-value persistence.
type Provider interface {
	// Get returns the raw value for key, or apperr.ErrNotFound.
	Get(key string) ([]byte, error)
	// Put replaces the value for key.
	Put(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys lists every stored key.
	Keys() ([]string, error)
	// Close releases underlying resources.
	Close() error
}

// Open creates the provider selected by driver. For the file driver path is
// a directory (created if missing); for sqlite it is the database file.
func Open(driver, path string) (Provider, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverFile:
		return NewFS(path)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}

func validKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
