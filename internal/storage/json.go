package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/scistudy/internal/apperr"
)

// LoadJSON decodes the value stored under key into a T. A missing key, a read
// failure or corrupt JSON all yield def; only the latter two are logged.
func LoadJSON[T any](p Provider, key string, def T, logger *slog.Logger) T {
	data, err := p.Get(key)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Warn("storage: read failed, using default",
				slog.String("key", key), slog.String("error", err.Error()))
		}
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("storage: corrupt value, using default",
			slog.String("key", key), slog.String("error", err.Error()))
		return def
	}
	return v
}

// SaveJSON encodes v and stores it under key. Failures wrap apperr.ErrStorage.
func SaveJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", apperr.ErrStorage, key, err)
	}
	if err := p.Put(key, data); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return nil
}
