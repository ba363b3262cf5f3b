// Package store defines the persistence contract for offers.
//
// Two implementations exist: a JSON file store (pkg/store/file) used by the
// server, and an in-memory store (internal/storage) used by tests and by
// serve --no-persist. Data directories follow the XDG Base Directory
// Specification.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/offerdesk/offerd/pkg/offer"
)

// Common errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrReadOnly      = errors.New("store is read-only")
)

// OfferStore handles offer persistence. Writes are atomic per document;
// concurrent updates to the same id race with last-write-wins.
type OfferStore interface {
	// List returns offers in store-native (insertion) order. A positive
	// limit truncates the result; zero or negative means no limit.
	List(ctx context.Context, limit int) ([]*offer.Offer, error)

	// Get returns a single offer by id.
	Get(ctx context.Context, id string) (*offer.Offer, error)

	// Create persists a new offer, assigning an id if none is set.
	Create(ctx context.Context, o *offer.Offer) error

	// Upsert replaces the offer with a matching id, or inserts the offer
	// under its id when no match exists. Update-or-insert is the documented
	// contract of the update endpoint, not an accident.
	Upsert(ctx context.Context, o *offer.Offer) error

	// Delete removes an offer by id. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every offer.
	DeleteAll(ctx context.Context) error

	// Count returns the number of stored offers.
	Count(ctx context.Context) (int, error)
}

// Config holds store configuration.
type Config struct {
	// DataDir is the base directory for data storage.
	// Defaults to XDG_DATA_HOME/offerd or ~/.local/share/offerd.
	DataDir string `json:"dataDir,omitempty" yaml:"dataDir,omitempty"`

	// ReadOnly prevents any write operations.
	ReadOnly bool `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{DataDir: DefaultDataDir()}
}

// DefaultDataDir returns the default data directory following XDG spec.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "offerd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".offerd", "data")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "offerd")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "offerd")
		}
		return filepath.Join(home, "AppData", "Local", "offerd")
	}
	return filepath.Join(home, ".local", "share", "offerd")
}
