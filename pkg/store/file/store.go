// Package file provides a file-based implementation of the offer store.
// Offers are stored as a single JSON document in an XDG-compliant data
// directory, with debounced atomic writes.
package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/offerdesk/offerd/pkg/offer"
	"github.com/offerdesk/offerd/pkg/store"
)

// Current data format version for migration support.
const dataVersion = 1

// dataFileName is the JSON document holding all offers.
const dataFileName = "offers.json"

// Store implements store.OfferStore using a JSON file.
type Store struct {
	cfg          store.Config
	mu           sync.RWMutex
	data         *storeData
	dirty        atomic.Bool
	saving       atomic.Bool
	saveDebounce time.Duration
	saveCh       chan struct{}
	closeCh      chan struct{}
	closeOnce    sync.Once
	closedCh     chan struct{} // signals when saveLoop has exited
	log          *slog.Logger
}

// storeData holds all persisted data.
type storeData struct {
	Version int            `json:"version"`
	Offers  []*offer.Offer `json:"offers,omitempty"`
}

// New creates a new Store with the given configuration.
func New(cfg store.Config) *Store {
	if cfg.DataDir == "" {
		cfg.DataDir = store.DefaultDataDir()
	}
	s := &Store{
		cfg:          cfg,
		data:         &storeData{Version: dataVersion},
		saveDebounce: 500 * time.Millisecond,
		saveCh:       make(chan struct{}, 1),
		closeCh:      make(chan struct{}),
		closedCh:     make(chan struct{}),
		log:          slog.Default(),
	}
	go s.saveLoop()
	return s
}

// NewWithDefaults creates a new Store with default configuration.
func NewWithDefaults() *Store {
	return New(store.DefaultConfig())
}

// SetLogger sets the operational logger for the store.
func (s *Store) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// saveLoop handles debounced saving to prevent excessive disk writes.
func (s *Store) saveLoop() {
	defer close(s.closedCh)
	var timer *time.Timer
	for {
		select {
		case <-s.saveCh:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.saveDebounce, func() {
				if s.dirty.Load() && !s.saving.Load() {
					if err := s.doSave(); err != nil {
						s.log.Error("failed to save offer data", "error", err)
					}
				}
			})
		case <-s.closeCh:
			if timer != nil {
				timer.Stop()
			}
			// Final save on close
			if s.dirty.Load() {
				if err := s.doSave(); err != nil {
					s.log.Error("failed to save offer data on close", "error", err)
				}
			}
			return
		}
	}
}

// Open initializes the store and loads data from disk.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.cfg.DataDir, 0700); err != nil {
		return err
	}

	dataFile := filepath.Join(s.cfg.DataDir, dataFileName)
	data, err := os.ReadFile(dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			// No data file yet, start fresh
			s.data = &storeData{Version: dataVersion}
			return nil
		}
		return err
	}

	var stored storeData
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}

	s.data = &stored
	s.dirty.Store(false)
	return nil
}

// Close saves any pending changes and closes the store. Safe to call
// multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	<-s.closedCh
	return nil
}

// doSave performs the actual save operation with atomic write.
func (s *Store) doSave() error {
	if !s.saving.CompareAndSwap(false, true) {
		return nil // Already saving
	}
	defer s.saving.Store(false)

	s.mu.RLock()
	if s.cfg.ReadOnly {
		s.mu.RUnlock()
		return store.ErrReadOnly
	}
	s.data.Version = dataVersion
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()

	if err != nil {
		return err
	}

	// Atomic write: write to temp file, then rename
	dataFile := filepath.Join(s.cfg.DataDir, dataFileName)
	tmpFile := dataFile + ".tmp"

	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, dataFile); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}

	s.dirty.Store(false)
	return nil
}

// markDirty marks data as needing to be saved. Callers must hold s.mu.
func (s *Store) markDirty() {
	s.dirty.Store(true)
	select {
	case s.saveCh <- struct{}{}:
	default:
		// Save already pending
	}
}

// ForceSave immediately saves data to disk.
func (s *Store) ForceSave() error {
	s.dirty.Store(true)
	return s.doSave()
}

// DataDir returns the data directory path.
func (s *Store) DataDir() string {
	return s.cfg.DataDir
}
