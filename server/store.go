package server

import (
	"context"
	"sync"
	"time"

	"github.com/rustyeddy/indexchart/market"
	"github.com/sirupsen/logrus"
)

// Loader produces a fully parsed dataset, e.g. from the CSV file or the
// SQLite price store.
type Loader func(ctx context.Context) (*market.Dataset, error)

// CSVLoader reads path on every call.
func CSVLoader(path string, log logrus.FieldLogger) Loader {
	return func(ctx context.Context) (*market.Dataset, error) {
		return market.LoadCSV(path, log)
	}
}

// Store holds the dataset the handler serves. Reload swaps the whole
// pointer, so readers always see either the old or the new dataset.
type Store struct {
	load Loader

	// serializes loads so an older load never lands after a newer one
	reloadMu sync.Mutex

	mu      sync.RWMutex
	ds      *market.Dataset
	err     error
	version uint64
	loaded  time.Time
}

func NewStore(load Loader) *Store {
	return &Store{load: load}
}

// Reload runs the loader. On failure a previously loaded dataset is kept
// and keeps being served; the error is returned either way. Concurrent
// calls run one at a time.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ds, err := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.ds == nil {
			s.err = err
		}
		return err
	}
	s.set(ds)
	return nil
}

// Set replaces the dataset directly.
func (s *Store) Set(ds *market.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(ds)
}

func (s *Store) set(ds *market.Dataset) {
	s.ds = ds
	s.err = nil
	s.version++
	s.loaded = time.Now().UTC()
}

// Dataset returns the current dataset, or the load error when nothing has
// been loaded successfully yet.
func (s *Store) Dataset() (*market.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		if s.err != nil {
			return nil, s.err
		}
		return nil, market.ErrNoData
	}
	return s.ds, nil
}

// Version changes every time a new dataset is installed. Cached responses
// are keyed on it.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// LoadedAt is when the current dataset was installed.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
