package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
	lockRetryDelay  = 25 * time.Millisecond
)

// Loader reads the full event collection.
type Loader interface {
	Load(ctx context.Context) ([]Event, error)
}

// Store owns the persisted event collection. Update is the single
// read-modify-write path; fn returns the new collection and whether anything
// changed, and nothing is written when it reports no change or an error.
type Store interface {
	Loader
	Save(ctx context.Context, events []Event) error
	Update(ctx context.Context, fn func([]Event) ([]Event, bool, error)) error
}

// FileStore keeps events in one pretty-printed JSON array. A missing file
// reads as an empty collection. Writes go to a temp file that is renamed
// into place, and an advisory lock file serializes writers across
// processes.
type FileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileStore returns a store backed by path. The file and its directory are
// created lazily on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the location of the JSON document.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns every stored event in file order.
func (s *FileStore) Load(ctx context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.read()
}

// Save replaces the stored collection with events.
func (s *FileStore) Save(ctx context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	return s.write(events)
}

// Update loads the collection, applies fn and writes the result back while
// holding the write lock for the whole cycle.
func (s *FileStore) Update(ctx context.Context, fn func([]Event) ([]Event, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.read()
	if err != nil {
		return err
	}

	updated, changed, err := fn(current)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.write(updated)
}

func (s *FileStore) acquire(ctx context.Context, exclusive bool) (func(), error) {
	dir := filepath.Dir(s.path)
	if exclusive {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("%w: create directories: %w", ErrPersistFailure, err)
		}
	} else if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		// Nothing has been written yet, so there is nothing to guard.
		return func() {}, nil
	}

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %w", ErrStoreUnavailable, s.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: lock %s not acquired", ErrStoreUnavailable, s.lock.Path())
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			slog.Warn("release event store lock", "path", s.lock.Path(), "err", err)
		}
	}, nil
}

func (s *FileStore) read() ([]Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("event store missing, treating as empty", "path", s.path)
			return []Event{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Event{}, nil
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStoreCorrupted, s.path, err)
	}
	if events == nil {
		events = []Event{}
	}
	slog.Debug("event store loaded", "path", s.path, "count", len(events))
	return events, nil
}

func (s *FileStore) write(events []Event) error {
	if events == nil {
		events = []Event{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistFailure, err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailure, err)
	}
	slog.Debug("event store saved", "path", s.path, "count", len(events))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return err
	}

	temp, err := os.CreateTemp(dir, ".events-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}
