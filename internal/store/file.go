package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/state"
)

const (
	stateFile      = "state.json"
	credentialFile = "credential"
)

// FileStore keeps each record in its own file under a data directory.
// Writes go through a temp file and a rename, so readers never see a
// partial record.
type FileStore struct {
	notifier

	dir string

	mu          sync.Mutex
	lastCred    string // credential as last written or observed
	lastPresent bool
	watcher     *fsnotify.Watcher
	stopped     chan struct{}
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s := &FileStore{dir: dir}
	s.lastCred, s.lastPresent = s.Credential()
	return s, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Load reads state.json.
func (s *FileStore) Load() (*state.WizardState, bool) {
	path := filepath.Join(s.dir, stateFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		logger.Warn("Failed to read wizard state file: %v", err)
		return nil, false
	}

	ws, err := state.Decode(data)
	if err != nil {
		logger.Warn("Discarding unreadable wizard state %s: %v", path, err)
		return nil, false
	}
	return ws, true
}

// Save writes state.json.
func (s *FileStore) Save(ws *state.WizardState) error {
	data, err := state.Encode(ws)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(s.dir, stateFile), data, 0600); err != nil {
		return fmt.Errorf("writing wizard state: %w", err)
	}
	logger.Debug("Wizard state saved to %s (step %d)", s.dir, ws.Step)
	s.notify(Change{Key: KeyState})
	return nil
}

// Credential reads the API key file.
func (s *FileStore) Credential() (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, credentialFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to read credential file: %v", err)
		}
		return "", false
	}
	key := strings.TrimSpace(string(data))
	return key, key != ""
}

// SetCredential writes the API key file with owner-only permissions.
func (s *FileStore) SetCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyCredential
	}
	if err := writeFileAtomic(filepath.Join(s.dir, credentialFile), []byte(key), 0600); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	s.observeCredential(key, true)
	return nil
}

// ClearCredential removes the API key file.
func (s *FileStore) ClearCredential() error {
	err := os.Remove(filepath.Join(s.dir, credentialFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credential: %w", err)
	}
	s.observeCredential("", false)
	return nil
}

// observeCredential records the current credential and notifies
// subscribers if it differs from what was last seen.
func (s *FileStore) observeCredential(key string, present bool) {
	s.mu.Lock()
	changed := key != s.lastCred || present != s.lastPresent
	s.lastCred, s.lastPresent = key, present
	s.mu.Unlock()

	if changed {
		s.notify(Change{Key: KeyCredential, Present: present})
	}
}

// Watch starts watching the data directory so that credential edits made
// by other processes reach subscribers. It returns once the watch is set up.
func (s *FileStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	s.mu.Lock()
	s.watcher = w
	s.stopped = make(chan struct{})
	stopped := s.stopped
	s.mu.Unlock()

	go s.eventLoop(ctx, w, stopped)
	logger.Debug("Watching %s for credential changes", s.dir)
	return nil
}

func (s *FileStore) eventLoop(ctx context.Context, w *fsnotify.Watcher, stopped chan struct{}) {
	defer close(stopped)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != credentialFile {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			key, present := s.Credential()
			s.observeCredential(key, present)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("Store watcher error: %v", err)
		}
	}
}

// Close stops the watcher, if any.
func (s *FileStore) Close() error {
	s.mu.Lock()
	w, stopped := s.watcher, s.stopped
	s.watcher = nil
	s.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-stopped
	return err
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ Store = (*FileStore)(nil)
