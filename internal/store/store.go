// Package store persists the wizard snapshot and the API key, and tells
// subscribers when either changes.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/scriptmatch/internal/config"
	"github.com/mark3labs/scriptmatch/internal/state"
)

// Key names one persisted record.
type Key string

const (
	KeyState      Key = "state"
	KeyCredential Key = "credential"
)

// ErrEmptyCredential is returned when setting a blank API key.
var ErrEmptyCredential = errors.New("API key must not be empty")

// Change describes a write to one record. Present is meaningful for
// KeyCredential only.
type Change struct {
	Key     Key
	Present bool
}

// Store holds one wizard snapshot and one credential.
type Store interface {
	// Load returns the saved snapshot. Missing or unreadable snapshots
	// report false and are never an error.
	Load() (*state.WizardState, bool)
	// Save replaces the snapshot with s.
	Save(s *state.WizardState) error
	Credential() (string, bool)
	SetCredential(key string) error
	ClearCredential() error
	// Subscribe registers fn for change notifications until cancel is called.
	Subscribe(fn func(Change)) (cancel func())
	Close() error
}

// Open opens the backend named by cfg.Store.Backend under cfg.DataDir.
// Change notifications stop when ctx is done.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile, "":
		fs, err := NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		if err := fs.Watch(ctx); err != nil {
			_ = fs.Close()
			return nil, err
		}
		return fs, nil
	case config.BackendNATS:
		return OpenKVStore(ctx, cfg.DataDir)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// notifier fans change notifications out to subscribers.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Change)
}

func (n *notifier) Subscribe(fn func(Change)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(Change))
	}
	id := n.next
	n.next++
	n.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) notify(c Change) {
	n.mu.Lock()
	fns := make([]func(Change), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
