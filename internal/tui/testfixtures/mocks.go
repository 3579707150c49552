// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// This file contains MockStore, an in-memory store.Store that records calls
// and can be told to fail. Use it where a test needs to observe saves or
// credential writes without touching the disk.
//
// Example usage:
//
//	func TestMyComponent(t *testing.T) {
//	    st := testfixtures.NewMockStore()
//	    st.Key = "AIza-test"
//	    m := testfixtures.NewMachine(t, st, state.VariantInstructional)
//
//	    // Use m in your test...
//	    // Later verify calls:
//	    require.Equal(t, 1, st.SaveCalls())
//	}
package testfixtures

import (
	"sync"

	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/store"
)

// MockStore is an in-memory store.Store for testing.
type MockStore struct {
	mu sync.Mutex

	// Snapshot returned by Load; nil reports no snapshot.
	Snapshot *state.WizardState
	// Key is the stored credential; empty means none.
	Key string
	// Error to return from Save
	SaveError error

	saveCalls int
	nextSub   int
	subs      map[int]func(store.Change)
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{subs: map[int]func(store.Change){}}
}

// Load returns a copy of the configured snapshot.
func (m *MockStore) Load() (*state.WizardState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot == nil {
		return nil, false
	}
	return m.Snapshot.Clone(), true
}

// Save records the snapshot and returns the configured error.
func (m *MockStore) Save(s *state.WizardState) error {
	m.mu.Lock()
	m.saveCalls++
	if m.SaveError != nil {
		err := m.SaveError
		m.mu.Unlock()
		return err
	}
	m.Snapshot = s.Clone()
	m.mu.Unlock()

	m.notify(store.Change{Key: store.KeyState})
	return nil
}

// Credential returns the stored key.
func (m *MockStore) Credential() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Key, m.Key != ""
}

// SetCredential stores key and notifies subscribers.
func (m *MockStore) SetCredential(key string) error {
	if key == "" {
		return store.ErrEmptyCredential
	}
	m.mu.Lock()
	m.Key = key
	m.mu.Unlock()
	m.notify(store.Change{Key: store.KeyCredential, Present: true})
	return nil
}

// ClearCredential removes the key and notifies subscribers.
func (m *MockStore) ClearCredential() error {
	m.mu.Lock()
	m.Key = ""
	m.mu.Unlock()
	m.notify(store.Change{Key: store.KeyCredential, Present: false})
	return nil
}

// Subscribe registers fn until the returned cancel is called.
func (m *MockStore) Subscribe(fn func(store.Change)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Close is a no-op.
func (m *MockStore) Close() error { return nil }

// SaveCalls returns the number of Save calls (thread-safe).
func (m *MockStore) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

// Subscribers returns the number of active subscriptions.
func (m *MockStore) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func (m *MockStore) notify(c store.Change) {
	m.mu.Lock()
	fns := make([]func(store.Change), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

var _ store.Store = (*MockStore)(nil)
