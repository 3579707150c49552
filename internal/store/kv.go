package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/nats"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/nats-io/nats.go/jetstream"
)

const kvTimeout = 5 * time.Second

// KVStore keeps both records in a JetStream key-value bucket on an
// embedded NATS server. Notifications come from a bucket watcher, so they
// arrive asynchronously.
type KVStore struct {
	notifier

	srv     *nats.Embedded
	kv      jetstream.KeyValue
	watcher jetstream.KeyWatcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// OpenKVStore starts the embedded server under dataDir/nats and opens the bucket.
func OpenKVStore(ctx context.Context, dataDir string) (*KVStore, error) {
	srv, err := nats.Start(filepath.Join(dataDir, "nats"))
	if err != nil {
		return nil, fmt.Errorf("starting embedded nats: %w", err)
	}

	setupCtx, cancel := context.WithTimeout(ctx, kvTimeout)
	defer cancel()
	kv, err := nats.SetupBucket(setupCtx, srv.JetStream(), nats.Bucket)
	if err != nil {
		_ = srv.Close()
		return nil, fmt.Errorf("opening kv bucket: %w", err)
	}

	watchCtx, stop := context.WithCancel(ctx)
	watcher, err := kv.WatchAll(watchCtx, jetstream.UpdatesOnly())
	if err != nil {
		stop()
		_ = srv.Close()
		return nil, fmt.Errorf("watching kv bucket: %w", err)
	}

	s := &KVStore{
		srv:     srv,
		kv:      kv,
		watcher: watcher,
		cancel:  stop,
		done:    make(chan struct{}),
	}
	go s.watchLoop(watchCtx)
	return s, nil
}

func (s *KVStore) watchLoop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-s.watcher.Updates():
			if !ok {
				return
			}
			if entry == nil {
				continue // end of initial values
			}
			switch Key(entry.Key()) {
			case KeyState:
				s.notify(Change{Key: KeyState})
			case KeyCredential:
				present := entry.Operation() == jetstream.KeyValuePut && len(strings.TrimSpace(string(entry.Value()))) > 0
				s.notify(Change{Key: KeyCredential, Present: present})
			}
		}
	}
}

func (s *KVStore) get(key Key) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), kvTimeout)
	defer cancel()

	entry, err := s.kv.Get(ctx, string(key))
	if err != nil {
		if !errors.Is(err, jetstream.ErrKeyNotFound) {
			logger.Warn("Failed to read %s from kv: %v", key, err)
		}
		return nil, false
	}
	return entry.Value(), true
}

func (s *KVStore) put(key Key, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), kvTimeout)
	defer cancel()
	if _, err := s.kv.Put(ctx, string(key), value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Load reads the state key.
func (s *KVStore) Load() (*state.WizardState, bool) {
	data, ok := s.get(KeyState)
	if !ok {
		return nil, false
	}
	ws, err := state.Decode(data)
	if err != nil {
		logger.Warn("Discarding unreadable wizard state in kv: %v", err)
		return nil, false
	}
	return ws, true
}

// Save puts the state key.
func (s *KVStore) Save(ws *state.WizardState) error {
	data, err := state.Encode(ws)
	if err != nil {
		return err
	}
	return s.put(KeyState, data)
}

// Credential reads the credential key.
func (s *KVStore) Credential() (string, bool) {
	data, ok := s.get(KeyCredential)
	if !ok {
		return "", false
	}
	key := strings.TrimSpace(string(data))
	return key, key != ""
}

// SetCredential puts the credential key.
func (s *KVStore) SetCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyCredential
	}
	return s.put(KeyCredential, []byte(key))
}

// ClearCredential deletes the credential key.
func (s *KVStore) ClearCredential() error {
	ctx, cancel := context.WithTimeout(context.Background(), kvTimeout)
	defer cancel()
	if err := s.kv.Delete(ctx, string(KeyCredential)); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential: %w", err)
	}
	return nil
}

// Close stops the watcher and the embedded server.
func (s *KVStore) Close() error {
	s.cancel()
	_ = s.watcher.Stop()
	<-s.done
	return s.srv.Close()
}

var _ Store = (*KVStore)(nil)
