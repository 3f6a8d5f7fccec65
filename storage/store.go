// Package storage owns the persisted photo collection: an ordered in-memory
// working set, a pluggable key-value durability layer, and the listener
// registry that tells the UI when the collection changed.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"photo-triage/model"
)

// DefaultKey is the provider key holding the JSON-encoded collection.
const DefaultKey = "photos"

// Store holds the photo collection, newest first. The in-memory slice is
// authoritative for the running process; every mutation notifies listeners
// immediately and hands the new snapshot to a single writer goroutine, so
// durable writes never overlap and never sit on the critical path of a
// gesture. A write failure is logged and dropped, the session keeps going.
type Store struct {
	provider Provider
	registry *Registry
	log      *zap.Logger
	clk      clock.Clock
	key      string

	mu     sync.RWMutex
	photos []model.Photo

	wmu       sync.Mutex
	wcond     *sync.Cond
	pending   []model.Photo
	dirty     bool
	scheduled uint64
	persisted uint64
	closed    bool
	done      chan struct{}
}

type StoreOption func(*Store)

func WithLogger(log *zap.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

func WithClock(clk clock.Clock) StoreOption {
	return func(s *Store) { s.clk = clk }
}

func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

func NewStore(provider Provider, opts ...StoreOption) *Store {
	s := &Store{
		provider: provider,
		registry: NewRegistry(),
		log:      zap.NewNop(),
		clk:      clock.New(),
		key:      DefaultKey,
		photos:   []model.Photo{},
		done:     make(chan struct{}),
	}
	s.wcond = sync.NewCond(&s.wmu)
	for _, opt := range opts {
		opt(s)
	}
	go s.writeLoop()
	return s
}

type addConfig struct {
	takenAt time.Time
}

type AddOption func(*addConfig)

// WithTimestamp overrides the capture time recorded on the new photo, e.g.
// with the EXIF time of an imported file.
func WithTimestamp(t time.Time) AddOption {
	return func(c *addConfig) { c.takenAt = t }
}

// Load hydrates the collection from the provider and notifies listeners.
// A missing key, a read error or malformed data all degrade to an empty
// collection; Load never fails.
func (s *Store) Load(ctx context.Context) []model.Photo {
	photos := s.read(ctx)

	s.mu.Lock()
	s.photos = photos
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.registry.Notify()
	return snapshot
}

func (s *Store) read(ctx context.Context) []model.Photo {
	data, err := s.provider.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []model.Photo{}
	}
	if err != nil {
		s.log.Warn("failed to read photo collection, starting empty", zap.Error(err))
		return []model.Photo{}
	}

	var photos []model.Photo
	if err := json.Unmarshal(data, &photos); err != nil {
		s.log.Warn("stored photo collection is malformed, starting empty", zap.Error(err))
		return []model.Photo{}
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	return photos
}

// Add prepends a new photo built from uri, making it the current head of the
// review order, and returns the created record.
func (s *Store) Add(uri string, opts ...AddOption) model.Photo {
	cfg := addConfig{takenAt: s.clk.Now()}
	for _, opt := range opts {
		opt(&cfg)
	}
	photo := model.NewPhoto(uri, cfg.takenAt)

	s.mu.Lock()
	s.photos = append([]model.Photo{photo}, s.photos...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleWrite(snapshot)
	s.registry.Notify()

	s.log.Debug("photo added", zap.String("id", photo.ID), zap.String("uri", uri))
	return photo
}

// Remove deletes the photo with the given id, keeping the relative order of
// the rest. An unknown id leaves the sequence unchanged.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	kept := make([]model.Photo, 0, len(s.photos))
	found := false
	for _, p := range s.photos {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	s.photos = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleWrite(snapshot)
	s.registry.Notify()

	if found {
		s.log.Debug("photo removed", zap.String("id", id))
	} else {
		s.log.Debug("remove for unknown photo id", zap.String("id", id))
	}
}

// Clear empties the collection.
func (s *Store) Clear() {
	s.mu.Lock()
	s.photos = []model.Photo{}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleWrite(snapshot)
	s.registry.Notify()

	s.log.Debug("photo collection cleared")
}

// Photos returns a copy of the current collection, newest first.
func (s *Store) Photos() []model.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.photos)
}

// Subscribe registers a listener invoked after every mutation and on Load.
func (s *Store) Subscribe(fn func()) func() {
	return s.registry.Subscribe(fn)
}

// Flush blocks until every write scheduled so far has been attempted.
func (s *Store) Flush() {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	target := s.scheduled
	for s.persisted < target {
		s.wcond.Wait()
	}
}

// Close drains pending writes and stops the writer goroutine. The provider
// stays open; its owner closes it.
func (s *Store) Close() error {
	s.wmu.Lock()
	if !s.closed {
		s.closed = true
		s.wcond.Broadcast()
	}
	s.wmu.Unlock()

	<-s.done
	return nil
}

func (s *Store) snapshotLocked() []model.Photo {
	out := make([]model.Photo, len(s.photos))
	copy(out, s.photos)
	return out
}

func (s *Store) scheduleWrite(snapshot []model.Photo) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.closed {
		s.log.Warn("write scheduled after close, dropping", zap.Int("photos", len(snapshot)))
		return
	}
	s.pending = snapshot
	s.dirty = true
	s.scheduled++
	s.wcond.Broadcast()
}

// writeLoop persists snapshots in scheduling order, one at a time. When
// mutations outpace it the loop coalesces to the latest snapshot, so the
// stored state always converges on the most recent in-memory state.
func (s *Store) writeLoop() {
	defer close(s.done)
	for {
		s.wmu.Lock()
		for !s.dirty && !s.closed {
			s.wcond.Wait()
		}
		if !s.dirty {
			s.wmu.Unlock()
			return
		}
		snapshot := s.pending
		gen := s.scheduled
		s.dirty = false
		s.pending = nil
		s.wmu.Unlock()

		s.persist(snapshot)

		s.wmu.Lock()
		s.persisted = gen
		s.wcond.Broadcast()
		s.wmu.Unlock()
	}
}

func (s *Store) persist(snapshot []model.Photo) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error("failed to encode photo collection", zap.Error(err))
		return
	}
	if err := s.provider.Set(context.Background(), s.key, data); err != nil {
		s.log.Warn("failed to persist photo collection",
			zap.Error(err),
			zap.Int("photos", len(snapshot)),
		)
	}
}
