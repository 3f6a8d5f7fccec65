package review

import (
	"sync"

	"go.uber.org/zap"

	"photo-triage/model"
	"photo-triage/storage"
)

// Mode is the review screen's presentation mode.
type Mode int

const (
	ModeGrid Mode = iota
	ModeSwipe
)

func (m Mode) String() string {
	if m == ModeSwipe {
		return "swipe"
	}
	return "grid"
}

// Exporter is the slice of the export gate the session needs.
type Exporter interface {
	Detach(uri string)
}

// Session owns the review cursor over the store's collection. It refreshes
// its snapshot on every store notification and applies the advance policy
// when a card is committed away. The cursor is transient screen state, never
// persisted; in swipe mode it always addresses a valid position or the mode
// has already fallen back to grid.
type Session struct {
	store    *storage.Store
	exporter Exporter
	log      *zap.Logger

	mu          sync.Mutex
	photos      []model.Photo
	cursor      int
	mode        Mode
	unsubscribe func()
}

type SessionOption func(*Session)

func WithSessionLogger(log *zap.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

func NewSession(store *storage.Store, exporter Exporter, opts ...SessionOption) *Session {
	s := &Session{
		store:    store,
		exporter: exporter,
		log:      zap.NewNop(),
		mode:     ModeGrid,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.photos = store.Photos()
	s.unsubscribe = store.Subscribe(s.refresh)
	return s
}

// refresh pulls the latest snapshot after a store mutation. A swipe cursor
// left pointing past the end of a shrunken collection falls back to grid.
func (s *Session) refresh() {
	photos := s.store.Photos()

	s.mu.Lock()
	s.photos = photos
	if s.mode == ModeSwipe && s.cursor >= len(s.photos) {
		s.mode = ModeGrid
		s.cursor = 0
	}
	s.mu.Unlock()
}

// Photos returns the session's current snapshot, newest first.
func (s *Session) Photos() []model.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Photo, len(s.photos))
	copy(out, s.photos)
	return out
}

// Current returns the photo under the cursor while in swipe mode.
func (s *Session) Current() (model.Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeSwipe || s.cursor >= len(s.photos) {
		return model.Photo{}, false
	}
	return s.photos[s.cursor], true
}

func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// EnterSwipe switches to swipe mode at the given index. It reports false
// when the index is out of range.
func (s *Session) EnterSwipe(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.photos) {
		return false
	}
	s.mode = ModeSwipe
	s.cursor = index
	return true
}

// EnterGrid returns to the grid without touching the collection.
func (s *Session) EnterGrid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeGrid
	s.cursor = 0
}

// CommitRight keeps the current photo: its uri goes to the export gate on a
// detached task, the record leaves the collection, and the cursor advances.
// The export runs at most once per commit and its failure is silent here;
// the photo is removed either way.
func (s *Session) CommitRight() {
	s.commit(DirectionRight)
}

// CommitLeft discards the current photo and advances. No export.
func (s *Session) CommitLeft() {
	s.commit(DirectionLeft)
}

func (s *Session) commit(dir Direction) {
	s.mu.Lock()
	if s.mode != ModeSwipe || s.cursor >= len(s.photos) {
		s.mu.Unlock()
		return
	}
	photo := s.photos[s.cursor]
	wasLast := s.cursor == len(s.photos)-1
	s.mu.Unlock()

	if dir == DirectionRight {
		s.exporter.Detach(photo.URI)
	}
	s.store.Remove(photo.ID)

	// Advance: removing a non-final card leaves the cursor index on the next
	// photo in order; removing the final card ends the swipe run.
	s.mu.Lock()
	if wasLast || len(s.photos) == 0 {
		s.mode = ModeGrid
		s.cursor = 0
	}
	s.mu.Unlock()

	s.log.Debug("review commit",
		zap.String("direction", dir.String()),
		zap.String("id", photo.ID),
	)
}

// Handlers wires the engine's terminal callbacks to the session's commits.
// The Frame slot is left for the caller's renderer.
func (s *Session) Handlers() Handlers {
	return Handlers{
		SwipeLeft:  s.CommitLeft,
		SwipeRight: s.CommitRight,
	}
}

// Close detaches the session from the store.
func (s *Session) Close() {
	s.unsubscribe()
}
