// Package store owns the song being edited and its linear undo history.
//
// Every mutation runs under one mutex, so a Store behaves like a single event
// loop. Observers get a deep copy of the new state after the lock is released.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"songsmith/backend/logger"
	"songsmith/backend/lyrics"
	"songsmith/backend/models"
)

// MaxHistory bounds the undo log; older entries are dropped from the front.
const MaxHistory = 50

const logModule = "store"

// ErrNoSong is reported by callers that need a current song when there is none.
// Store methods themselves treat a missing song as a no-op.
var ErrNoSong = errors.New("no current song")

// ChangeKind describes what a mutation touched.
type ChangeKind string

const (
	ChangeSongCreated  ChangeKind = "song.created"
	ChangeSongLoaded   ChangeKind = "song.loaded"
	ChangeMetaUpdated  ChangeKind = "song.meta"
	ChangeBlocks       ChangeKind = "song.blocks"
	ChangeChords       ChangeKind = "song.chords"
	ChangeActiveBlock  ChangeKind = "song.active"
	ChangeHistoryMoved ChangeKind = "song.history"
)

// Change is delivered to observers after every effective mutation.
// Song is a private deep copy; Revision increases by one per change.
type Change struct {
	Kind          ChangeKind
	Revision      uint64
	Song          *models.Song
	ActiveBlockID string
}

// Observer is called synchronously, in revision order. It must not call
// mutating Store methods; Subscribe and unsubscribe are allowed.
type Observer func(Change)

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for song and block ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(l logger.ILogger) Option {
	return func(s *Store) { s.log = l }
}

type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex // serialises deliveries
	obsMu    sync.Mutex // guards observers and nextObs

	song     *models.Song
	active   string
	revision uint64

	observers map[int]Observer
	nextObs   int

	now   func() time.Time
	newID func() string
	log   logger.ILogger
}

func New(opts ...Option) *Store {
	s := &Store{
		observers: make(map[int]Observer),
		now:       time.Now,
		newID:     uuid.NewString,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn and returns a function that removes it.
// Observers may subscribe or unsubscribe from inside a callback; the change
// applies from the next delivery.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// observerList copies the registered observers in subscription order.
func (s *Store) observerList() []Observer {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Observer, len(ids))
	for i, id := range ids {
		out[i] = s.observers[id]
	}
	return out
}

// Snapshot returns a deep copy of the current song, or nil when there is none.
func (s *Store) Snapshot() *models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.song.Clone()
}

// ActiveBlockID returns the active block id, "" for none.
func (s *Store) ActiveBlockID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.song != nil && s.song.HistoryIndex > 0
}

func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.song != nil && s.song.HistoryIndex < len(s.song.History)-1
}

// mutate runs fn under the state lock. fn reports whether it changed anything;
// only effective changes bump the revision and reach observers.
func (s *Store) mutate(kind ChangeKind, fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.revision++
	change := Change{
		Kind:          kind,
		Revision:      s.revision,
		Song:          s.song.Clone(),
		ActiveBlockID: s.active,
	}
	// Taking notifyMu before releasing mu keeps deliveries in revision order.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, obs := range s.observerList() {
		obs(change)
	}
}

// pushHistory appends a snapshot of the current blocks after truncating any
// redo tail, then trims the log to MaxHistory. Caller holds mu.
func (s *Store) pushHistory() {
	song := s.song
	history := song.History[:song.HistoryIndex+1]
	history = append(history, models.HistoryEntry{
		Blocks:    models.CloneBlocks(song.Blocks),
		Timestamp: s.now().UnixMilli(),
	})
	if over := len(history) - MaxHistory; over > 0 {
		history = append([]models.HistoryEntry(nil), history[over:]...)
	}
	song.History = history
	song.HistoryIndex = len(history) - 1
}

// touch bumps updatedAt. Caller holds mu.
func (s *Store) touch() {
	s.song.UpdatedAt = s.now()
}

func (s *Store) countType(t models.BlockType) int {
	n := 0
	for _, b := range s.song.Blocks {
		if b.Type == t {
			n++
		}
	}
	return n
}

func (s *Store) indexOf(id string) int {
	for i, b := range s.song.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func label(t models.BlockType, n int) string {
	return t.Capitalized() + " " + itoa(n)
}

func (s *Store) newBlock(t models.BlockType, order, n int) models.SongBlock {
	return models.SongBlock{
		ID:    s.newID(),
		Type:  t,
		Order: order,
		Label: label(t, n),
	}
}

func withMetrics(b models.SongBlock, content string) models.SongBlock {
	b.Content = content
	b.WordCount = lyrics.CountWords(content)
	b.SyllableCount = lyrics.CountSyllables(content)
	return b
}

func (s *Store) debug(message string, details map[string]interface{}) {
	s.log.Debug(logModule, message, details)
}
