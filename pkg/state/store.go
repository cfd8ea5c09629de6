package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zurustar/star-glow/pkg/logger"
)

// ErrStoreNotInitialized is the panic value (wrapped) raised when a Store is used
// before NewStore and Hydrate have run. It indicates a wiring defect.
var ErrStoreNotInitialized = errors.New("game store used before initialization")

// Store owns the canonical GameState, the saved progress marker and the start-screen
// flag. All reads return copies; all writes go through the transition methods.
type Store struct {
	storage Storage
	key     string
	log     *slog.Logger

	mu            sync.Mutex
	hydrated      bool
	state         GameState
	savedProgress ChapterKey // empty when there is no saved progress
	showingStart  bool

	nextListener int
	listeners    map[int]func(GameState)
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for hydration and persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a Store backed by storage. Call Hydrate before using it.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:      storage,
		key:          DefaultStorageKey,
		state:        DefaultGameState(),
		showingStart: true,
		listeners:    make(map[int]func(GameState)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetLogger()
	}
	return s
}

// Hydrate loads the saved record. A missing, unreadable or malformed record yields
// the default state. A valid record is laid over the default shape and repaired,
// and the live chapter is always reset to start; the chapter that was saved becomes
// the saved progress instead. Hydrate never fails.
func (s *Store) Hydrate() {
	if s == nil {
		panic(fmt.Errorf("%w: nil store", ErrStoreNotInitialized))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = DefaultGameState()
	s.savedProgress = ""
	s.showingStart = true
	s.hydrated = true

	data, ok, err := s.storage.Load(s.key)
	if err != nil {
		s.log.Warn("Failed to read saved game, starting fresh", "key", s.key, "error", err)
		return
	}
	if !ok {
		s.log.Info("No saved game found", "key", s.key)
		return
	}

	decoded := DefaultGameState()
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.log.Warn("Saved game is malformed, starting fresh", "key", s.key, "error", err)
		return
	}

	s.state = sanitize(decoded)
	s.state.CurrentChapter = ChapterStart
	s.savedProgress = deriveSavedProgress(data)

	s.log.Info("Saved game loaded",
		"savedProgress", s.savedProgress,
		"crystals", s.state.Crystals.Count(),
		"completed", len(s.state.CompletedChapters),
		"theme", s.state.ThemeColor)
}

// deriveSavedProgress re-reads the raw record and returns the chapter it was saved
// on, unless that is start or not a known chapter.
func deriveSavedProgress(data []byte) ChapterKey {
	var raw struct {
		CurrentChapter *ChapterKey `json:"currentChapter"`
	}
	if err := json.Unmarshal(data, &raw); err != nil || raw.CurrentChapter == nil {
		return ""
	}
	ch := *raw.CurrentChapter
	if !ch.Valid() || ch == ChapterStart {
		return ""
	}
	return ch
}

func (s *Store) mustBeReady() {
	if s == nil {
		panic(fmt.Errorf("%w: nil store", ErrStoreNotInitialized))
	}
	if !s.hydrated {
		panic(fmt.Errorf("%w: Hydrate has not been called", ErrStoreNotInitialized))
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() GameState {
	s.mustBeReady()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SavedProgress returns the furthest chapter reached, if any.
func (s *Store) SavedProgress() (ChapterKey, bool) {
	s.mustBeReady()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedProgress, s.savedProgress != ""
}

// IsShowingStartScreen reports whether the landing screen is up.
func (s *Store) IsShowingStartScreen() bool {
	s.mustBeReady()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showingStart
}

// Subscribe registers fn to be called with the new snapshot after every mutation.
// The returned function removes the registration.
func (s *Store) Subscribe(fn func(GameState)) (cancel func()) {
	s.mustBeReady()
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// GoToChapter navigates to ch. Unknown keys land on start. Going to start shows the
// landing screen; any other chapter leaves it and becomes the saved progress.
func (s *Store) GoToChapter(ch ChapterKey) {
	s.mustBeReady()
	if !ch.Valid() {
		s.log.Warn("Unknown chapter requested, falling back to start", "chapter", ch)
		ch = ChapterStart
	}
	s.apply("goToChapter", func() {
		s.showingStart = ch == ChapterStart
		s.state = withChapter(s.state, ch)
		if ch != ChapterStart {
			s.savedProgress = ch
		}
	})
}

// ContinueGame resumes the saved progress. Without saved progress it does nothing.
func (s *Store) ContinueGame() {
	s.mustBeReady()
	s.mu.Lock()
	saved := s.savedProgress
	s.mu.Unlock()
	if saved == "" {
		return
	}
	s.apply("continueGame", func() {
		s.showingStart = false
		s.state = withChapter(s.state, saved)
	})
}

// CollectCrystal marks crystal c collected. Collecting twice changes nothing.
func (s *Store) CollectCrystal(c CrystalType) {
	if !c.Valid() {
		s.mustBeReady()
		s.log.Warn("Unknown crystal ignored", "crystal", c)
		return
	}
	s.apply("collectCrystal", func() {
		s.state = withCrystal(s.state, c)
	})
}

// CompleteChapter records ch as completed, once.
func (s *Store) CompleteChapter(ch ChapterKey) {
	if !ch.Valid() {
		s.mustBeReady()
		s.log.Warn("Unknown chapter completion ignored", "chapter", ch)
		return
	}
	s.apply("completeChapter", func() {
		s.state = withCompleted(s.state, ch)
	})
}

// SetThemeColor switches the accent palette.
func (s *Store) SetThemeColor(t ThemeColor) {
	if !t.Valid() {
		s.mustBeReady()
		s.log.Warn("Unknown theme ignored", "theme", t)
		return
	}
	s.apply("setThemeColor", func() {
		s.state = withTheme(s.state, t)
	})
}

// ResetGame restores the default state, forgets saved progress and shows the
// landing screen.
func (s *Store) ResetGame() {
	s.apply("resetGame", func() {
		s.state = DefaultGameState()
		s.savedProgress = ""
		s.showingStart = true
	})
}

// CompleteGame marks the story finished. Only ResetGame clears the flag.
func (s *Store) CompleteGame() {
	s.apply("completeGame", func() {
		s.state = withGameCompleted(s.state)
	})
}

// apply runs one mutation under the lock, persists the result and then notifies
// observers outside the lock.
func (s *Store) apply(op string, mutate func()) {
	s.mustBeReady()

	s.mu.Lock()
	mutate()
	snapshot := s.state.Clone()
	showingStart := s.showingStart
	s.persistLocked()
	listeners := make([]func(GameState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	s.log.Debug("State transition", "op", op,
		"chapter", snapshot.CurrentChapter,
		"startScreen", showingStart)

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// persistLocked writes the record. While the landing screen is up the saved chapter
// is substituted for the live one so a reload does not lose progress.
func (s *Store) persistLocked() {
	toSave := s.state
	if s.showingStart && s.savedProgress != "" {
		toSave.CurrentChapter = s.savedProgress
	}

	data, err := json.Marshal(toSave)
	if err != nil {
		s.log.Error("Failed to encode game state", "error", err)
		return
	}
	if err := s.storage.Save(s.key, data); err != nil {
		s.log.Warn("Failed to persist game state", "key", s.key, "error", err)
	}
}
