package scene

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zurustar/star-glow/pkg/audio"
	"github.com/zurustar/star-glow/pkg/logger"
	"github.com/zurustar/star-glow/pkg/minigame"
	"github.com/zurustar/star-glow/pkg/state"
	"github.com/zurustar/star-glow/pkg/story"
)

// Music cue timings.
const (
	BackgroundFadeIn  = 2 * time.Second
	BackgroundVolume  = 0.3
	BackgroundFadeOut = 1 * time.Second
	GratitudeFadeIn   = 2 * time.Second
	GratitudeVolume   = 0.4
)

// route is what the router selects a scene by.
type route struct {
	chapter state.ChapterKey
	start   bool
}

// Director is the game router. It owns the active scene and rebuilds it whenever
// the routed chapter changes.
type Director struct {
	env        *Env
	background audio.Session
	gratitude  audio.Session

	scene   Scene
	current route
	started bool
	dark    bool
	dirty   atomic.Bool
	cancel  func()

	log *slog.Logger
	mu  sync.Mutex
}

// Option configures a Director.
type Option func(*Director)

// WithVariant selects the story variant.
func WithVariant(v story.Variant) Option {
	return func(d *Director) { d.env.Variant = v }
}

// WithRand sets the random source of the mini-games.
func WithRand(r *rand.Rand) Option {
	return func(d *Director) { d.env.Rand = r }
}

// WithMusic sets the background and gratitude sessions.
func WithMusic(background, gratitude audio.Session) Option {
	return func(d *Director) {
		d.background = background
		d.gratitude = gratitude
	}
}

// WithEffects sets the effect player.
func WithEffects(e audio.Effects) Option {
	return func(d *Director) { d.env.Effects = e }
}

// WithClipboard sets the clipboard the gratitude card is copied to.
func WithClipboard(c Clipboard) Option {
	return func(d *Director) { d.env.Clipboard = c }
}

// NewDirector creates a director over a hydrated store.
func NewDirector(store *state.Store, pack *story.Pack, opts ...Option) *Director {
	d := &Director{
		env: &Env{
			Store:     store,
			Pack:      pack,
			Effects:   audio.NewNop(),
			Clipboard: SystemClipboard{},
		},
		background: audio.NewNop(),
		gratitude:  audio.NewNop(),
		log:        logger.GetLogger(),
	}
	d.env.ToggleDark = func() { d.dark = !d.dark }
	d.env.Dark = func() bool { return d.dark }
	for _, opt := range opts {
		opt(d)
	}
	if d.env.Rand == nil {
		d.env.Rand = minigame.NewRand()
	}

	d.cancel = store.Subscribe(func(state.GameState) { d.dirty.Store(true) })
	d.reroute(true)
	return d
}

// Close stops observing the store.
func (d *Director) Close() {
	d.cancel()
}

func (d *Director) routeOf() route {
	store := d.env.Store
	if store.IsShowingStartScreen() {
		return route{chapter: state.ChapterStart, start: true}
	}
	ch := store.Snapshot().CurrentChapter
	if _, ok := story.Lookup(ch); !ok {
		ch = state.ChapterStart
	}
	return route{chapter: ch, start: ch == state.ChapterStart}
}

func (d *Director) build(ch state.ChapterKey) Scene {
	env := d.env
	switch ch {
	case state.ChapterAttic:
		return newAtticScene(env)
	case state.ChapterCozyStreet:
		return newChapterScene(env, ch, newMatchingGame(env))
	case state.ChapterMarket:
		return newChapterScene(env, ch, newHuntGame(env))
	case state.ChapterForest:
		return newChapterScene(env, ch, newPuzzleGame(env))
	case state.ChapterSquare:
		return newChapterScene(env, ch, newRhythmGame(env))
	case state.ChapterFinal:
		return newFinalScene(env)
	case state.ChapterCollection:
		return newCollectionScene(env)
	case state.ChapterGratitude:
		return newGratitudeScene(env)
	}
	return newStartScene(env)
}

// reroute rebuilds the scene when the route changed. Must be called with d.mu
// held, or before the director is shared.
func (d *Director) reroute(force bool) {
	if !d.dirty.Swap(false) && !force {
		return
	}
	next := d.routeOf()
	if !force && next == d.current {
		return
	}
	prev := d.current
	d.current = next
	d.scene = d.build(next.chapter)
	d.log.Debug("Scene changed", "from", prev.chapter, "to", next.chapter, "startScreen", next.start)

	if d.started {
		d.musicCue(prev.chapter, next.chapter)
	}
}

// musicCue switches between the background and gratitude music.
func (d *Director) musicCue(from, to state.ChapterKey) {
	switch {
	case to == state.ChapterGratitude && from != state.ChapterGratitude:
		d.background.FadeOut(BackgroundFadeOut)
		d.gratitude.FadeIn(GratitudeFadeIn, GratitudeVolume)
	case from == state.ChapterGratitude && to != state.ChapterGratitude:
		d.gratitude.FadeOut(BackgroundFadeOut)
		d.background.FadeIn(BackgroundFadeIn, BackgroundVolume)
	}
}

// Handle routes one input to the active scene.
func (d *Director) Handle(in Input) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scene.Handle(in)
	d.reroute(false)
}

// Update advances the music and the active scene by dt. The first update starts
// the music.
func (d *Director) Update(dt time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		d.started = true
		if d.current.chapter == state.ChapterGratitude {
			d.gratitude.FadeIn(GratitudeFadeIn, GratitudeVolume)
		} else {
			d.background.FadeIn(BackgroundFadeIn, BackgroundVolume)
		}
	}
	d.background.Update(dt)
	d.gratitude.Update(dt)
	d.scene.Update(dt)
	d.reroute(false)
}

// Frame renders the active scene.
func (d *Director) Frame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scene.Frame()
}

// Busy reports whether the active scene is running a timer the player waits for.
func (d *Director) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.scene.(busyScene); ok {
		return b.Busy()
	}
	return false
}

// Chapter returns the routed chapter.
func (d *Director) Chapter() state.ChapterKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.chapter
}

// Settle advances the director in steps of dt until it is no longer busy, at most
// limit in total. It returns the time advanced.
func (d *Director) Settle(dt, limit time.Duration) time.Duration {
	var elapsed time.Duration
	for elapsed < limit && d.Busy() {
		d.Update(dt)
		elapsed += dt
	}
	return elapsed
}
