package minigame

import (
	"math/rand/v2"
	"time"
)

const (
	// Lanes is the number of tappable lanes.
	Lanes = 4
	// BeatInterval is the time between beats.
	BeatInterval = 800 * time.Millisecond
	// MaxBeat is the beat at which note spawning stops.
	MaxBeat = 16
	// TargetScore is the number of hits that wins the game.
	TargetScore = 8
)

// Note is a light waiting to be tapped.
type Note struct {
	ID   int
	Lane int
	Beat int
}

// TapResult tells the caller what a tap did.
type TapResult int

const (
	TapIgnored TapResult = iota
	TapHit
	TapMiss
)

// Rhythm is the light-sync game. Every other beat spawns a note on a random lane;
// tapping a lane clears its oldest note.
type Rhythm struct {
	rng     *rand.Rand
	active  bool
	elapsed time.Duration
	beat    int
	nextID  int
	notes   []Note
	score   int
	misses  int
}

// NewRhythm creates an idle game.
func NewRhythm(rng *rand.Rand) *Rhythm {
	return &Rhythm{rng: rng}
}

// Start begins the beat clock. Starting a running or finished game does nothing.
func (r *Rhythm) Start() {
	if r.active || r.Won() {
		return
	}
	r.active = true
}

// Active reports whether the beat clock is running.
func (r *Rhythm) Active() bool { return r.active }

// Update advances the beat clock, spawning notes as beats pass.
func (r *Rhythm) Update(dt time.Duration) {
	if !r.active {
		return
	}
	r.elapsed += dt
	for r.elapsed >= BeatInterval {
		r.elapsed -= BeatInterval
		if r.beat < MaxBeat && r.beat%2 == 0 {
			r.notes = append(r.notes, Note{ID: r.nextID, Lane: r.rng.IntN(Lanes), Beat: r.beat})
			r.nextID++
		}
		r.beat++
	}
}

// Tap handles a tap on lane.
func (r *Rhythm) Tap(lane int) TapResult {
	if !r.active || lane < 0 || lane >= Lanes {
		return TapIgnored
	}
	for i, n := range r.notes {
		if n.Lane != lane {
			continue
		}
		r.notes = append(r.notes[:i], r.notes[i+1:]...)
		r.score++
		if r.score >= TargetScore {
			r.active = false
		}
		return TapHit
	}
	r.misses++
	return TapMiss
}

// Notes returns the notes on screen, oldest first.
func (r *Rhythm) Notes() []Note {
	return append([]Note(nil), r.notes...)
}

// Score returns the number of hits.
func (r *Rhythm) Score() int { return r.score }

// Misses returns the number of taps on empty lanes.
func (r *Rhythm) Misses() int { return r.misses }

// Beat returns the number of beats elapsed.
func (r *Rhythm) Beat() int { return r.beat }

// Won reports whether the target score is reached.
func (r *Rhythm) Won() bool { return r.score >= TargetScore }
