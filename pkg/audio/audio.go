// Package audio provides the game's audio session service: the looping background
// and gratitude music tracks with cooperative volume fades, and the short note and
// miss effects of the light-sync game.
//
// The scene layer only talks to the Session and Effects interfaces, so the window
// front end can use the Ebitengine backed System while headless runs and tests use
// Nop or fakes.
package audio

import (
	"errors"
	"time"
)

// SampleRate is the sample rate of every stream played through the System.
const SampleRate = 44100

var (
	// ErrMusicNotFound is returned when a music file cannot be found.
	ErrMusicNotFound = errors.New("music file not found")

	// ErrUnsupportedFormat is returned for music files that are neither mp3 nor wav.
	ErrUnsupportedFormat = errors.New("unsupported music format")
)

// Session is one looping music track.
type Session interface {
	// FadeIn starts the track if needed and ramps its volume to target over d.
	FadeIn(d time.Duration, target float64)
	// FadeOut ramps the volume to zero over d and then pauses the track.
	FadeOut(d time.Duration)
	// Update advances a running fade by dt.
	Update(dt time.Duration)
	// Volume returns the current volume in [0,1].
	Volume() float64
	// Playing reports whether the track is playing.
	Playing() bool
}

// Effects plays short one-shot sounds.
type Effects interface {
	// Note plays the tone of a rhythm lane.
	Note(lane int)
	// Miss plays the miss sound.
	Miss()
}

// Nop is a silent Session and Effects. It still tracks volume and play state so
// headless runs report the same cues as the window.
type Nop struct {
	track Track
}

// NewNop returns a silent session.
func NewNop() *Nop { return &Nop{} }

func (n *Nop) FadeIn(d time.Duration, target float64) { n.track.FadeIn(d, target) }
func (n *Nop) FadeOut(d time.Duration)                { n.track.FadeOut(d) }
func (n *Nop) Update(dt time.Duration)                { n.track.Update(dt) }
func (n *Nop) Volume() float64                        { return n.track.Volume() }
func (n *Nop) Playing() bool                          { return n.track.Playing() }
func (n *Nop) Note(int)                               {}
func (n *Nop) Miss()                                  {}
