// Package minigame implements the chapter mini-games as cooperative state machines.
//
// Nothing here starts goroutines or timers. Every game is advanced by Update with
// the time elapsed since the previous frame, and randomness comes from an injected
// *rand.Rand so tests can replay a game exactly.
package minigame

import (
	"math/rand/v2"
	"time"
)

// NewRand returns a generator seeded from the clock.
func NewRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1|1))
}

// NewSeededRand returns a deterministic generator.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Dialogue steps through a fixed list of lines.
type Dialogue[T any] struct {
	lines []T
	index int
}

// NewDialogue creates a Dialogue positioned on the first line.
func NewDialogue[T any](lines []T) *Dialogue[T] {
	return &Dialogue[T]{lines: lines}
}

// Current returns the line being shown. It returns the zero value for an empty
// dialogue.
func (d *Dialogue[T]) Current() T {
	var zero T
	if len(d.lines) == 0 {
		return zero
	}
	return d.lines[d.index]
}

// Index returns the position of the current line.
func (d *Dialogue[T]) Index() int { return d.index }

// Len returns the number of lines.
func (d *Dialogue[T]) Len() int { return len(d.lines) }

// IsLast reports whether the current line is the final one.
func (d *Dialogue[T]) IsLast() bool {
	return d.index >= len(d.lines)-1
}

// Next moves to the following line. It returns false, without moving, when the
// current line is the last.
func (d *Dialogue[T]) Next() bool {
	if d.IsLast() {
		return false
	}
	d.index++
	return true
}
