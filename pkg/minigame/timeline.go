package minigame

import "time"

const (
	CrystalAppear   = 500 * time.Millisecond
	CrystalShine    = 1500 * time.Millisecond
	StarPlacing     = 1000 * time.Millisecond
	StarIlluminated = 2000 * time.Millisecond
)

// Timeline runs a fixed sequence of phases and calls onDone once after the last
// phase ends. Phase 0 is the first phase; Phase returns the phase count when done.
type Timeline struct {
	phases  []time.Duration
	phase   int
	elapsed time.Duration
	onDone  func()
	fired   bool
}

// NewTimeline creates a timeline over the given phase durations.
func NewTimeline(onDone func(), phases ...time.Duration) *Timeline {
	return &Timeline{phases: phases, onDone: onDone}
}

// NewCrystalReveal is the appear-then-shine sequence that closes a chapter.
func NewCrystalReveal(onDone func()) *Timeline {
	return NewTimeline(onDone, CrystalAppear, CrystalShine)
}

// NewStarLighting is the placing-then-illuminated sequence of the final chapter.
func NewStarLighting(onDone func()) *Timeline {
	return NewTimeline(onDone, StarPlacing, StarIlluminated)
}

// Update advances the timeline.
func (t *Timeline) Update(dt time.Duration) {
	if t.fired {
		return
	}
	t.elapsed += dt
	for t.phase < len(t.phases) && t.elapsed >= t.phases[t.phase] {
		t.elapsed -= t.phases[t.phase]
		t.phase++
	}
	if t.phase >= len(t.phases) {
		t.fired = true
		t.elapsed = 0
		if t.onDone != nil {
			t.onDone()
		}
	}
}

// Phase returns the index of the running phase.
func (t *Timeline) Phase() int { return t.phase }

// Progress returns how far through the running phase the timeline is, in [0,1].
func (t *Timeline) Progress() float64 {
	if t.phase >= len(t.phases) {
		return 1
	}
	return min(float64(t.elapsed)/float64(t.phases[t.phase]), 1)
}

// Done reports whether the callback has fired.
func (t *Timeline) Done() bool { return t.fired }
