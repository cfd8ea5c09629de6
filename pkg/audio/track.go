package audio

import (
	"sync"
	"time"
)

// VolumePlayer is the part of an audio player a Track drives.
// Ebitengine's *audio.Player satisfies it.
type VolumePlayer interface {
	Play()
	Pause()
	SetVolume(volume float64)
}

// Track is a Session over a VolumePlayer. A nil player makes a silent track that
// still follows the fade schedule.
type Track struct {
	player VolumePlayer

	volume     float64
	from, to   float64
	elapsed    time.Duration
	duration   time.Duration
	fading     bool
	pauseAtEnd bool
	playing    bool
	muted      bool

	mu sync.Mutex
}

// NewTrack creates a stopped track at volume 0.
func NewTrack(player VolumePlayer) *Track {
	t := &Track{player: player}
	t.applyLocked()
	return t
}

// FadeIn starts the track and ramps it from its current volume (0 when stopped)
// to target.
func (t *Track) FadeIn(d time.Duration, target float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.playing {
		t.volume = 0
		t.playing = true
		if t.player != nil {
			t.player.Play()
		}
	}
	t.startFadeLocked(d, clamp01(target), false)
}

// FadeOut ramps the track to silence and pauses it.
func (t *Track) FadeOut(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.playing {
		return
	}
	t.startFadeLocked(d, 0, true)
}

func (t *Track) startFadeLocked(d time.Duration, target float64, pause bool) {
	t.from, t.to = t.volume, target
	t.elapsed, t.duration = 0, d
	t.fading = true
	t.pauseAtEnd = pause
	if d <= 0 {
		t.finishFadeLocked()
		return
	}
	t.applyLocked()
}

// Update advances the running fade.
func (t *Track) Update(dt time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.fading {
		return
	}
	t.elapsed += dt
	if t.elapsed >= t.duration {
		t.finishFadeLocked()
		return
	}
	progress := float64(t.elapsed) / float64(t.duration)
	t.volume = t.from + (t.to-t.from)*progress
	t.applyLocked()
}

func (t *Track) finishFadeLocked() {
	t.volume = t.to
	t.fading = false
	if t.pauseAtEnd {
		t.playing = false
		if t.player != nil {
			t.player.Pause()
		}
	}
	t.applyLocked()
}

// SetMuted silences the player without changing the tracked volume.
func (t *Track) SetMuted(muted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = muted
	t.applyLocked()
}

func (t *Track) applyLocked() {
	if t.player == nil {
		return
	}
	if t.muted {
		t.player.SetVolume(0)
		return
	}
	t.player.SetVolume(t.volume)
}

// Volume returns the tracked volume.
func (t *Track) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

// Playing reports whether the track has been started and not faded out.
func (t *Track) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// Fading reports whether a fade is in progress.
func (t *Track) Fading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fading
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
