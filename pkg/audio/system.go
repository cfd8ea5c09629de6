package audio

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/zurustar/star-glow/pkg/logger"
)

// Config selects the music and instrument sources of a System.
type Config struct {
	// MusicPath is the looping background music. Empty or missing means silence.
	MusicPath string
	// GratitudeMusicPath is the music of the gratitude card.
	GratitudeMusicPath string
	// SoundFont is the contents of an .sf2 file used to render the rhythm notes.
	// When nil the notes are synthesized.
	SoundFont []byte
	// Muted starts the system muted.
	Muted bool
}

// System owns the shared Ebitengine audio context, the two music tracks and the
// effect players.
type System struct {
	audioCtx *audio.Context

	background *Track
	gratitude  *Track

	// notes are pre-rendered PCM clips, one per lane
	notes [len(noteKeys)][]byte
	miss  []byte

	// effectPlayers are the one-shot players still sounding
	effectPlayers []*audio.Player

	muted bool
	log   *slog.Logger
	mu    sync.Mutex
}

// NewSystem creates the audio context and loads every source in cfg.
// Missing or broken sources are logged and replaced with silence.
func NewSystem(cfg Config) *System {
	return NewSystemWithContext(audio.NewContext(SampleRate), cfg)
}

// NewSystemWithContext creates a System on an existing audio context.
func NewSystemWithContext(audioCtx *audio.Context, cfg Config) *System {
	s := &System{
		audioCtx: audioCtx,
		log:      logger.GetLogger(),
	}

	s.background = NewTrack(s.loopPlayer("background", cfg.MusicPath))
	s.gratitude = NewTrack(s.loopPlayer("gratitude", cfg.GratitudeMusicPath))

	var err error
	if len(cfg.SoundFont) > 0 {
		s.notes, err = renderSoundFontNotes(cfg.SoundFont)
		if err != nil {
			s.log.Warn("SoundFont unusable, synthesizing notes", "error", err)
		} else {
			s.log.Info("Rhythm notes rendered with SoundFont")
		}
	}
	if len(cfg.SoundFont) == 0 || err != nil {
		if s.notes, err = renderBeepNotes(); err != nil {
			s.log.Error("Failed to synthesize notes", "error", err)
		}
	}
	if s.miss, err = renderStreamer(MissStreamer(SampleRate)); err != nil {
		s.log.Error("Failed to synthesize miss sound", "error", err)
	}

	s.SetMuted(cfg.Muted)
	return s
}

// loopPlayer returns a looping player for path, or nil when there is nothing to
// play.
func (s *System) loopPlayer(name, path string) VolumePlayer {
	if path == "" {
		s.log.Debug("No music configured", "track", name)
		return nil
	}
	src, err := loadMusic(path)
	if err != nil {
		s.log.Warn("Music unavailable, track is silent", "track", name, "path", path, "error", err)
		return nil
	}
	player, err := s.audioCtx.NewPlayer(audio.NewInfiniteLoop(src, src.Length()))
	if err != nil {
		s.log.Warn("Failed to create music player", "track", name, "error", err)
		return nil
	}
	s.log.Info("Music loaded", "track", name, "path", path)
	return player
}

// Background returns the background music session.
func (s *System) Background() Session { return s.background }

// Gratitude returns the gratitude music session.
func (s *System) Gratitude() Session { return s.gratitude }

// Note plays the clip of lane.
func (s *System) Note(lane int) {
	s.play(s.notes[laneIndex(lane)])
}

// Miss plays the miss clip.
func (s *System) Miss() {
	s.play(s.miss)
}

func (s *System) play(clip []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupFinishedLocked()
	if s.muted || len(clip) == 0 {
		return
	}
	player, err := s.audioCtx.NewPlayer(bytes.NewReader(clip))
	if err != nil {
		s.log.Warn("Failed to create effect player", "error", err)
		return
	}
	player.Play()
	s.effectPlayers = append(s.effectPlayers, player)
}

// cleanupFinishedLocked closes effect players that have finished.
func (s *System) cleanupFinishedLocked() {
	active := s.effectPlayers[:0]
	for _, p := range s.effectPlayers {
		if p.IsPlaying() {
			active = append(active, p)
		} else {
			p.Close()
		}
	}
	s.effectPlayers = active
}

// SetMuted mutes every track and effect.
func (s *System) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()

	s.background.SetMuted(muted)
	s.gratitude.SetMuted(muted)
}

// IsMuted returns whether the system is muted.
func (s *System) IsMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Update drops finished effects. The tracks are advanced by whoever owns the
// sessions.
func (s *System) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupFinishedLocked()
}

// Shutdown stops all playback.
func (s *System) Shutdown() {
	s.background.FadeOut(0)
	s.gratitude.FadeOut(0)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.effectPlayers {
		p.Close()
	}
	s.effectPlayers = nil
}
