package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// fakePlayer は VolumePlayer の呼び出しを記録する
type fakePlayer struct {
	playing bool
	volume  float64
	plays   int
	pauses  int
}

func (p *fakePlayer) Play() {
	p.playing = true
	p.plays++
}

func (p *fakePlayer) Pause() {
	p.playing = false
	p.pauses++
}

func (p *fakePlayer) SetVolume(volume float64) { p.volume = volume }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTrack_FadeIn(t *testing.T) {
	p := &fakePlayer{volume: 1}
	tr := NewTrack(p)
	if p.volume != 0 {
		t.Fatalf("new track volume = %v, want 0", p.volume)
	}

	tr.FadeIn(2*time.Second, 0.3)
	if !p.playing || !tr.Playing() {
		t.Fatal("FadeIn should start playback")
	}

	tr.Update(time.Second)
	if !approx(tr.Volume(), 0.15) || !approx(p.volume, 0.15) {
		t.Errorf("halfway volume = %v (player %v), want 0.15", tr.Volume(), p.volume)
	}
	tr.Update(5 * time.Second)
	if !approx(tr.Volume(), 0.3) || tr.Fading() {
		t.Errorf("final volume = %v, fading = %v", tr.Volume(), tr.Fading())
	}

	// 再生中の FadeIn は再生し直さない
	tr.FadeIn(time.Second, 0.4)
	if p.plays != 1 {
		t.Errorf("Play called %d times, want 1", p.plays)
	}
}

func TestTrack_FadeOutPauses(t *testing.T) {
	p := &fakePlayer{}
	tr := NewTrack(p)
	tr.FadeOut(time.Second)
	if p.pauses != 0 || tr.Fading() {
		t.Fatal("fading out a stopped track should do nothing")
	}

	tr.FadeIn(0, 0.4)
	if !approx(tr.Volume(), 0.4) {
		t.Fatalf("instant fade volume = %v", tr.Volume())
	}
	tr.FadeOut(time.Second)
	tr.Update(500 * time.Millisecond)
	if !approx(tr.Volume(), 0.2) || !p.playing {
		t.Errorf("mid fade-out volume = %v playing = %v", tr.Volume(), p.playing)
	}
	tr.Update(500 * time.Millisecond)
	if tr.Volume() != 0 || p.playing || tr.Playing() || p.pauses != 1 {
		t.Errorf("after fade-out: volume=%v playing=%v pauses=%d", tr.Volume(), p.playing, p.pauses)
	}
}

func TestTrack_Muted(t *testing.T) {
	p := &fakePlayer{}
	tr := NewTrack(p)
	tr.SetMuted(true)
	tr.FadeIn(0, 0.3)
	if p.volume != 0 || !approx(tr.Volume(), 0.3) {
		t.Errorf("muted: player volume %v, tracked %v", p.volume, tr.Volume())
	}
	tr.SetMuted(false)
	if !approx(p.volume, 0.3) {
		t.Errorf("unmuted player volume = %v", p.volume)
	}
}

func TestTrack_NilPlayerAndClamp(t *testing.T) {
	tr := NewTrack(nil)
	tr.FadeIn(0, 7)
	if tr.Volume() != 1 || !tr.Playing() {
		t.Errorf("volume = %v playing = %v", tr.Volume(), tr.Playing())
	}
}

func TestNop(t *testing.T) {
	n := NewNop()
	n.FadeIn(time.Second, 0.4)
	n.Update(time.Second)
	n.Note(3)
	n.Miss()
	if !n.Playing() || !approx(n.Volume(), 0.4) {
		t.Errorf("Nop volume = %v playing = %v", n.Volume(), n.Playing())
	}
	var _ Session = n
	var _ Effects = n
	var _ Session = (*Track)(nil)
	var _ Effects = (*System)(nil)
}

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			break
		}
	}
	return out
}

func TestNoteStreamer(t *testing.T) {
	sr := beep.SampleRate(SampleRate)
	for lane := range len(noteFrequencies) {
		s, err := NoteStreamer(sr, lane)
		if err != nil {
			t.Fatalf("NoteStreamer(%d) error = %v", lane, err)
		}
		samples := drain(t, s)
		if len(samples) != sr.N(NoteDuration) {
			t.Errorf("lane %d: %d samples, want %d", lane, len(samples), sr.N(NoteDuration))
		}
		peak := 0.0
		for _, v := range samples {
			peak = max(peak, math.Abs(v[0]))
		}
		if peak > EffectGain+1e-6 || peak < EffectGain/2 {
			t.Errorf("lane %d: peak %v outside gain", lane, peak)
		}
		if last := math.Abs(samples[len(samples)-1][0]); last > 0.01 {
			t.Errorf("lane %d: tail not faded: %v", lane, last)
		}
	}
	if laneIndex(-1) != 3 || laneIndex(5) != 1 {
		t.Error("laneIndex should wrap")
	}
}

func TestMissStreamer(t *testing.T) {
	sr := beep.SampleRate(SampleRate)
	if got := len(drain(t, MissStreamer(sr))); got != sr.N(MissDuration) {
		t.Errorf("miss length = %d, want %d", got, sr.N(MissDuration))
	}
}

func TestRenderBeepNotes(t *testing.T) {
	notes, err := renderBeepNotes()
	if err != nil {
		t.Fatal(err)
	}
	want := beep.SampleRate(SampleRate).N(NoteDuration) * 4
	for i, pcm := range notes {
		if len(pcm) != want {
			t.Errorf("note %d: %d bytes, want %d", i, len(pcm), want)
		}
	}
}

func TestRenderSoundFontNotes_Invalid(t *testing.T) {
	if _, err := renderSoundFontNotes([]byte("not a soundfont")); err == nil {
		t.Error("garbage SoundFont should fail")
	}
}

// wavBytes は 16bit ステレオ PCM の WAV を作成する
func wavBytes(frames int) []byte {
	var b bytes.Buffer
	dataLen := uint32(frames * 4)
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, 36+dataLen)
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(SampleRate*4))
	binary.Write(&b, binary.LittleEndian, uint16(4))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, dataLen)
	b.Write(make([]byte, dataLen))
	return b.Bytes()
}

func TestLoadMusic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Theme.WAV"), wavBytes(100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("la la"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("case insensitive wav", func(t *testing.T) {
		src, err := loadMusic(filepath.Join(dir, "theme.wav"))
		if err != nil {
			t.Fatalf("loadMusic() error = %v", err)
		}
		if src.Length() != 400 {
			t.Errorf("Length() = %d, want 400", src.Length())
		}
	})

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "missing.mp3"), ErrMusicNotFound},
		{"unsupported", filepath.Join(dir, "notes.txt"), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadMusic(tt.path); !errors.Is(err, tt.want) {
				t.Errorf("loadMusic() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := decodeMusic("broken.mp3", []byte("nope")); err == nil {
		t.Error("broken mp3 should fail to decode")
	}
}
