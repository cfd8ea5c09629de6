package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

// Effect timings and levels.
const (
	NoteDuration  = 300 * time.Millisecond
	NoteRelease   = 50 * time.Millisecond
	MissDuration  = 200 * time.Millisecond
	MissStartFreq = 220.0
	MissSweep     = 100.0
	EffectGain    = 0.3
)

// noteFrequencies are A4, C5, D5 and E5, one per rhythm lane.
var noteFrequencies = [...]float64{440, 523.25, 587.33, 659.25}

// noteKeys are the MIDI keys of noteFrequencies.
var noteKeys = [...]int32{69, 72, 74, 76}

// soundFontProgram is the General MIDI glockenspiel.
const soundFontProgram = 9

func laneIndex(lane int) int {
	n := len(noteFrequencies)
	return ((lane % n) + n) % n
}

// NoteStreamer returns the sine tone of lane with a linear release at the end.
func NoteStreamer(sr beep.SampleRate, lane int) (beep.Streamer, error) {
	tone, err := generators.SineTone(sr, noteFrequencies[laneIndex(lane)])
	if err != nil {
		return nil, fmt.Errorf("failed to create note tone: %w", err)
	}
	total := sr.N(NoteDuration)
	shaped := &release{
		streamer: beep.Take(total, tone),
		total:    total,
		release:  sr.N(NoteRelease),
	}
	return gain(shaped, EffectGain), nil
}

// MissStreamer returns the rising error chirp.
func MissStreamer(sr beep.SampleRate) beep.Streamer {
	return gain(&sweep{
		rate:  sr,
		total: sr.N(MissDuration),
		from:  MissStartFreq,
		span:  MissSweep,
	}, EffectGain)
}

func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// release fades the last samples of a fixed-length stream to zero.
type release struct {
	streamer beep.Streamer
	position int
	total    int
	release  int
}

func (r *release) Stream(samples [][2]float64) (int, bool) {
	n, ok := r.streamer.Stream(samples)
	start := r.total - r.release
	for i := range n {
		if r.position >= start && r.release > 0 {
			vol := float64(r.total-r.position) / float64(r.release)
			vol = max(vol, 0)
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		r.position++
	}
	return n, ok
}

func (r *release) Err() error { return r.streamer.Err() }

// sweep is a sine whose frequency rises linearly over its length.
type sweep struct {
	rate     beep.SampleRate
	total    int
	position int
	phase    float64
	from     float64
	span     float64
}

func (s *sweep) Stream(samples [][2]float64) (int, bool) {
	if s.position >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.position >= s.total {
			return i, true
		}
		progress := float64(s.position) / float64(s.total)
		freq := s.from + s.span*progress
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i][0], samples[i][1] = v, v
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// pcmReader adapts a beep.Streamer to the 16-bit little-endian stereo stream
// Ebitengine players read.
type pcmReader struct {
	streamer beep.Streamer
	buf      [][2]float64
	done     bool
}

func newPCMReader(s beep.Streamer) *pcmReader {
	return &pcmReader{streamer: s}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]
	n, ok := r.streamer.Stream(buf)
	if !ok || n < frames {
		r.done = true
	}
	for i := range n {
		binary.LittleEndian.PutUint16(p[i*4:], uint16(toInt16(buf[i][0])))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(toInt16(buf[i][1])))
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n * 4, nil
}

func toInt16(v float64) int16 {
	return int16(min(max(v, -1), 1) * 32767)
}

// renderStreamer drains s into PCM bytes.
func renderStreamer(s beep.Streamer) ([]byte, error) {
	data, err := io.ReadAll(newPCMReader(s))
	if err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// renderSoundFontNotes renders one note per lane with a SoundFont instrument.
func renderSoundFontNotes(sf2 []byte) ([len(noteKeys)][]byte, error) {
	var out [len(noteKeys)][]byte

	soundFont, err := meltysynth.NewSoundFont(bytes.NewReader(sf2))
	if err != nil {
		return out, fmt.Errorf("failed to parse SoundFont: %w", err)
	}
	settings := meltysynth.NewSynthesizerSettings(SampleRate)
	synth, err := meltysynth.NewSynthesizer(soundFont, settings)
	if err != nil {
		return out, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	hold := int(SampleRate * (NoteDuration - NoteRelease) / time.Second)
	tail := int(SampleRate * NoteRelease / time.Second)
	for i, key := range noteKeys {
		synth.Reset()
		synth.ProcessMidiMessage(0, 0xC0, soundFontProgram, 0)
		synth.NoteOn(0, key, 100)

		left := make([]float32, hold+tail)
		right := make([]float32, hold+tail)
		synth.Render(left[:hold], right[:hold])
		synth.NoteOff(0, key)
		synth.Render(left[hold:], right[hold:])

		pcm := make([]byte, len(left)*4)
		for j := range left {
			binary.LittleEndian.PutUint16(pcm[j*4:], uint16(toInt16(float64(left[j]))))
			binary.LittleEndian.PutUint16(pcm[j*4+2:], uint16(toInt16(float64(right[j]))))
		}
		out[i] = pcm
	}
	return out, nil
}

// renderBeepNotes renders one synthesized note per lane.
func renderBeepNotes() ([len(noteKeys)][]byte, error) {
	var out [len(noteKeys)][]byte
	for i := range noteKeys {
		s, err := NoteStreamer(SampleRate, i)
		if err != nil {
			return out, err
		}
		if out[i], err = renderStreamer(s); err != nil {
			return out, err
		}
	}
	return out, nil
}
