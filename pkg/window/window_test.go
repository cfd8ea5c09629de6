package window

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/zurustar/star-glow/pkg/minigame"
	"github.com/zurustar/star-glow/pkg/scene"
	"github.com/zurustar/star-glow/pkg/state"
	"github.com/zurustar/star-glow/pkg/story"
)

// fakeDirector は受け取った入力と経過時間を記録する
type fakeDirector struct {
	frame   scene.Frame
	inputs  []scene.Input
	elapsed time.Duration
	updates int
	busyFor time.Duration
}

func (d *fakeDirector) Frame() scene.Frame    { return d.frame }
func (d *fakeDirector) Handle(in scene.Input) { d.inputs = append(d.inputs, in) }
func (d *fakeDirector) Busy() bool            { return d.elapsed < d.busyFor }

func (d *fakeDirector) Update(dt time.Duration) {
	d.elapsed += dt
	d.updates++
}

type fakeMixer struct {
	updates int
	muted   bool
}

func (m *fakeMixer) Update()             { m.updates++ }
func (m *fakeMixer) SetMuted(muted bool) { m.muted = muted }
func (m *fakeMixer) IsMuted() bool       { return m.muted }

const windowStory = `
title: Window Test
chapters:
  attic:
    title: The Attic
    intro:
      - {speaker: Narrator, text: Dust everywhere.}
      - {speaker: Star, text: Find my crystals.}
pairs:
  - {word: Snow, match: Winter}
market:
  - {id: gift, name: Gift box, required: true}
`

// newTestDirector は保存しないストアで本物の Director を作る
func newTestDirector(t *testing.T) *scene.Director {
	t.Helper()
	pack, err := story.ParsePack([]byte(windowStory), nil)
	if err != nil {
		t.Fatalf("ParsePack() error = %v", err)
	}
	store := state.NewStore(state.NewMemoryStorage())
	store.Hydrate()
	d := scene.NewDirector(store, pack,
		scene.WithRand(minigame.NewSeededRand(1)),
		scene.WithClipboard(nil))
	t.Cleanup(d.Close)
	return d
}

func TestLayout(t *testing.T) {
	game := NewGame(&fakeDirector{}, nil, 0)

	width, height := game.Layout(0, 0)

	if width != 1024 {
		t.Errorf("expected width 1024, got %d", width)
	}

	if height != 768 {
		t.Errorf("expected height 768, got %d", height)
	}
}

func TestUpdate_Timeout(t *testing.T) {
	// 非常に短いタイムアウトを設定
	game := NewGame(&fakeDirector{}, nil, 1*time.Nanosecond)

	// 少し待機
	time.Sleep(10 * time.Millisecond)

	// Update を呼び出すとタイムアウトで終了するはず
	if err := game.Update(); err != ebiten.Termination {
		t.Errorf("expected ebiten.Termination, got %v", err)
	}
}

func TestUpdate_AdvancesDirectorAndMixer(t *testing.T) {
	d := &fakeDirector{frame: scene.Frame{Title: "x"}}
	m := &fakeMixer{}
	game := NewGame(d, m, 0)

	for range 3 {
		if err := game.Update(); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	if d.updates != 3 || d.elapsed != 3*frameDuration() {
		t.Errorf("director updated %d times for %v", d.updates, d.elapsed)
	}
	if m.updates != 3 {
		t.Errorf("mixer updated %d times", m.updates)
	}
	if game.frame.Title != "x" {
		t.Errorf("cached frame = %+v", game.frame)
	}
}

func TestKeyInput(t *testing.T) {
	menu := scene.Frame{Options: []string{"a", "b"}}
	grid := scene.Frame{Board: &scene.Board{Kind: scene.BoardGrid, Columns: 3}}
	lanes := scene.Frame{Board: &scene.Board{Kind: scene.BoardLanes, Columns: 4}}

	tests := []struct {
		name  string
		key   ebiten.Key
		frame scene.Frame
		want  scene.Input
		ok    bool
	}{
		{"arrow", ebiten.KeyUp, menu, scene.Key(scene.InputUp), true},
		{"enter", ebiten.KeyEnter, menu, scene.Key(scene.InputConfirm), true},
		{"space", ebiten.KeySpace, grid, scene.Key(scene.InputConfirm), true},
		{"escape", ebiten.KeyEscape, grid, scene.Key(scene.InputBack), true},
		{"digit chooses an option", ebiten.KeyDigit2, menu, scene.Choose(1), true},
		{"digit picks a cell", ebiten.KeyDigit5, grid, scene.Cell(4), true},
		{"digit taps a lane", ebiten.KeyDigit3, lanes, scene.Tap(2), true},
		{"lane key", ebiten.KeyJ, lanes, scene.Tap(2), true},
		{"lane key outside the rhythm game", ebiten.KeyJ, menu, scene.Input{}, false},
		{"digit on an empty frame", ebiten.KeyDigit1, scene.Frame{}, scene.Input{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyInput(tt.key, tt.frame)
			if ok != tt.ok || got != tt.want {
				t.Errorf("keyInput() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHitTest(t *testing.T) {
	grid := scene.Frame{Board: &scene.Board{Kind: scene.BoardGrid, Columns: 2, Cells: make([]scene.CellView, 4)}}
	lanes := scene.Frame{Board: &scene.Board{Kind: scene.BoardLanes, Columns: 4, Cells: make([]scene.CellView, 4)}}
	scatter := scene.Frame{Board: &scene.Board{Kind: scene.BoardScatter, Cells: []scene.CellView{{X: 10, Y: 10}, {X: 90, Y: 90}}}}
	menu := scene.Frame{Options: []string{"a", "b", "c"}}

	center := func(f scene.Frame, option bool, i int) (float64, float64) {
		l := computeLayout(f)
		if option {
			return l.options[i].center()
		}
		return l.cells[i].center()
	}

	tests := []struct {
		name  string
		frame scene.Frame
		opt   bool
		index int
		want  scene.Input
	}{
		{"option", menu, true, 2, scene.Choose(2)},
		{"grid cell", grid, false, 3, scene.Cell(3)},
		{"lane", lanes, false, 1, scene.Tap(1)},
		{"scatter item", scatter, false, 1, scene.Cell(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := center(tt.frame, tt.opt, tt.index)
			got, ok := hitTest(tt.frame, computeLayout(tt.frame), x, y)
			if !ok || got != tt.want {
				t.Errorf("hitTest() = %+v, %v; want %+v", got, ok, tt.want)
			}
		})
	}

	if _, ok := hitTest(menu, computeLayout(menu), 1, 1); ok {
		t.Error("a click on the header should hit nothing")
	}
}

func TestPaletteFor(t *testing.T) {
	light := paletteFor(state.ThemePink, false)
	dark := paletteFor(state.ThemePink, true)
	if light.accent != dark.accent {
		t.Error("dark mode should keep the theme accent")
	}
	if dark.background == light.background || dark.text == light.text {
		t.Error("dark mode should change background and text")
	}
	if got := paletteFor("sepia", false).accent; got != accents[state.ThemeBlue] {
		t.Errorf("unknown theme accent = %v, want blue", got)
	}
	seen := map[[4]uint8]bool{}
	for _, th := range state.AllThemes() {
		a := paletteFor(th, false).accent
		seen[[4]uint8{a.R, a.G, a.B, a.A}] = true
	}
	if len(seen) != len(state.AllThemes()) {
		t.Errorf("themes share accents: %d distinct", len(seen))
	}
}

func TestWrapText(t *testing.T) {
	face := fonts().body
	lines := wrapText("one two three four five six seven eight nine ten", face, 120)
	if len(lines) < 2 {
		t.Fatalf("wrapText() = %q, want several lines", lines)
	}
	if got := strings.Join(lines, " "); got != "one two three four five six seven eight nine ten" {
		t.Errorf("wrapping lost words: %q", got)
	}
	if got := wrapText("   ", face, 100); len(got) != 0 {
		t.Errorf("blank text = %q", got)
	}
}

func TestParseCommand(t *testing.T) {
	menu := scene.Frame{Options: []string{"a"}}
	grid := scene.Frame{Board: &scene.Board{Kind: scene.BoardGrid}}
	lanes := scene.Frame{Board: &scene.Board{Kind: scene.BoardLanes}}

	tests := []struct {
		name    string
		line    string
		frame   scene.Frame
		want    command
		wantErr bool
	}{
		{"empty line confirms", "", menu, command{inputs: []scene.Input{scene.Key(scene.InputConfirm)}}, false},
		{"next", "next", menu, command{inputs: []scene.Input{scene.Key(scene.InputConfirm)}}, false},
		{"number chooses", "1", menu, command{inputs: []scene.Input{scene.Choose(0)}}, false},
		{"number picks a cell", "4", grid, command{inputs: []scene.Input{scene.Cell(3)}}, false},
		{"number taps a lane", "2", lanes, command{inputs: []scene.Input{scene.Tap(1)}}, false},
		{"cell", "cell 9", grid, command{inputs: []scene.Input{scene.Cell(8)}}, false},
		{"tap", "TAP 3", lanes, command{inputs: []scene.Input{scene.Tap(2)}}, false},
		{"arrow", "left", grid, command{inputs: []scene.Input{scene.Key(scene.InputLeft)}}, false},
		{"back", "back", menu, command{inputs: []scene.Input{scene.Key(scene.InputBack)}}, false},
		{"wait default", "wait", lanes, command{wait: time.Second}, false},
		{"wait ms", "wait 800", lanes, command{wait: 800 * time.Millisecond}, false},
		{"quit", "q", menu, command{quit: true}, false},
		{"cell without number", "cell", grid, command{}, true},
		{"zero", "0", menu, command{}, true},
		{"unknown", "dance", menu, command{}, true},
		{"bad wait", "wait soon", menu, command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommand(tt.line, tt.frame)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got.inputs) != len(tt.want.inputs) || got.wait != tt.want.wait || got.quit != tt.want.quit {
				t.Fatalf("parseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
			for i := range got.inputs {
				if got.inputs[i] != tt.want.inputs[i] {
					t.Errorf("input %d = %+v, want %+v", i, got.inputs[i], tt.want.inputs[i])
				}
			}
		})
	}
}

func TestRunHeadless_Script(t *testing.T) {
	d := newTestDirector(t)
	var output strings.Builder
	input := strings.NewReader("1\nnext\nshow\nbogus\nq\nnever read\n")

	if err := RunHeadless(d, 0, input, &output); err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}

	out := output.String()
	for _, want := range []string{
		"== Window Test ==",
		"1) Begin Journey",
		"Narrator: Dust everywhere.",
		"Star: Find my crystals.",
		"unknown command: bogus",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if got := d.Chapter(); got != state.ChapterAttic {
		t.Errorf("Chapter() = %s after the script, want attic", got)
	}
}

func TestRunHeadless_InputClosed(t *testing.T) {
	d := &fakeDirector{frame: scene.Frame{Title: "Closed", Options: []string{"a"}}}
	var output strings.Builder

	if err := RunHeadless(d, 0, strings.NewReader("2\n"), &output); err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if len(d.inputs) != 1 || d.inputs[0] != scene.Choose(1) {
		t.Errorf("inputs = %+v", d.inputs)
	}
}

func TestRunHeadless_Timeout(t *testing.T) {
	d := &fakeDirector{frame: scene.Frame{Title: "Waiting"}}
	r, w := io.Pipe()
	defer w.Close()

	done := make(chan error, 1)
	go func() {
		done <- RunHeadless(d, 50*time.Millisecond, r, io.Discard)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunHeadless() error = %v, want nil on timeout", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RunHeadless did not stop at the timeout")
	}
}

func TestRunHeadless_WaitSettles(t *testing.T) {
	d := &fakeDirector{frame: scene.Frame{Title: "Busy"}, busyFor: 3 * time.Second}
	if err := RunHeadless(d, 0, strings.NewReader("wait 200\n"), io.Discard); err != nil {
		t.Fatal(err)
	}
	if d.Busy() {
		t.Errorf("director still busy after %v", d.elapsed)
	}
}
