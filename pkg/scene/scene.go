// Package scene turns the game state into front-end neutral frames and routes
// player input to the scene of the current chapter.
//
// A Director owns the active Scene. Front ends (window, terminal, headless) only
// render Frame values and feed Input values back, so every rule of the story lives
// here and in the state and minigame packages.
package scene

import (
	"math/rand/v2"
	"time"

	"github.com/zurustar/star-glow/pkg/audio"
	"github.com/zurustar/star-glow/pkg/state"
	"github.com/zurustar/star-glow/pkg/story"
)

// InputKind identifies a player action.
type InputKind int

const (
	InputUp InputKind = iota
	InputDown
	InputLeft
	InputRight
	InputConfirm
	InputBack
	// InputChoose picks the option at Index.
	InputChoose
	// InputCell activates the board cell at Index.
	InputCell
	// InputTap taps the rhythm lane at Index.
	InputTap
)

// Input is one player action.
type Input struct {
	Kind  InputKind
	Index int
}

// Choose returns an InputChoose for option i.
func Choose(i int) Input { return Input{Kind: InputChoose, Index: i} }

// Cell returns an InputCell for board cell i.
func Cell(i int) Input { return Input{Kind: InputCell, Index: i} }

// Tap returns an InputTap for lane i.
func Tap(i int) Input { return Input{Kind: InputTap, Index: i} }

// Key returns an input without an index.
func Key(k InputKind) Input { return Input{Kind: k} }

// BoardKind says how a front end lays out Board cells.
type BoardKind int

const (
	// BoardGrid is a grid of Columns cells per row.
	BoardGrid BoardKind = iota
	// BoardScatter places every cell at its X/Y percent position.
	BoardScatter
	// BoardLanes is a row of vertical lanes. CellView.Count is the number of lights.
	BoardLanes
)

// CellView is one square, item or lane of a board.
type CellView struct {
	Label  string
	Hidden bool // face down
	Done   bool // matched, found, or a correctly placed tile
	Empty  bool // the puzzle blank
	X, Y   float64
	Count  int
}

// Board is the play area of a mini-game.
type Board struct {
	Kind    BoardKind
	Columns int
	Cells   []CellView
	Cursor  int
}

// Line is one dialogue line.
type Line struct {
	Speaker string
	Text    string
}

// ProgressStep is one star of the progress indicator.
type ProgressStep struct {
	Chapter state.ChapterKey
	Done    bool
	Current bool
}

// CrystalSlot is one crystal of the collection display.
type CrystalSlot struct {
	Type      state.CrystalType
	Name      string
	Collected bool
}

// Frame is everything a front end needs to draw one screen.
type Frame struct {
	Chapter state.ChapterKey
	Label   string
	Title   string

	Lines []Line
	Text  []string

	Board *Board

	Options  []string
	Selected int

	// Overlay is shown above everything else, e.g. during a crystal reveal.
	Overlay string
	Status  string

	Theme    state.ThemeColor
	Dark     bool
	Progress []ProgressStep
	Crystals []CrystalSlot
}

// Scene is the controller of one screen.
type Scene interface {
	Frame() Frame
	Handle(in Input)
	Update(dt time.Duration)
}

// busyScene is implemented by scenes that run timers the player has to wait for.
type busyScene interface {
	Busy() bool
}

// Env is what scenes share.
type Env struct {
	Store     *state.Store
	Pack      *story.Pack
	Variant   story.Variant
	Rand      *rand.Rand
	Effects   audio.Effects
	Clipboard Clipboard

	// ToggleDark flips the presentation-only dark mode.
	ToggleDark func()
	// Dark reports the dark mode.
	Dark func() bool
}

func (e *Env) lines(ls []story.Line) []Line {
	out := make([]Line, len(ls))
	for i, l := range ls {
		out[i] = Line{Speaker: l.Speaker, Text: l.Text}
	}
	return out
}

// progress builds the progress indicator for the current state.
func (e *Env) progress(s state.GameState) []ProgressStep {
	chapters := story.ProgressChapters()
	current := -1
	for i, ch := range chapters {
		if ch == s.CurrentChapter {
			current = i
		}
	}
	out := make([]ProgressStep, len(chapters))
	for i, ch := range chapters {
		out[i] = ProgressStep{
			Chapter: ch,
			Done:    s.HasCompleted(ch) || (current >= 0 && i < current),
			Current: i == current,
		}
	}
	return out
}

// crystals builds the crystal display for the current state.
func (e *Env) crystals(s state.GameState) []CrystalSlot {
	all := state.AllCrystals()
	out := make([]CrystalSlot, len(all))
	for i, c := range all {
		out[i] = CrystalSlot{Type: c, Name: e.Pack.Crystal(c).Name, Collected: s.Crystals.Has(c)}
	}
	return out
}

// baseFrame fills the fields every chapter screen shares.
func (e *Env) baseFrame(ch state.ChapterKey, withProgress bool) Frame {
	s := e.Store.Snapshot()
	text := e.Pack.Chapter(ch)
	f := Frame{
		Chapter:  ch,
		Label:    text.Label,
		Title:    text.Title,
		Theme:    s.ThemeColor,
		Crystals: e.crystals(s),
	}
	if e.Dark != nil {
		f.Dark = e.Dark()
	}
	if withProgress {
		f.Progress = e.progress(s)
	}
	return f
}

// option is one button of a menu.
type option struct {
	label string
	do    func()
}

// menu is a vertical list of buttons.
type menu struct {
	items    []option
	selected int
}

func (m *menu) set(items ...option) {
	m.items = items
	m.selected = min(m.selected, max(len(items)-1, 0))
}

func (m *menu) labels() []string {
	out := make([]string, len(m.items))
	for i, it := range m.items {
		out[i] = it.label
	}
	return out
}

// handle applies menu navigation and reports whether in was consumed.
func (m *menu) handle(in Input) bool {
	if len(m.items) == 0 {
		return false
	}
	switch in.Kind {
	case InputUp:
		m.selected = (m.selected + len(m.items) - 1) % len(m.items)
	case InputDown:
		m.selected = (m.selected + 1) % len(m.items)
	case InputConfirm:
		m.items[m.selected].do()
	case InputChoose:
		if in.Index < 0 || in.Index >= len(m.items) {
			return false
		}
		m.selected = in.Index
		m.items[in.Index].do()
	default:
		return false
	}
	return true
}

func (m *menu) fill(f *Frame) {
	f.Options = m.labels()
	f.Selected = m.selected
}

// moveCursor moves a grid cursor by one step and keeps it on the board.
func moveCursor(cursor, columns, cells int, in Input) int {
	if columns <= 0 || cells == 0 {
		return cursor
	}
	row, col := cursor/columns, cursor%columns
	rows := (cells + columns - 1) / columns
	switch in.Kind {
	case InputUp:
		row = (row + rows - 1) % rows
	case InputDown:
		row = (row + 1) % rows
	case InputLeft:
		col = (col + columns - 1) % columns
	case InputRight:
		col = (col + 1) % columns
	}
	next := row*columns + col
	if next >= cells {
		return cursor
	}
	return next
}
