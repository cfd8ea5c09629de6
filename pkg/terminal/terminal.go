// Package terminal plays the story in a text terminal using tcell.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/zurustar/star-glow/pkg/logger"
	"github.com/zurustar/star-glow/pkg/scene"
	"github.com/zurustar/star-glow/pkg/state"
)

// Tick is the redraw and update interval.
const Tick = 50 * time.Millisecond

// Director is the part of scene.Director the terminal drives.
type Director interface {
	Frame() scene.Frame
	Handle(in scene.Input)
	Update(dt time.Duration)
}

// Mixer is the audio system, updated every tick.
type Mixer interface {
	Update()
	SetMuted(muted bool)
	IsMuted() bool
}

// UI renders frames to a tcell screen.
type UI struct {
	screen   tcell.Screen
	director Director
	mixer    Mixer
	timeout  time.Duration
}

// New creates a UI on an initialised screen.
func New(screen tcell.Screen, director Director, mixer Mixer, timeout time.Duration) *UI {
	return &UI{screen: screen, director: director, mixer: mixer, timeout: timeout}
}

// Run opens the terminal, plays until the player quits or the timeout expires,
// and restores the terminal.
func Run(director Director, mixer Mixer, timeout time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	return New(screen, director, mixer, timeout).Loop()
}

// Loop runs the event loop on the UI's screen.
func (u *UI) Loop() error {
	log := logger.GetLogger()
	ticker := time.NewTicker(Tick)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				// Fini の後は nil が返る
				close(events)
				return
			}
			events <- ev
		}
	}()

	var deadline <-chan time.Time
	if u.timeout > 0 {
		timer := time.NewTimer(u.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	last := time.Now()
	u.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !u.HandleEvent(ev) {
				log.Info("Terminal session ended by the player")
				return nil
			}
			u.Draw()
		case now := <-ticker.C:
			u.director.Update(now.Sub(last))
			last = now
			if u.mixer != nil {
				u.mixer.Update()
			}
			u.Draw()
		case <-deadline:
			log.Info("Timeout reached, terminating")
			return nil
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the player quits.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		f := u.director.Frame()
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyEscape && f.Chapter == state.ChapterStart {
			return false
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'm' || ev.Rune() == 'M') && u.mixer != nil {
			u.mixer.SetMuted(!u.mixer.IsMuted())
			return true
		}
		if in, ok := keyInput(ev, f); ok {
			u.director.Handle(in)
		}
	}
	return true
}

var laneRunes = map[rune]int{'d': 0, 'f': 1, 'j': 2, 'k': 3}

// keyInput maps a key press onto a scene input.
func keyInput(ev *tcell.EventKey, f scene.Frame) (scene.Input, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return scene.Key(scene.InputUp), true
	case tcell.KeyDown:
		return scene.Key(scene.InputDown), true
	case tcell.KeyLeft:
		return scene.Key(scene.InputLeft), true
	case tcell.KeyRight:
		return scene.Key(scene.InputRight), true
	case tcell.KeyEnter:
		return scene.Key(scene.InputConfirm), true
	case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
		return scene.Key(scene.InputBack), true
	case tcell.KeyRune:
	default:
		return scene.Input{}, false
	}

	r := ev.Rune()
	lanes := f.Board != nil && f.Board.Kind == scene.BoardLanes
	if lane, ok := laneRunes[r]; ok && lanes {
		return scene.Tap(lane), true
	}
	if r == ' ' {
		return scene.Key(scene.InputConfirm), true
	}
	if r >= '1' && r <= '9' {
		n := int(r - '1')
		switch {
		case lanes:
			return scene.Tap(n), true
		case len(f.Options) > 0:
			return scene.Choose(n), true
		case f.Board != nil:
			return scene.Cell(n), true
		}
	}
	return scene.Input{}, false
}

// styles is the colour set for one theme.
type styles struct {
	text     tcell.Style
	title    tcell.Style
	selected tcell.Style
}

var themeColors = map[state.ThemeColor]tcell.Color{
	state.ThemeBlue:   tcell.NewRGBColor(0x3B, 0x82, 0xF6),
	state.ThemePink:   tcell.NewRGBColor(0xEC, 0x48, 0x99),
	state.ThemePurple: tcell.NewRGBColor(0x8B, 0x5C, 0xF6),
	state.ThemeMint:   tcell.NewRGBColor(0x10, 0xB9, 0x81),
}

func stylesFor(f scene.Frame) styles {
	accent, ok := themeColors[f.Theme]
	if !ok {
		accent = themeColors[state.ThemeBlue]
	}
	base := tcell.StyleDefault
	if f.Dark {
		base = base.Background(tcell.NewRGBColor(0x0F, 0x17, 0x2A)).Foreground(tcell.NewRGBColor(0xE2, 0xE8, 0xF0))
	}
	return styles{
		text:     base,
		title:    base.Foreground(accent).Bold(true),
		selected: base.Background(accent).Foreground(tcell.ColorWhite).Bold(true),
	}
}

// Draw renders the current frame.
func (u *UI) Draw() {
	f := u.director.Frame()
	st := stylesFor(f)
	u.screen.SetStyle(st.text)
	u.screen.Clear()

	width, height := u.screen.Size()
	lines := scene.RenderText(f, width-2)
	for y, line := range lines {
		if y >= height {
			break
		}
		style := st.text
		switch {
		case y == 0:
			style = st.title
		case len(line) > 0 && line[0] == '>':
			style = st.selected
		}
		drawString(u.screen, 1, y, line, style)
	}
	u.screen.Show()
}

func drawString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}
