package scene

import (
	"slices"
	"time"

	"github.com/zurustar/star-glow/pkg/state"
)

// startScene is the landing screen.
type startScene struct {
	env  *Env
	menu menu
}

func newStartScene(env *Env) *startScene {
	s := &startScene{env: env}
	s.rebuild()
	return s
}

// rebuild recomputes the buttons, which depend on saved progress and the theme.
func (s *startScene) rebuild() {
	env := s.env
	_, hasSaved := env.Store.SavedProgress()

	var items []option
	if hasSaved {
		items = append(items, option{env.Pack.T("Continue"), env.Store.ContinueGame})
	}
	startLabel := env.Pack.T("Begin Journey")
	if hasSaved {
		startLabel = env.Pack.T("New Game")
	}
	items = append(items, option{startLabel, func() {
		env.Store.ResetGame()
		env.Store.GoToChapter(state.ChapterAttic)
	}})
	if hasSaved {
		items = append(items, option{env.Pack.T("Reset Progress"), func() {
			env.Store.ResetGame()
			s.rebuild()
		}})
	}

	theme := env.Store.Snapshot().ThemeColor
	items = append(items, option{env.Pack.T("Theme: %s", env.Pack.Theme(theme)), func() {
		s.cycleTheme(1)
	}})

	dark := env.Pack.T("off")
	if env.Dark != nil && env.Dark() {
		dark = env.Pack.T("on")
	}
	items = append(items, option{env.Pack.T("Dark mode: %s", dark), func() {
		if env.ToggleDark != nil {
			env.ToggleDark()
		}
		s.rebuild()
	}})

	s.menu.set(items...)
}

func (s *startScene) themeSelected() bool {
	return s.menu.selected == len(s.menu.items)-2
}

func (s *startScene) cycleTheme(step int) {
	themes := state.AllThemes()
	i := slices.Index(themes, s.env.Store.Snapshot().ThemeColor)
	next := themes[(i+step+len(themes))%len(themes)]
	s.env.Store.SetThemeColor(next)
	s.rebuild()
}

func (s *startScene) Handle(in Input) {
	if s.themeSelected() {
		switch in.Kind {
		case InputLeft:
			s.cycleTheme(-1)
			return
		case InputRight:
			s.cycleTheme(1)
			return
		}
	}
	s.menu.handle(in)
}

func (s *startScene) Update(time.Duration) {}

func (s *startScene) Frame() Frame {
	f := s.env.baseFrame(state.ChapterStart, false)
	f.Title = s.env.Pack.Title
	f.Label = ""
	if s.env.Pack.Tagline != "" {
		f.Text = []string{s.env.Pack.Tagline}
	}
	s.menu.fill(&f)
	return f
}
